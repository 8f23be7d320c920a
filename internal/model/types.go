// Package model defines shared data structures.
package model

import "time"

// Kind identifies what produced a transmission.
type Kind string

const (
	KindText   Kind = "text"
	KindRepeat Kind = "repeat"
	KindGroup  Kind = "group"
	KindMemory Kind = "memory"
)

// Transmission records one keyed message.
type Transmission struct {
	SentAt      time.Time
	Kind        Kind
	Text        string
	WPM         int
	Calibration float64
	Chars       int
	KeyedMs     int64
	DurationMs  int64
	Completed   bool
}

// HistoryConfig filters the transmission history.
type HistoryConfig struct {
	Kind  Kind
	Since *time.Time
	Last  int
}

// TransmissionRow is a stored transmission with its id.
type TransmissionRow struct {
	ID int64
	Transmission
}

// KindAggregate summarizes transmissions of one kind.
type KindAggregate struct {
	Kind       Kind
	Count      int
	Chars      int
	KeyedMs    int64
	DurationMs int64
}
