// Package history builds and renders transmission history reports.
package history

import (
	"context"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"
)

// Source loads stored transmissions.
type Source interface {
	ListTransmissions(ctx context.Context, cfg model.HistoryConfig) ([]model.TransmissionRow, error)
	AggregateByKind(ctx context.Context, cfg model.HistoryConfig) ([]model.KindAggregate, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Transmissions []model.TransmissionRow
	Kinds         []model.KindAggregate
}

// BuildReport loads transmissions and per-kind totals for cfg.
func BuildReport(ctx context.Context, src Source, cfg model.HistoryConfig) (Report, error) {
	rows, err := src.ListTransmissions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	kinds, err := src.AggregateByKind(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{Transmissions: rows, Kinds: kinds}, nil
}

// Totals sums the per-kind aggregates.
func (r Report) Totals() model.KindAggregate {
	var total model.KindAggregate
	for _, k := range r.Kinds {
		total.Count += k.Count
		total.Chars += k.Chars
		total.KeyedMs += k.KeyedMs
		total.DurationMs += k.DurationMs
	}
	return total
}

// Incomplete counts transmissions that were aborted before the end.
func (r Report) Incomplete() int {
	n := 0
	for _, tx := range r.Transmissions {
		if !tx.Completed {
			n++
		}
	}
	return n
}
