package historyui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/history"
	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"
)

type loaderCalls struct {
	kinds []model.Kind
	err   error
}

func (l *loaderCalls) load(cfg model.HistoryConfig) (history.Report, error) {
	l.kinds = append(l.kinds, cfg.Kind)
	if l.err != nil {
		return history.Report{}, l.err
	}
	return history.Report{
		Transmissions: []model.TransmissionRow{
			{ID: 1, Transmission: model.Transmission{SentAt: time.Now(), Kind: model.KindText, Text: "CQ DE ZS6BVR", WPM: 12, Chars: 12, Completed: true}},
		},
		Kinds: []model.KindAggregate{{Kind: model.KindText, Count: 1, Chars: 12}},
	}, nil
}

func sized(m *Model) *Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	return next.(*Model)
}

func TestViewShowsSummaryAndRows(t *testing.T) {
	calls := &loaderCalls{}
	m := sized(NewModel(calls.load, model.HistoryConfig{}))
	view := m.View()
	for _, want := range []string{"kind: all", "1 transmissions", "CQ DE ZS6BVR"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestViewEmptyBeforeSize(t *testing.T) {
	calls := &loaderCalls{}
	if got := NewModel(calls.load, model.HistoryConfig{}).View(); got != "" {
		t.Fatalf("expected empty view before window size, got %q", got)
	}
}

func TestKindFilterCycles(t *testing.T) {
	calls := &loaderCalls{}
	m := sized(NewModel(calls.load, model.HistoryConfig{}))
	key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")}
	for _, want := range []model.Kind{model.KindText, model.KindRepeat, model.KindGroup, model.KindMemory, ""} {
		next, _ := m.Update(key)
		m = next.(*Model)
		if m.Kind() != want {
			t.Fatalf("expected kind %q, got %q", want, m.Kind())
		}
	}
	if len(calls.kinds) != 6 || calls.kinds[1] != model.KindText {
		t.Fatalf("expected a reload per filter change, got %v", calls.kinds)
	}
}

func TestQuitKeys(t *testing.T) {
	calls := &loaderCalls{}
	m := sized(NewModel(calls.load, model.HistoryConfig{}))
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("expected quit command for %q", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg for %q", key.String())
		}
	}
}

func TestLoadErrorIsShown(t *testing.T) {
	calls := &loaderCalls{err: errors.New("database locked")}
	m := sized(NewModel(calls.load, model.HistoryConfig{}))
	if !strings.Contains(m.View(), "Failed to load history: database locked") {
		t.Fatalf("expected load error in view:\n%s", m.View())
	}
}
