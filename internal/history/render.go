package history

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/nic0michael/ZS6BVR-MorseCodeSenderPiPico/internal/model"
)

// Columns are the headers of the transmission table.
var Columns = []string{"When", "Kind", "WPM", "Chars", "Keyed", "Length", "Text"}

const maxTextWidth = 40

// Rows formats transmissions newest first. Relative times are measured
// from now.
func Rows(rows []model.TransmissionRow, now time.Time) [][]string {
	out := make([][]string, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		tx := rows[i]
		text := runewidth.Truncate(tx.Text, maxTextWidth, "…")
		if !tx.Completed {
			text += " (aborted)"
		}
		out = append(out, []string{
			humanize.RelTime(tx.SentAt, now, "ago", "from now"),
			string(tx.Kind),
			strconv.Itoa(tx.WPM),
			humanize.Comma(int64(tx.Chars)),
			formatMillis(tx.KeyedMs),
			formatMillis(tx.DurationMs),
			text,
		})
	}
	return out
}

// SummaryLines describes the per-kind totals.
func SummaryLines(r Report) []string {
	total := r.Totals()
	if total.Count == 0 {
		return []string{"No transmissions recorded."}
	}
	lines := []string{
		fmt.Sprintf("%s transmissions, %s characters, %s keyed over %s on air.",
			humanize.Comma(int64(total.Count)),
			humanize.Comma(int64(total.Chars)),
			formatMillis(total.KeyedMs),
			formatMillis(total.DurationMs)),
	}
	if n := r.Incomplete(); n > 0 {
		lines = append(lines, fmt.Sprintf("%s aborted before the end.", humanize.Comma(int64(n))))
	}
	rows := make([][]string, 0, len(r.Kinds))
	for _, k := range r.Kinds {
		rows = append(rows, []string{
			string(k.Kind),
			humanize.Comma(int64(k.Count)),
			humanize.Comma(int64(k.Chars)),
			formatMillis(k.DurationMs),
		})
	}
	lines = append(lines, "")
	lines = append(lines, formatTable([]string{"Kind", "Count", "Chars", "Length"}, rows, map[int]bool{1: true, 2: true, 3: true})...)
	return lines
}

// RenderPlain writes the summary and transmission table as plain text.
func RenderPlain(w io.Writer, r Report, now time.Time) error {
	lines := SummaryLines(r)
	if len(r.Transmissions) > 0 {
		lines = append(lines, "")
		lines = append(lines, formatTable(Columns, Rows(r.Transmissions, now), map[int]bool{2: true, 3: true, 4: true, 5: true})...)
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func formatMillis(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}
