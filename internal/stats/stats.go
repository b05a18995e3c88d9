// Package stats contains typing statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/barkeep/internal/store"
)

const sparkChars = " .:-=+*#%@"

const recentLimit = 10

// AverageWPM aggregates sessions into one figure: total words over total
// minutes, so long sessions weigh more than short bursts.
func AverageWPM(records []store.Record) float64 {
	var words, minutes float64
	for _, r := range records {
		words += float64(r.Chars) / 5.0
		minutes += r.Duration.Minutes()
	}
	if minutes <= 0 {
		return 0
	}
	return words / minutes
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderReport prints the full typing report: summary, WPM trend, and the
// most recent sessions. Records are expected oldest first.
func RenderReport(w io.Writer, records []store.Record, window int) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No typing sessions found.")
		return err
	}

	if err := renderSummary(w, records); err != nil {
		return err
	}
	if err := renderTrend(w, records, window); err != nil {
		return err
	}
	return renderRecent(w, records)
}

func renderSummary(w io.Writer, records []store.Record) error {
	bestWPM := 0.0
	totalChars := 0
	var totalTime time.Duration
	for _, r := range records {
		if wpm := r.WPM(); wpm > bestWPM {
			bestWPM = wpm
		}
		totalChars += r.Chars
		totalTime += r.Duration
	}

	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.2f\n", AverageWPM(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.2f\n", bestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Characters: %d\n", totalChars); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Typing time: %s\n", totalTime.Round(time.Second)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderTrend(w io.Writer, records []store.Record, window int) error {
	wpms := make([]float64, len(records))
	for i, r := range records {
		wpms[i] = r.WPM()
	}
	wpms = MovingAverage(wpms, window)

	if _, err := fmt.Fprintln(w, "WPM Trend"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(wpms)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func renderRecent(w io.Writer, records []store.Record) error {
	recent := records
	if len(recent) > recentLimit {
		recent = recent[len(recent)-recentLimit:]
	}

	if _, err := fmt.Fprintln(w, "Recent Sessions"); err != nil {
		return err
	}
	headers := []string{"Ended", "Duration", "Chars", "WPM"}
	rows := make([][]string, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		r := recent[i]
		rows = append(rows, []string{
			r.EndedAt.Format("2006-01-02 15:04:05"),
			r.Duration.Round(time.Millisecond * 100).String(),
			fmt.Sprintf("%d", r.Chars),
			fmt.Sprintf("%.1f", r.WPM()),
		})
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
