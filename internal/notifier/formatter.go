package notifier

import (
	"fmt"
	"strings"
	"time"

	"DayAheadArchiver/internal/calculator"
)

// RunSummary is what a report needs to know about a finished run.
type RunSummary struct {
	Source   string
	Today    time.Time
	Weeks    int
	Fetched  int
	Years    []calculator.YearSummary
	Manifest []int
}

// FormatRunReport formats a successful run into a Telegram message.
func FormatRunReport(s *RunSummary) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("⚡ <b>Day-ahead archive</b> | %s | %s\n\n", s.Source, s.Today.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Weeks fetched: %d\n", s.Weeks))
	b.WriteString(fmt.Sprintf("Records fetched: %d\n", s.Fetched))

	if len(s.Years) == 0 {
		b.WriteString("\nNothing new to archive.\n")
	} else {
		b.WriteString("\n📁 <b>Years written:</b>\n")
		for _, y := range s.Years {
			b.WriteString(fmt.Sprintf("  %d: %d items, avg %.2f €/MWh (min %.2f, max %.2f)\n",
				y.Year, y.Count, y.AvgPrice, y.MinPrice, y.MaxPrice))
			if y.TotalVolume > 0 {
				b.WriteString(fmt.Sprintf("        volume %.0f MWh\n", y.TotalVolume))
			}
		}
	}

	if n := len(s.Manifest); n > 0 {
		b.WriteString(fmt.Sprintf("\nArchived years: %d (%d-%d)\n", n, s.Manifest[0], s.Manifest[n-1]))
	}
	return b.String()
}

// FormatRunFailure formats a failed run.
func FormatRunFailure(source string, err error) string {
	return fmt.Sprintf("❌ <b>Day-ahead archive failed</b> | %s\n\n%v", source, err)
}
