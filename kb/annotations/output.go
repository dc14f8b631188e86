package annotations

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// OutputFormatter formats events for human-readable display.
type OutputFormatter struct {
	useColor bool
	writer   io.Writer
}

// NewOutputFormatter creates a formatter. Color is enabled when the
// fatih/color package detects a capable terminal.
func NewOutputFormatter(w io.Writer) *OutputFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &OutputFormatter{
		useColor: !color.NoColor,
		writer:   w,
	}
}

// Handle implements the Handler signature - prints events as they occur.
func (f *OutputFormatter) Handle(event Event) {
	output := f.Format(event)
	if output != "" {
		fmt.Fprintln(f.writer, output)
	}
}

// Format converts an event to a human-readable string.
func (f *OutputFormatter) Format(event Event) string {
	latency := f.formatLatency(event)

	switch event.Name {
	case SolveInvoked:
		return fmt.Sprintf("%s Goal: %s", latency, event.Data["goal"])

	case SolveConjunct:
		return fmt.Sprintf("%s   %s: %s -> %s live",
			latency,
			event.Data["conjunct"],
			f.colorizeCount("facts", event.Data["facts.count"]),
			f.colorizeCount("substitutions", event.Data["substitutions.count"]))

	case SolveComplete:
		if ground, _ := event.Data["ground"].(bool); ground {
			return fmt.Sprintf("%s %s Ground goal: %v",
				latency,
				f.colorize("===", color.FgGreen),
				event.Data["truth"])
		}
		return fmt.Sprintf("%s %s Solved with %s",
			latency,
			f.colorize("===", color.FgGreen),
			f.colorizeCount("rows", event.Data["rows.count"]))

	case ValidateChecked:
		verdict := "invalid"
		attr := color.FgRed
		if ok, _ := event.Data["valid"].(bool); ok {
			verdict = "valid"
			attr = color.FgGreen
		}
		return fmt.Sprintf("%s Formula %s: %s",
			latency, f.colorize(verdict, attr), event.Data["formula"])

	case LoadFacts:
		return fmt.Sprintf("%s Loaded %s from %s",
			latency,
			f.colorizeCount("facts", event.Data["facts.count"]),
			event.Data["source"])

	case LoadComplete:
		return fmt.Sprintf("%s %s Knowledge base ready: %s across %s",
			latency,
			f.colorize("===", color.FgGreen),
			f.colorizeCount("facts", event.Data["facts.count"]),
			f.colorizeCount("predicates", event.Data["predicates.count"]))

	case ErrorSchema, ErrorParse:
		return fmt.Sprintf("%s %s %v",
			latency,
			f.colorize("✗", color.FgRed),
			event.Data["error"])

	default:
		return fmt.Sprintf("%s %s", latency, event.Name)
	}
}

func (f *OutputFormatter) formatLatency(event Event) string {
	ms := float64(event.Latency.Microseconds()) / 1000.0
	return fmt.Sprintf("[%8.3fms]", ms)
}

func (f *OutputFormatter) colorize(s string, attr color.Attribute) string {
	if !f.useColor {
		return s
	}
	return color.New(attr).Sprint(s)
}

func (f *OutputFormatter) colorizeCount(noun string, count interface{}) string {
	s := fmt.Sprintf("%v %s", count, noun)
	if !f.useColor {
		return s
	}
	return color.New(color.FgCyan).Sprint(s)
}
