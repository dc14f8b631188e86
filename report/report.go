// Package report renders query results for the command line: a
// line-oriented answers report and markdown tables for the named-query
// mapping and for individual result sets.
package report

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/wbrown/privalog/kb"
)

// Answer pairs a named query with its result.
type Answer struct {
	ID       string
	Question string
	Result   *kb.Result
}

// TableFormatter provides utilities for formatting results as tables
type TableFormatter struct {
	// MaxWidth is the maximum width for a column
	MaxWidth int
	// TruncateString is the string to append when truncating
	TruncateString string
}

// NewTableFormatter creates a new table formatter with default settings
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		MaxWidth:       50,
		TruncateString: "...",
	}
}

// FormatResult formats a single result as a markdown table. Ground
// goals have no columns, so they render as their truth value.
func (tf *TableFormatter) FormatResult(res *kb.Result) string {
	if res == nil {
		return "_No result_"
	}
	if res.Ground() {
		if res.Truth {
			return "true."
		}
		return "false."
	}
	if len(res.Rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_", res.Columns)
	}

	rows := make([][]string, len(res.Rows))
	for i, row := range res.Rows {
		out := make([]string, len(row))
		for j, val := range row {
			out[j] = tf.truncate(val)
		}
		rows[i] = out
	}
	return tf.formatTable(res.Columns, rows)
}

// FormatMapping formats the question-to-goal-to-answer mapping as a
// markdown table, one row per named query.
func (tf *TableFormatter) FormatMapping(answers []Answer) string {
	headers := []string{"QID", "Question", "Goal", "Answer"}
	rows := make([][]string, len(answers))
	for i, a := range answers {
		rows[i] = []string{
			a.ID,
			tf.truncate(a.Question),
			tf.truncate(a.Result.Goal.String()),
			tf.truncate(summarize(a.Result)),
		}
	}
	return tf.formatTable(headers, rows)
}

// formatTable renders headers and rows as a markdown table.
func (tf *TableFormatter) formatTable(columns []string, rows [][]string) string {
	tableString := &strings.Builder{}

	alignment := make([]tw.Align, len(columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(tableString,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)

	table.Header(columns)
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()

	tableString.WriteString(fmt.Sprintf("\n_%d rows_\n", len(rows)))
	return tableString.String()
}

func (tf *TableFormatter) truncate(s string) string {
	if tf.MaxWidth <= 0 || len(s) <= tf.MaxWidth {
		return s
	}
	return s[:tf.MaxWidth] + tf.TruncateString
}

// Lines renders answers as the line-oriented report:
//
//	[Q1] What information does Google collect?
//	  Answers: [information, personal_information]
func Lines(answers []Answer) string {
	var b strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&b, "\n[%s] %s\n", a.ID, a.Question)
		fmt.Fprintf(&b, "  %s\n", summarize(a.Result))
	}
	return b.String()
}

// summarize collapses a result into one report line.
func summarize(res *kb.Result) string {
	if res == nil {
		return "no result"
	}
	if res.Ground() {
		if res.Truth {
			return "true."
		}
		return "false / no answers."
	}
	if len(res.Rows) == 0 {
		return "false / no answers."
	}
	if len(res.Columns) == 1 {
		return fmt.Sprintf("Answers: [%s]", strings.Join(res.Values(), ", "))
	}
	parts := make([]string, len(res.Rows))
	for i, row := range res.Rows {
		pairs := make([]string, len(res.Columns))
		for j, col := range res.Columns {
			pairs[j] = col + "=" + row[j]
		}
		parts[i] = "(" + strings.Join(pairs, ", ") + ")"
	}
	return "Answers: [" + strings.Join(parts, ", ") + "]"
}
