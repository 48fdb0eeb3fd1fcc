package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/SergeiSkv/AbbrFix/abbrev"
	"github.com/SergeiSkv/AbbrFix/models"
)

var (
	fileColor    = color.New(color.FgCyan, color.Bold)
	ruleColor    = color.New(color.FgYellow)
	renameColor  = color.New(color.FgGreen, color.Bold)
	summaryColor = color.New(color.Bold)
)

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Target    string          `json:"target"`
	Summary   Summary         `json:"summary"`
	Issues    []*models.Issue `json:"issues"`
	FileStats []fileStat      `json:"file_stats"`
}

// Summary contains overall statistics
type Summary struct {
	TotalIssues int `json:"total_issues"`
	High        int `json:"high"`
	Medium      int `json:"medium"`
	Low         int `json:"low"`
	Fixed       int `json:"fixed"`
}

type fileStat struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
}

// fileStats counts issues per file, in order of first appearance
func fileStats(issues []*models.Issue) []fileStat {
	stats := make([]fileStat, 0, 8)
	index := make(map[string]int)
	for _, issue := range issues {
		if i, ok := index[issue.File]; ok {
			stats[i].Count++
			continue
		}
		index[issue.File] = len(stats)
		stats = append(stats, fileStat{Filename: issue.File, Count: 1})
	}
	return stats
}

func outputJSON(w io.Writer, target string, issues []*models.Issue, fixed int) error {
	high, medium, low := countBySeverity(issues)
	output := JSONOutput{
		Target: target,
		Summary: Summary{
			TotalIssues: len(issues),
			High:        high,
			Medium:      medium,
			Low:         low,
			Fixed:       fixed,
		},
		Issues:    issues,
		FileStats: fileStats(issues),
	}
	if output.Issues == nil {
		output.Issues = []*models.Issue{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "failed to encode JSON")
}

func outputHuman(w io.Writer, issues []*models.Issue, fixed int, compactMode bool) {
	if fixed > 0 {
		fmt.Fprintf(w, "Renamed %d identifiers\n", fixed)
	}
	if len(issues) == 0 {
		fmt.Fprintln(w, "✅ No abbreviation issues found!")
		return
	}

	if compactMode {
		fmt.Fprint(w, buildCompactOutput(issues))
	} else {
		fmt.Fprint(w, buildGroupedOutput(issues))
	}
	printSummary(w, issues)
}

func printSummary(w io.Writer, issues []*models.Issue) {
	high, medium, low := countBySeverity(issues)
	fmt.Fprintln(w, summaryColor.Sprintf("Summary: %d HIGH, %d MEDIUM, %d LOW", high, medium, low))
}

// buildCompactOutput writes one line per issue in the file:line:col format IDEs understand
func buildCompactOutput(issues []*models.Issue) string {
	var sb strings.Builder
	sb.Grow(len(issues) * 120)
	for _, issue := range issues {
		sb.WriteString(fmt.Sprintf(
			"%s:%d:%d: %s [%s] %s - %s\n",
			issue.File, issue.Line, issue.Column,
			getSeverityIcon(issue.Severity), issue.Type.GetRuleID(), issue.Message, issue.Suggestion,
		))
	}
	return sb.String()
}

// buildGroupedOutput groups sorted issues under a header per file
func buildGroupedOutput(issues []*models.Issue) string {
	var sb strings.Builder
	sb.Grow(len(issues) * 160)

	for i, issue := range issues {
		if i == 0 || issues[i-1].File != issue.File {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fileColor.Sprint(issue.File))
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat("─", 50) + "\n")
		}

		sb.WriteString("\t")
		sb.WriteString(getSeverityIcon(issue.Severity))
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(issue.Line))
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(issue.Column))
		sb.WriteString(" ")
		sb.WriteString(ruleColor.Sprintf("[%s]", issue.Type.GetRuleID()))
		sb.WriteString(" ")
		sb.WriteString(issue.Message)
		sb.WriteString("\n")
		if issue.Suggestion != "" {
			sb.WriteString("\t\t")
			sb.WriteString(renameColor.Sprint(issue.Suggestion))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func getSeverityIcon(severity models.SeverityLevel) string {
	switch severity {
	case models.SeverityLevelHigh:
		return "🔴"
	case models.SeverityLevelMedium:
		return "🟡"
	case models.SeverityLevelLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func outputRenameTable(w io.Writer, table abbrev.RenameTable, asJSON bool) error {
	rules := table.Rules()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(rules), "failed to encode JSON")
	}

	width := 0
	for _, rule := range rules {
		width = max(width, len(rule.From))
	}
	for _, rule := range rules {
		fmt.Fprintf(w, "%-*s -> %s\n", width, rule.From, renameColor.Sprint(rule.To))
	}
	if !table.Idempotent() {
		fmt.Fprintln(w, ruleColor.Sprint("warning: some replacements contain a key of the table, results depend on rule order"))
	}
	return nil
}

func outputChecks(w io.Writer, results []checkResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "failed to encode JSON")
	}

	for _, result := range results {
		fmt.Fprintf(w, "%s (%s): ", result.Identifier, result.Context)
		if !result.Changed {
			fmt.Fprintln(w, "no change")
			continue
		}
		fmt.Fprint(w, renameColor.Sprint(result.Action))
		if len(result.Spans) > 0 {
			texts := make([]string, len(result.Spans))
			for i, span := range result.Spans {
				texts[i] = ruleColor.Sprintf("%s@%d", span.Text, span.Start)
			}
			fmt.Fprintf(w, " [%s]", strings.Join(texts, ", "))
		}
		if result.Analyzed != "" {
			fmt.Fprintf(w, " (table: %s)", result.Analyzed)
		}
		fmt.Fprintln(w)
	}
	return nil
}
