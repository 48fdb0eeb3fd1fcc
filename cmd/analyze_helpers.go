package cmd

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/SergeiSkv/AbbrFix/models"
)

// shouldSkipPath checks if a file should be skipped based on exclusion rules
func shouldSkipPath(path string, excludes []string) bool {
	cleanPath := filepath.ToSlash(filepath.Clean(path))

	for _, exclude := range excludes {
		if exclude == "" {
			continue
		}

		if strings.HasSuffix(exclude, ".go") && !strings.ContainsAny(exclude, "*?[") {
			// File suffix (e.g., "_test.go"); globs such as "*.pb.go" fall through to Match
			if strings.HasSuffix(cleanPath, exclude) {
				return true
			}
			continue
		}

		cleanExclude := filepath.ToSlash(filepath.Clean(exclude))
		for _, segment := range strings.Split(cleanPath, "/") {
			if segment == cleanExclude {
				return true
			}
		}
		if strings.Contains(cleanExclude, "/") && strings.Contains(cleanPath, "/"+cleanExclude+"/") {
			return true
		}
		if ok, _ := filepath.Match(exclude, filepath.Base(cleanPath)); ok {
			return true
		}
	}

	return false
}

// filterExcluded drops issues declared in excluded files
func filterExcluded(issues []*models.Issue, excludes []string) []*models.Issue {
	if len(excludes) == 0 {
		return issues
	}
	filtered := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		if !shouldSkipPath(issue.File, excludes) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// sortIssues orders issues by file, then position
func sortIssues(issues []*models.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// remainingIssues returns the issues not in done
func remainingIssues(issues []*models.Issue, done ...[]*models.Issue) []*models.Issue {
	skip := make(map[*models.Issue]struct{})
	for _, list := range done {
		for _, issue := range list {
			skip[issue] = struct{}{}
		}
	}
	remaining := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		if _, ok := skip[issue]; !ok {
			remaining = append(remaining, issue)
		}
	}
	return remaining
}

// limitIssues applies output.maxIssues; 0 means unlimited
func limitIssues(issues []*models.Issue, maxIssues int) []*models.Issue {
	if maxIssues <= 0 || len(issues) <= maxIssues {
		return issues
	}
	return issues[:maxIssues]
}

func countBySeverity(issues []*models.Issue) (high, medium, low int) {
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityLevelHigh:
			high++
		case models.SeverityLevelMedium:
			medium++
		case models.SeverityLevelLow:
			low++
		}
	}
	return
}
