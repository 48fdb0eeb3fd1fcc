// Package fixer applies the rename edits carried by issues to files on disk.
package fixer

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"sort"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SergeiSkv/AbbrFix/models"
)

// Plan is the set of edits selected from a batch of issues. An issue is applied with all of
// its edits or not at all.
type Plan struct {
	// Edits per file, ascending by offset and non-overlapping.
	Edits map[string][]models.TextEdit
	// Fixed are the issues whose edits were all selected.
	Fixed []*models.Issue
	// Conflicts are issues dropped because an edit overlapped one selected earlier.
	Conflicts []*models.Issue
	// Duplicates are issues whose edits were all selected already.
	Duplicates []*models.Issue
}

// NewPlan selects edits from issues in position order; the first issue wins a conflict.
func NewPlan(issues []*models.Issue) *Plan {
	ordered := make([]*models.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue != nil && issue.CanBeFixed && len(issue.Edits) > 0 {
			ordered = append(ordered, issue)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	plan := &Plan{Edits: make(map[string][]models.TextEdit)}
	for _, issue := range ordered {
		plan.add(issue)
	}
	for file, edits := range plan.Edits {
		sort.Slice(edits, func(i, j int) bool { return edits[i].Offset < edits[j].Offset })
		plan.Edits[file] = edits
	}
	return plan
}

func (p *Plan) add(issue *models.Issue) {
	fresh := make([]models.TextEdit, 0, len(issue.Edits))
	for _, edit := range issue.Edits {
		switch p.check(edit) {
		case editConflict:
			p.Conflicts = append(p.Conflicts, issue)
			return
		case editNew:
			if !containsEdit(fresh, edit) {
				fresh = append(fresh, edit)
			}
		}
	}
	if len(fresh) == 0 {
		p.Duplicates = append(p.Duplicates, issue)
		return
	}
	for i, a := range fresh {
		for _, b := range fresh[i+1:] {
			if a.File == b.File && overlaps(a, b) {
				p.Conflicts = append(p.Conflicts, issue)
				return
			}
		}
	}
	for _, edit := range fresh {
		p.Edits[edit.File] = append(p.Edits[edit.File], edit)
	}
	p.Fixed = append(p.Fixed, issue)
}

type editStatus uint8

const (
	editNew editStatus = iota
	editDuplicate
	editConflict
)

func (p *Plan) check(edit models.TextEdit) editStatus {
	for _, selected := range p.Edits[edit.File] {
		if selected == edit {
			return editDuplicate
		}
		if overlaps(selected, edit) {
			return editConflict
		}
	}
	return editNew
}

func containsEdit(edits []models.TextEdit, edit models.TextEdit) bool {
	for _, e := range edits {
		if e == edit {
			return true
		}
	}
	return false
}

// overlaps treats two insertions at the same offset as overlapping.
func overlaps(a, b models.TextEdit) bool {
	if a.Offset == b.Offset {
		return true
	}
	return a.Offset < b.End() && b.Offset < a.End()
}

// Files returns the files the plan touches, sorted.
func (p *Plan) Files() []string {
	files := make([]string, 0, len(p.Edits))
	for file := range p.Edits {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Write applies the plan, one goroutine per file. A file is rewritten only when all of its
// edits apply; the first error is returned.
func (p *Plan) Write(ctx context.Context, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, file := range p.Files() {
		edits := p.Edits[file]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := rewriteFile(file, edits); err != nil {
				return err
			}
			logger.Debug("file rewritten", zap.String("file", file), zap.Int("edits", len(edits)))
			return nil
		})
	}
	return g.Wait()
}

func rewriteFile(path string, edits []models.TextEdit) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	out, err := ApplyEdits(src, edits)
	if err != nil {
		return errors.Wrapf(err, "apply edits to %s", path)
	}
	if bytes.Equal(src, out) {
		return nil
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// ApplyEdits returns src with edits applied. Edits must be sorted by offset and must not
// overlap.
func ApplyEdits(src []byte, edits []models.TextEdit) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(src))

	last := 0
	for _, edit := range edits {
		if edit.Offset < last || edit.Length < 0 || edit.End() > len(src) {
			return nil, errors.Newf("edit [%d,%d) out of order or out of range (size %d)",
				edit.Offset, edit.End(), len(src))
		}
		out.Write(src[last:edit.Offset])
		out.WriteString(edit.NewText)
		last = edit.End()
	}
	out.Write(src[last:])
	return out.Bytes(), nil
}
