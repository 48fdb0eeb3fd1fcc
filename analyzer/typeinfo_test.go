package analyzer

import (
	"context"
	"go/ast"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestLoadPackages(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod": "module example.com/demo\n\ngo 1.22\n",
		"demo.go": `package demo

type HTTPServer struct{}
`,
		"demo_test.go": `package demo

func helperURL() string { return "" }
`,
		"sub/sub.go": `package sub

func ReadJSON() {}
`,
	})

	tests := []struct {
		name      string
		withTests bool
		want      map[string]int
	}{
		{name: "without tests", withTests: false, want: map[string]int{"example.com/demo": 1, "example.com/demo/sub": 1}},
		{name: "with tests", withTests: true, want: map[string]int{"example.com/demo": 2, "example.com/demo/sub": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgs, err := LoadPackages(context.Background(), dir, tt.withTests)
			require.NoError(t, err)

			got := make(map[string]int, len(pkgs))
			for _, pkg := range pkgs {
				got[pkg.Path] += len(pkg.Files)
				assert.NotNil(t, pkg.Types)
				assert.NotNil(t, pkg.Info)
				assert.Empty(t, pkg.Errors)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadPackagesFeedsInspector(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod": "module example.com/demo\n\ngo 1.22\n",
		"demo.go": `package demo

type HTTPServer struct{}

func NewHTTPServer() *HTTPServer { return &HTTPServer{} }
`,
	})

	pkgs, err := LoadPackages(context.Background(), dir, false, "./...")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)

	strategy, err := Settings{}.Build()
	require.NoError(t, err)
	pkg := pkgs[0]
	issues := NewInspector(strategy, zap.NewNop()).Inspect(pkg.Fset, pkg.Files, pkg.Types, pkg.Info)

	assert.Equal(t, map[string]string{
		"HTTPServer":    "HttpServer",
		"NewHTTPServer": "NewHttpServer",
	}, renames(issues))
	assert.Len(t, findIssue(t, issues, "HTTPServer").Edits, 3)
}

func TestLoadPackagesCanceled(t *testing.T) {
	dir := writeModule(t, map[string]string{
		"go.mod":  "module example.com/demo\n\ngo 1.22\n",
		"demo.go": "package demo\n",
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadPackages(ctx, dir, false)
	assert.Error(t, err)
}

func TestCheckFilesReportsTypeErrors(t *testing.T) {
	fset, file := parseFile(t, `package test

func broken() int { return "nope" }
`)
	pkg, err := CheckFiles(fset, []*ast.File{file})
	require.Error(t, err)
	require.NotNil(t, pkg)
	assert.Len(t, pkg.Errors, 1)
	assert.Equal(t, "test", pkg.Path)

	_, err = CheckFiles(token.NewFileSet(), nil)
	assert.Error(t, err)
}
