package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"go.uber.org/zap/zapcore"
)

const demoSource = `package demo

type HTTPServer struct {
	addr string
}

func NewHTTPServer(addr string) *HTTPServer {
	return &HTTPServer{addr: addr}
}
`

func writeDemoModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "go.mod", "module example.com/demo\n\ngo 1.22\n")
	writeFixture(t, dir, "demo.go", demoSource)
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())
	return dir
}

func TestRunLintReports(t *testing.T) {
	writeDemoModule(t)
	color.NoColor = true

	var buf bytes.Buffer
	remaining, err := runLint(context.Background(), &buf, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 issues, got %d:\n%s", remaining, buf.String())
	}
	for _, want := range []string{"Rename to HttpServer", "Rename to NewHttpServer"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRunLintFix(t *testing.T) {
	dir := writeDemoModule(t)
	applyFix = true
	t.Cleanup(func() { applyFix = false })

	var buf bytes.Buffer
	remaining, err := runLint(context.Background(), &buf, []string{"./..."}, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected every issue to be fixed, %d left:\n%s", remaining, buf.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "demo.go"))
	if err != nil {
		t.Fatalf("failed to read fixed file: %v", err)
	}
	want := strings.NewReplacer("HTTPServer", "HttpServer").Replace(demoSource)
	if string(data) != want {
		t.Fatalf("unexpected fixed source:\n%s", data)
	}
	if !strings.Contains(buf.String(), "Renamed 2 identifiers") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestRunLintCountsTestVariantOnce(t *testing.T) {
	dir := writeDemoModule(t)
	writeFixture(t, dir, "demo_test.go", `package demo

import "testing"

func TestServer(t *testing.T) {
	if NewHTTPServer("x") == nil {
		t.Fatal("nil server")
	}
}
`)
	withTests = true
	t.Cleanup(func() { withTests = true })

	var buf bytes.Buffer
	remaining, err := runLint(context.Background(), &buf, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 2 {
		t.Fatalf("expected 2 issues with test files loaded, got %d:\n%s", remaining, buf.String())
	}
}

func TestRunLintFixRewritesImporters(t *testing.T) {
	dir := writeDemoModule(t)
	if err := os.MkdirAll(filepath.Join(dir, "q"), 0o755); err != nil {
		t.Fatalf("failed to create package dir: %v", err)
	}
	const importer = `package q

import "example.com/demo"

func Start() *demo.HTTPServer {
	return demo.NewHTTPServer(":80")
}
`
	writeFixture(t, dir, filepath.Join("q", "q.go"), importer)
	applyFix = true
	t.Cleanup(func() { applyFix = false })

	var buf bytes.Buffer
	remaining, err := runLint(context.Background(), &buf, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected every issue to be fixed, %d left:\n%s", remaining, buf.String())
	}

	replacer := strings.NewReplacer("HTTPServer", "HttpServer")
	for name, want := range map[string]string{
		"demo.go":                 replacer.Replace(demoSource),
		filepath.Join("q", "q.go"): replacer.Replace(importer),
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("failed to read %s: %v", name, err)
		}
		if string(data) != want {
			t.Fatalf("unexpected source for %s:\n%s", name, data)
		}
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, defaultConfigFile)

	var buf bytes.Buffer
	if err := createDefaultConfig(&buf, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("generated config should load: %v", err)
	}
	if len(cfg.RenameTable) == 0 || cfg.Strategy != "span" {
		t.Fatalf("generated config should carry the default table: %+v", cfg.Settings)
	}

	if err := createDefaultConfig(&buf, path); err == nil {
		t.Fatalf("expected an error when the config already exists")
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger("warn", false, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug should be disabled at warn level")
	}

	logger, err = newLogger("bogus", true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("verbose should enable debug")
	}
}
