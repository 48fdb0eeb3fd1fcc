package analyzer

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/SergeiSkv/AbbrFix/models"
)

func inspectSource(t *testing.T, settings Settings, src string) []*models.Issue {
	t.Helper()
	fset, file := parseFile(t, src)
	pkg, err := CheckFiles(fset, []*ast.File{file})
	require.NoError(t, err)

	strategy, err := settings.Build()
	require.NoError(t, err)

	in := NewInspector(strategy, zaptest.NewLogger(t))
	return in.Inspect(fset, pkg.Files, pkg.Types, pkg.Info)
}

func renames(issues []*models.Issue) map[string]string {
	out := make(map[string]string, len(issues))
	for _, issue := range issues {
		out[issue.Identifier] = issue.NewName
	}
	return out
}

func findIssue(t *testing.T, issues []*models.Issue, identifier string) *models.Issue {
	t.Helper()
	for _, issue := range issues {
		if issue.Identifier == identifier {
			return issue
		}
	}
	require.Failf(t, "issue not found", "no issue for %s", identifier)
	return nil
}

func TestInspectReportsDeclarations(t *testing.T) {
	src := `package sample

type HTTPServer struct {
	URLPath string
	port    int
}

func (s *HTTPServer) GetURL() string {
	return s.URLPath
}

func NewHTTPServer(baseURL string) *HTTPServer {
	JSONData := baseURL
	return &HTTPServer{URLPath: JSONData}
}

type IDReader interface {
	ReadID() string
}
`
	issues := inspectSource(t, Settings{}, src)

	require.Equal(t, map[string]string{
		"HTTPServer":    "HttpServer",
		"URLPath":       "UrlPath",
		"GetURL":        "GetUrl",
		"NewHTTPServer": "NewHttpServer",
		"baseURL":       "baseUrl",
		"JSONData":      "jsonData",
		"ReadID":        "ReadId",
	}, renames(issues))

	// Source order.
	require.Equal(t, "HTTPServer", issues[0].Identifier)
	require.Equal(t, "URLPath", issues[1].Identifier)

	server := findIssue(t, issues, "HTTPServer")
	assert.Equal(t, models.IssueAbbreviation, server.Type)
	assert.Equal(t, models.SeverityLevelMedium, server.Severity)
	assert.Equal(t, "Rename to HttpServer", server.Suggestion)
	assert.Equal(t, "Other", server.Context)
	assert.Equal(t, 3, server.Line)
	assert.Equal(t, 6, server.Column)
	assert.True(t, server.CanBeFixed)
	assert.Len(t, server.ID, 16)
	assert.Len(t, server.Edits, 4)
	for _, edit := range server.Edits {
		assert.Equal(t, "test.go", edit.File)
		assert.Equal(t, len("HTTPServer"), edit.Length)
		assert.Equal(t, "HttpServer", edit.NewText)
	}

	path := findIssue(t, issues, "URLPath")
	assert.Equal(t, "Field(Public)", path.Context)
	assert.Len(t, path.Edits, 3)

	assert.Equal(t, "Parameter", findIssue(t, issues, "baseURL").Context)
	assert.Equal(t, "LocalVariable", findIssue(t, issues, "JSONData").Context)
}

func TestInspectEditOffsets(t *testing.T) {
	src := "package sample\n\nvar HTTPPort = 80\n\nfunc port() int { return HTTPPort }\n"
	issues := inspectSource(t, Settings{}, src)
	require.Len(t, issues, 1)

	edits := issues[0].Edits
	require.Len(t, edits, 2)
	for _, edit := range edits {
		require.Equal(t, "HTTPPort", src[edit.Offset:edit.End()])
		require.Equal(t, "HttpPort", edit.NewText)
	}
}

func TestInspectSkipList(t *testing.T) {
	src := `package sample

func ReadID() string { return "" }

func GetURL() string { return "" }
`
	issues := inspectSource(t, Settings{AbbreviationsToSkip: []string{"ID"}}, src)
	require.Equal(t, map[string]string{"GetURL": "GetUrl"}, renames(issues))
}

func TestInspectResolvesCollisions(t *testing.T) {
	src := `package sample

type Link struct {
	Url string
}

func (l Link) URL() string {
	return l.Url
}

func Apply(FUNC func()) {
	FUNC()
}

func Lookup() int {
	url := 1
	URL := 2
	return url + URL
}

func Decode() string {
	JSONBody := "a"
	jsonBODY := "b"
	return JSONBody + jsonBODY
}
`
	issues := inspectSource(t, Settings{}, src)

	require.Equal(t, map[string]string{
		"URL":      "url1",
		"FUNC":     "func1",
		"JSONBody": "jsonBody",
		"jsonBODY": "jsonBody1",
	}, withoutMethod(issues))

	for _, issue := range issues {
		if issue.Identifier == "URL" && issue.Context == "Other" {
			require.Equal(t, "Url1", issue.NewName)
		}
	}
}

// withoutMethod drops the Link.URL method so the local URL can be keyed by name.
func withoutMethod(issues []*models.Issue) map[string]string {
	out := make(map[string]string, len(issues))
	for _, issue := range issues {
		if issue.Context == "Other" {
			continue
		}
		out[issue.Identifier] = issue.NewName
	}
	return out
}

func TestInspectRespectsDirectives(t *testing.T) {
	src := `package sample

// abbr:ignore
var APIKey = "secret"

var DBName = "main" // abbr:ignore-line LiteralRename

var TTLSeconds = 30 // abbr:ignore-line Abbreviation
`
	issues := inspectSource(t, Settings{}, src)
	require.Equal(t, map[string]string{"DBName": "DbName"}, renames(issues))
}

func TestInspectSkipsGeneratedFiles(t *testing.T) {
	src := `// Code generated by stringer; DO NOT EDIT.

package sample

var HTTPPort = 80
`
	require.Empty(t, inspectSource(t, Settings{}, src))
}

func TestInspectTableStrategy(t *testing.T) {
	src := `package sample

var WMID = 1

var HTTPPort = 80
`
	issues := inspectSource(t, Settings{Strategy: "table"}, src)
	require.Len(t, issues, 1)
	require.Equal(t, "WMId", issues[0].NewName)
	require.Equal(t, models.IssueLiteralRename, issues[0].Type)
	require.Contains(t, issues[0].Message, "rename table")
}

func TestInspectEmbeddedFieldFollowsType(t *testing.T) {
	src := `package sample

type HTTPClient struct{}

func (HTTPClient) Do() {}

type Service struct {
	HTTPClient
}

func run(s Service) {
	s.HTTPClient.Do()
}
`
	issues := inspectSource(t, Settings{}, src)
	client := findIssue(t, issues, "HTTPClient")
	require.Equal(t, "HttpClient", client.NewName)

	// Declaration, receiver, embedded field and selector.
	require.Len(t, client.Edits, 4)
}

func TestSettingsBuild(t *testing.T) {
	_, err := Settings{Strategy: "regex"}.Build()
	require.Error(t, err)

	_, err = Settings{RenameTable: nil}.Build()
	require.NoError(t, err)

	_, err = New(Settings{Strategy: "bogus"})
	require.Error(t, err)
}

func TestInspectKeepsInterfaceContracts(t *testing.T) {
	src := `package sample

import (
	"encoding/json"
	"image/color"
	"net/http"
	"net/url"
)

type Payload struct{}

func (Payload) MarshalJSON() ([]byte, error) { return json.Marshal(nil) }

type Handler struct{}

func (Handler) ServeHTTP(http.ResponseWriter, *http.Request) {}

type Pixel struct{}

func (Pixel) RGBA() (r, g, b, a uint32) { return 0, 0, 0, 0 }

func (Pixel) GetURL() string { return "" }

var _ color.Color = Pixel{}

type uriHolder interface {
	RequestURI() string
}

func target(u *url.URL) uriHolder { return u }

type URLSource interface {
	GetURL() string
}

var _ URLSource = Pixel{}
`
	issues := inspectSource(t, Settings{}, src)

	// Interfaces declared in the package are renamed on both sides.
	require.Equal(t, map[string]string{
		"GetURL":    "GetUrl",
		"URLSource": "UrlSource",
	}, renames(issues))

	getters := 0
	for _, issue := range issues {
		if issue.Identifier == "GetURL" {
			getters++
		}
	}
	require.Equal(t, 2, getters)
}
