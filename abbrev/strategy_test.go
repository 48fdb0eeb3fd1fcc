package abbrev

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	taken := map[string]bool{"WmId": true, "WmId1": true, "WmId2": true}
	isAvailable := func(name string) bool { return !taken[name] }

	require.Equal(t, "WmId3", Resolve("WmId", isAvailable))
	require.Equal(t, "Free", Resolve("Free", isAvailable))
	require.Equal(t, "Any", Resolve("Any", nil))
}

func TestResolveAlwaysReturnsAcceptedName(t *testing.T) {
	for limit := 0; limit < 25; limit++ {
		calls := 0
		isAvailable := func(string) bool {
			calls++
			return calls > limit
		}
		got := Resolve("name", isAvailable)
		if limit == 0 {
			require.Equal(t, "name", got)
			continue
		}
		require.Equal(t, "name"+strconv.Itoa(limit), got)
	}
}

func TestSpanStrategyExamples(t *testing.T) {
	strategy := SpanStrategy{Table: DefaultRenameTable()}

	proposal, ok := strategy.Propose("NAME", Other)
	require.True(t, ok)
	assert.Equal(t, "Name", proposal.NewName)
	assert.Equal(t, []Span{{Start: 0, Length: 4, Text: "NAME"}}, proposal.Spans)
	assert.Equal(t, "Rename to Name", proposal.Label())

	proposal, ok = strategy.Propose("WMID", Parameter())
	require.True(t, ok)
	assert.Equal(t, "wmId", proposal.NewName)

	_, ok = strategy.Propose("wmId", Parameter())
	assert.False(t, ok)
}

func TestProposalAbbreviations(t *testing.T) {
	strategy := SpanStrategy{Table: DefaultRenameTable()}

	proposal, ok := strategy.Propose("HTTPServer", Other)
	require.True(t, ok)
	assert.Equal(t, "HTTPServer", proposal.Analyzed)
	assert.Equal(t, []Span{{Start: 0, Length: 5, Text: "HTTPS"}}, proposal.Spans)
	assert.Equal(t, []string{"HTTP"}, proposal.Abbreviations())
}

func TestProposalSpansIndexAnalyzedName(t *testing.T) {
	table, err := NewRenameTable([]RenameRule{{From: "DoTheHTTP", To: "HTTP"}})
	require.NoError(t, err)
	strategy := SpanStrategy{Table: table}

	proposal, ok := strategy.Propose("DoTheHTTPServer", Other)
	require.True(t, ok)
	assert.Equal(t, "HttpServer", proposal.NewName)
	assert.Equal(t, "HTTPServer", proposal.Analyzed)
	for _, span := range proposal.Spans {
		assert.Equal(t, span.Text, proposal.Analyzed[span.Start:span.End()])
	}
	assert.Equal(t, []string{"HTTP"}, proposal.Abbreviations())
}

func TestSpanStrategyWithoutTable(t *testing.T) {
	strategy := SpanStrategy{Rules: NewRuleSet("HTTP")}

	_, ok := strategy.Propose("HTTPClient", Other)
	require.False(t, ok)

	proposal, ok := strategy.Propose("WMID", Parameter())
	require.True(t, ok)
	require.Equal(t, "wmid", proposal.NewName)
}

func TestSpanStrategyOutputIsNotFlaggedAgain(t *testing.T) {
	strategy := SpanStrategy{Rules: NewRuleSet("ID"), Table: DefaultRenameTable()}
	identifiers := []string{
		"ClientCompanyWSID", "HOSTIPAddress", "BatchIDPK", "XMLHTTPRequest", "Name773DB33TFTname222DXS",
	}
	for _, identifier := range identifiers {
		proposal, ok := strategy.Propose(identifier, Other)
		require.True(t, ok, identifier)
		_, again := strategy.Propose(proposal.NewName, Other)
		require.False(t, again, "%s -> %s", identifier, proposal.NewName)
	}
}

func TestTableStrategy(t *testing.T) {
	strategy := TableStrategy{Table: DefaultRenameTable()}

	proposal, ok := strategy.Propose("ClientCompanyWSID", Other)
	require.True(t, ok)
	require.Equal(t, "ClientCompanyWSId", proposal.NewName)
	require.Equal(t, "Rename to ClientCompanyWSId", proposal.Label())

	_, ok = strategy.Propose("NAME", Parameter())
	require.False(t, ok)
}

func TestProposalWithCollisions(t *testing.T) {
	proposal := Proposal{Original: "URL", NewName: "Url"}
	got := proposal.WithCollisions(func(name string) bool { return name != "Url" })
	require.Equal(t, "Url1", got.NewName)
	require.Equal(t, "Url", proposal.NewName)
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy("", RuleSet{}, RenameTable{})
	require.NoError(t, err)
	require.Equal(t, StrategySpan, s.Name())

	s, err = NewStrategy(" Table ", RuleSet{}, RenameTable{})
	require.NoError(t, err)
	require.Equal(t, StrategyTable, s.Name())

	_, err = NewStrategy("regex", RuleSet{}, RenameTable{})
	require.Error(t, err)
}

func TestDeclarationContextParsing(t *testing.T) {
	kind, ok := ParseDeclarationKind("parameter")
	require.True(t, ok)
	require.Equal(t, KindParameter, kind)

	access, ok := ParseAccessibility("PRIVATE")
	require.True(t, ok)
	require.Equal(t, AccessPrivate, access)

	_, ok = ParseAccessibility("friend")
	require.False(t, ok)

	require.Equal(t, "Field(Private)", Field(AccessPrivate).String())
	require.True(t, Field(AccessNotApplicable).IsPrivateField())
	require.False(t, Field(AccessPublic).IsPrivateField())
}
