package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer(t *testing.T) {
	a, err := New(Settings{AbbreviationsToSkip: []string{"ID"}})
	require.NoError(t, err)
	require.Equal(t, Name, a.Name)

	analysistest.RunWithSuggestedFixes(t, analysistest.TestData(), a, "a")
}

func TestAnalyzerCollisions(t *testing.T) {
	a, err := New(Settings{})
	require.NoError(t, err)

	analysistest.RunWithSuggestedFixes(t, analysistest.TestData(), a, "b")
}
