// Package plugin registers abbrfix as a golangci-lint module plugin.
package plugin

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	"github.com/SergeiSkv/AbbrFix/analyzer"
)

func init() {
	register.Plugin(analyzer.Name, New)
}

// Plugin builds the abbrfix analyzer from golangci-lint settings.
type Plugin struct {
	settings analyzer.Settings
}

var _ register.LinterPlugin = (*Plugin)(nil)

// New decodes the linter settings block of .golangci.yml.
func New(settings any) (register.LinterPlugin, error) {
	s, err := register.DecodeSettings[analyzer.Settings](settings)
	if err != nil {
		return nil, err
	}
	return &Plugin{settings: s}, nil
}

func (p *Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	a, err := analyzer.New(p.settings)
	if err != nil {
		return nil, err
	}
	return []*analysis.Analyzer{a}, nil
}

func (p *Plugin) GetLoadMode() string {
	return register.LoadModeTypesInfo
}
