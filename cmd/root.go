package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/SergeiSkv/AbbrFix/abbrev"
	"github.com/SergeiSkv/AbbrFix/analyzer"
	"github.com/SergeiSkv/AbbrFix/fixer"
	"github.com/SergeiSkv/AbbrFix/models"
	"github.com/SergeiSkv/AbbrFix/version"
)

var (
	jsonOutput   bool
	configPath   string
	compact      bool
	verbose      bool
	applyFix     bool
	withTests    bool
	strategyName string
	logLevel     string
	logger       = zap.NewNop()

	checkKind   string
	checkAccess string
)

var errIssuesFound = errors.New("abbreviation issues found")

var rootCmd = &cobra.Command{
	Use:   "abbrfix [packages]",
	Short: "AbbrFix - consistent abbreviation casing for Go identifiers",
	Long: `AbbrFix finds identifiers that spell abbreviations in capitals (HTTPServer, URLPath,
JSONData) and renames them to Http, Url and Json style casing. Parameters and local
variables become camelCase; exported names stay exported.

With --fix every rename is applied to the declaration and all of its uses in the package.`,
	Example: `
  abbrfix                              # Check ./...
  abbrfix ./internal/...               # Check specific packages
  abbrfix --fix ./...                  # Apply all renames
  abbrfix --json ./... > report.json   # JSON output for CI/CD
  abbrfix check HTTPServer             # Try one identifier`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadEffectiveConfig()
		if err != nil {
			return err
		}

		remaining, err := runLint(cmd.Context(), cmd.OutOrStdout(), args, config)
		if err != nil {
			return err
		}
		if remaining > 0 {
			return errIssuesFound
		}
		return nil
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Creates a .abbrfix.yaml configuration file with default settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return createDefaultConfig(cmd.OutOrStdout(), defaultConfigFile)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("AbbrFix version %s\n", version.Version))
		sb.WriteString(fmt.Sprintf("Commit: %s\n", version.CommitHash))
		sb.WriteString(fmt.Sprintf("Built: %s\n", version.BuiltAt))
		fmt.Fprint(cmd.OutOrStdout(), sb.String())
	},
}

var renameTableCmd = &cobra.Command{
	Use:   "rename-table",
	Short: "Print the effective literal rename table",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadEffectiveConfig()
		if err != nil {
			return err
		}
		table, err := effectiveTable(config)
		if err != nil {
			return err
		}
		return outputRenameTable(cmd.OutOrStdout(), table, jsonOutput)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <identifier>...",
	Short: "Show the proposed rename for identifiers",
	Long: `Runs detection and rewriting on the given identifiers without loading any code.
Use --context and --access to describe the declaration.`,
	Example: `  abbrfix check HTTPServer
  abbrfix check --context parameter WMID
  abbrfix check --context field --access private URLPath`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadEffectiveConfig()
		if err != nil {
			return err
		}
		declCtx, err := parseDeclarationContext(checkKind, checkAccess)
		if err != nil {
			return err
		}
		strategy, err := config.Build()
		if err != nil {
			return err
		}
		return outputChecks(cmd.OutOrStdout(), checkIdentifiers(strategy, config.Settings, declCtx, args), jsonOutput)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&strategyName, "strategy", "", "Correction strategy: span or table (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.Flags().BoolVar(&compact, "compact", false, "Compact IDE-friendly output")
	rootCmd.Flags().BoolVar(&applyFix, "fix", false, "Apply the proposed renames")
	rootCmd.Flags().BoolVar(&withTests, "tests", true, "Include test files")

	checkCmd.Flags().StringVar(&checkKind, "context", "other", "Declaration kind: other, interface, parameter, field, localvariable")
	checkCmd.Flags().StringVar(&checkAccess, "access", "notapplicable", "Field accessibility: notapplicable, private, protected, internal, public")

	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(renameTableCmd)
	rootCmd.AddCommand(checkCmd)

	cobra.OnInitialize(initLogger)
}

func initLogger() {
	l, err := newLogger(logLevel, jsonOutput, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger = l
	zap.ReplaceGlobals(logger)
}

func newLogger(level string, jsonFormat, verbose bool) (*zap.Logger, error) {
	zapLevel := zapcore.InfoLevel
	if err := zapLevel.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	if verbose {
		zapLevel = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.DisableCaller = !verbose
	config.DisableStacktrace = !verbose
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if !jsonFormat {
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.EncoderConfig.TimeKey = ""
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return config.Build()
}

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		_ = logger.Sync()
		return nil
	}
	if !errors.Is(err, errIssuesFound) {
		fields := []zap.Field{zap.Error(err)}
		if hints := errors.FlattenHints(err); hints != "" {
			fields = append(fields, zap.String("hint", hints))
		}
		logger.Error("abbrfix failed", fields...)
	}
	_ = logger.Sync()
	stop()
	os.Exit(1)
	return nil
}

// loadEffectiveConfig loads the config file and applies command-line overrides
func loadEffectiveConfig() (*Config, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if strategyName != "" {
		config.Strategy = strategyName
		if _, err := config.Build(); err != nil {
			return nil, err
		}
	}
	if jsonOutput {
		config.Output.Format = formatJSON
	}
	return config, nil
}

// runLint reports (and with --fix applies) the renames for patterns and returns the number
// of issues left unfixed.
func runLint(ctx context.Context, out io.Writer, patterns []string, config *Config) (int, error) {
	issues, err := analyzeTarget(ctx, "", patterns, config)
	if err != nil {
		return 0, err
	}

	fixed := 0
	if applyFix {
		plan := fixer.NewPlan(issues)
		if err := plan.Write(ctx, logger); err != nil {
			return 0, err
		}
		logger.Info("fixes applied",
			zap.Int("fixed", len(plan.Fixed)),
			zap.Int("duplicates", len(plan.Duplicates)),
			zap.Int("conflicts", len(plan.Conflicts)),
			zap.Int("files", len(plan.Edits)),
		)
		fixed = len(plan.Fixed)
		issues = remainingIssues(issues, plan.Fixed, plan.Duplicates)
	}

	reported := limitIssues(issues, config.Output.MaxIssues)
	target := strings.Join(patterns, " ")
	if target == "" {
		target = "./..."
	}
	if config.Output.Format == formatJSON {
		if err := outputJSON(out, target, reported, fixed); err != nil {
			return 0, err
		}
	} else {
		outputHuman(out, reported, fixed, compact)
	}
	return len(issues), nil
}

// analyzeTarget loads the packages matching patterns under dir and inspects them in
// parallel. Renames carry edits for the loaded packages that import the renamed symbol.
// Issues come back sorted by position.
func analyzeTarget(ctx context.Context, dir string, patterns []string, config *Config) ([]*models.Issue, error) {
	strategy, err := config.Build()
	if err != nil {
		return nil, err
	}

	pkgs, err := analyzer.LoadPackages(ctx, dir, withTests, patterns...)
	if err != nil {
		return nil, err
	}

	importers := analyzer.IndexImporters(pkgs)

	var (
		mu        sync.Mutex
		allIssues = make([]*models.Issue, 0, 64)
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			logger.Warn("package has errors", zap.String("package", pkg.Path), zap.Error(pkgErr))
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in := analyzer.NewInspector(strategy, logger)
			in.Importers = importers
			issues := in.Inspect(pkg.Fset, pkg.Files, pkg.Types, pkg.Info)

			mu.Lock()
			allIssues = append(allIssues, issues...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allIssues = filterExcluded(allIssues, config.Paths.Exclude)
	sortIssues(allIssues)
	logger.Debug("analysis complete", zap.Int("packages", len(pkgs)), zap.Int("issues", len(allIssues)))
	return allIssues, nil
}

func effectiveTable(config *Config) (abbrev.RenameTable, error) {
	if len(config.RenameTable) == 0 {
		return abbrev.DefaultRenameTable(), nil
	}
	return abbrev.NewRenameTable(config.RenameTable)
}

func parseDeclarationContext(kind, access string) (abbrev.DeclarationContext, error) {
	k, ok := abbrev.ParseDeclarationKind(kind)
	if !ok {
		return abbrev.Other, errors.WithHint(
			errors.Newf("unknown declaration context %q", kind),
			"use other, interface, parameter, field or localvariable",
		)
	}
	a, ok := abbrev.ParseAccessibility(access)
	if !ok {
		return abbrev.Other, errors.WithHint(
			errors.Newf("unknown accessibility %q", access),
			"use notapplicable, private, protected, internal or public",
		)
	}
	if k != abbrev.KindField {
		a = abbrev.AccessNotApplicable
	}
	return abbrev.DeclarationContext{Kind: k, Access: a}, nil
}

// checkResult is the outcome of running the strategy on one identifier
type checkResult struct {
	Identifier string        `json:"identifier"`
	Context    string        `json:"context"`
	Spans      []abbrev.Span `json:"spans"`
	// Analyzed is set when the rename table rewrote the identifier before span detection;
	// Spans then index into it.
	Analyzed string `json:"analyzed,omitempty"`
	Changed  bool   `json:"changed"`
	NewName  string `json:"new_name,omitempty"`
	Action   string `json:"action,omitempty"`
}

func checkIdentifiers(
	strategy abbrev.Strategy, settings analyzer.Settings, declCtx abbrev.DeclarationContext, identifiers []string,
) []checkResult {
	rules := abbrev.NewRuleSet(settings.AbbreviationsToSkip...)
	results := make([]checkResult, 0, len(identifiers))
	for _, identifier := range identifiers {
		result := checkResult{
			Identifier: identifier,
			Context:    declCtx.String(),
			Spans:      abbrev.Detect(identifier, declCtx, rules),
		}
		if proposal, ok := strategy.Propose(identifier, declCtx); ok {
			result.Changed = true
			result.NewName = proposal.NewName
			result.Action = proposal.Label()
			result.Spans = proposal.Spans
			if proposal.Analyzed != identifier {
				result.Analyzed = proposal.Analyzed
			}
		}
		results = append(results, result)
	}
	return results
}

const defaultConfigFile = ".abbrfix.yaml"

func createDefaultConfig(out io.Writer, path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.WithHint(
			errors.Newf("config file already exists: %s", path),
			"edit it or remove it first",
		)
	}

	config := DefaultConfig()
	config.RenameTable = abbrev.DefaultRenameTable().Rules()

	yamlData, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	const configFileMode = 0o644
	if err := os.WriteFile(path, yamlData, configFileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}

	fmt.Fprintf(out, "Created default configuration file: %s\n", path)
	fmt.Fprintln(out, "\tEdit this file to customize abbreviations to skip and the rename table")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Example usage:")
	fmt.Fprintf(out, "  abbrfix --config=%s ./...\n", path)
	return nil
}
