package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/commitscore/schema"
)

// Default values for configuration.
const (
	DefaultLimit         = 8.0
	DefaultCommits       = 10
	MaxCommits           = 1000
	DefaultRemoteTimeout = 10 * time.Second
	DefaultPylint        = "pylint"
	DefaultGolint        = "golint"
	DefaultPylintrc      = ".pylintrc"
	DefaultLedgerName    = "commitscore.score"
	DefaultAuditName     = "commitscore.log"
)

// Config holds the runtime configuration for one invocation.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string
	Limit    float64
	Policy   schema.PolicyMode
	Excludes []string

	PylintCommand  string
	PylintParams   []string
	PylintrcPath   string
	GolintCommand  string
	SuppressReport bool
	LinterTimeout  time.Duration

	LedgerFile    string
	LedgerDefault float64
	AuditFile     string

	RemoteURL     string
	RemoteTimeout time.Duration

	BaseRef   string // empty = staged changes
	TargetRef string

	Output     schema.OutputMode
	OutputFile string
	Commits    int

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	UseColors bool
	Verbose   bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Limit          float64 `mapstructure:"limit"`
	Policy         string  `mapstructure:"policy"`
	Exclude        string  `mapstructure:"exclude"`
	Pylint         string  `mapstructure:"pylint"`
	PylintParams   string  `mapstructure:"pylint-params"`
	Pylintrc       string  `mapstructure:"pylintrc"`
	Golint         string  `mapstructure:"golint"`
	SuppressReport bool    `mapstructure:"suppress-report"`
	LinterTimeout  string  `mapstructure:"linter-timeout"`
	LedgerFile     string  `mapstructure:"ledger-file"`
	LedgerDefault  float64 `mapstructure:"ledger-default"`
	AuditFile      string  `mapstructure:"audit-file"`
	RemoteURL      string  `mapstructure:"remote-url"`
	RemoteTimeout  string  `mapstructure:"remote-timeout"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`
	CacheBackend   string  `mapstructure:"cache-backend"`
	CacheDBConnect string  `mapstructure:"cache-db-connect"`
	Color          string  `mapstructure:"color"`
	Verbose        bool    `mapstructure:"verbose"`

	// --- Fields from runCmd.Flags() ---
	BaseRef   string `mapstructure:"base-ref"`
	TargetRef string `mapstructure:"target-ref"`

	// --- Fields from historyCmd.Flags() ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Commits    int    `mapstructure:"commits"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Excludes != nil {
		clone.Excludes = append([]string(nil), c.Excludes...)
	}
	if c.PylintParams != nil {
		clone.PylintParams = append([]string(nil), c.PylintParams...)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processRefs(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPath(ctx, cfg, client, input); err != nil {
		return err
	}
	if err := processLinterSettings(cfg, input); err != nil {
		return err
	}
	return processLedgerPaths(ctx, cfg, client, input)
}

// ValidateLimit checks that a limit lies on the linter rating scale.
func ValidateLimit(limit float64) error {
	if limit < 0 || limit > schema.MaxScore {
		return fmt.Errorf("limit must be between 0 and %.0f (received %.2f)", schema.MaxScore, limit)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.SuppressReport = input.SuppressReport
	cfg.LedgerDefault = input.LedgerDefault
	cfg.RemoteURL = strings.TrimSpace(input.RemoteURL)
	cfg.OutputFile = input.OutputFile
	cfg.Verbose = input.Verbose

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Limit Validation ---
	if err := ValidateLimit(input.Limit); err != nil {
		return err
	}
	cfg.Limit = input.Limit

	// --- 2. Policy Validation ---
	cfg.Policy = schema.PolicyMode(strings.ToLower(input.Policy))
	if _, ok := schema.ValidPolicyModes[cfg.Policy]; !ok {
		return fmt.Errorf("invalid policy '%s'. must be limit, regression", input.Policy)
	}

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	// --- 4. Commits Validation ---
	if input.Commits <= 0 || input.Commits > MaxCommits {
		return fmt.Errorf("commits must be greater than 0 and cannot exceed %d (received %d)", MaxCommits, input.Commits)
	}
	cfg.Commits = input.Commits

	// --- 5. Backend Validation ---
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("store-db-connect: %w", err)
	}

	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- 6. Excludes Processing ---
	cfg.Excludes = nil
	if input.Exclude != "" {
		for p := range strings.SplitSeq(input.Exclude, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	return nil
}

// processDurations parses the timeout settings.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.RemoteTimeout = DefaultRemoteTimeout
	if input.RemoteTimeout != "" {
		d, err := time.ParseDuration(input.RemoteTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid remote-timeout '%s'. Expected a positive duration such as 10s", input.RemoteTimeout)
		}
		cfg.RemoteTimeout = d
	}

	cfg.LinterTimeout = 0
	if input.LinterTimeout != "" && input.LinterTimeout != "0" {
		d, err := time.ParseDuration(input.LinterTimeout)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid linter-timeout '%s'. Expected a duration such as 2m, or 0 for none", input.LinterTimeout)
		}
		cfg.LinterTimeout = d
	}
	return nil
}

// processRefs handles the post-commit and range revisions.
func processRefs(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseRef = strings.TrimSpace(input.BaseRef)
	cfg.TargetRef = strings.TrimSpace(input.TargetRef)

	if cfg.BaseRef == "" && cfg.TargetRef == "" {
		return nil
	}
	if cfg.BaseRef == "" {
		return fmt.Errorf("must specify --base-ref together with --target-ref")
	}
	if cfg.TargetRef == "" {
		cfg.TargetRef = "HEAD"
	}
	return nil
}

// resolveGitPath resolves the Git repository root from the user-provided path.
func resolveGitPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	gitContextPath := absSearchPath
	if info, statErr := os.Stat(absSearchPath); statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}

// processLinterSettings applies linter commands, params and any .pylintrc overrides.
func processLinterSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.PylintCommand = strings.TrimSpace(input.Pylint)
	if cfg.PylintCommand == "" {
		cfg.PylintCommand = DefaultPylint
	}
	cfg.GolintCommand = strings.TrimSpace(input.Golint)
	if cfg.GolintCommand == "" {
		cfg.GolintCommand = DefaultGolint
	}
	cfg.PylintParams = strings.Fields(input.PylintParams)

	rcPath := input.Pylintrc
	if rcPath == "" {
		rcPath = DefaultPylintrc
	}
	if !filepath.IsAbs(rcPath) {
		rcPath = filepath.Join(cfg.RepoPath, rcPath)
	}
	cfg.PylintrcPath = rcPath

	overrides, err := LoadPylintrcOverrides(rcPath)
	if err != nil {
		return err
	}
	if overrides == nil {
		return nil
	}
	if overrides.Command != "" {
		cfg.PylintCommand = overrides.Command
	}
	cfg.PylintParams = append(cfg.PylintParams, strings.Fields(overrides.Params)...)
	if overrides.Limit != nil {
		if err := ValidateLimit(*overrides.Limit); err != nil {
			return fmt.Errorf("%s [pre-commit-hook]: %w", rcPath, err)
		}
		cfg.Limit = *overrides.Limit
	}
	if !hasRcfileParam(cfg.PylintParams) {
		cfg.PylintParams = append(cfg.PylintParams, "--rcfile="+rcPath)
	}
	return nil
}

// hasRcfileParam reports whether the user already chose a pylint rcfile.
func hasRcfileParam(params []string) bool {
	for _, p := range params {
		if strings.HasPrefix(p, "--rcfile") {
			return true
		}
	}
	return false
}

// processLedgerPaths places the ledger and audit log in the git directory
// unless configured. Linked worktrees and submodules have a .git file rather
// than a directory, so git is asked where the shared directory lives.
func processLedgerPaths(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	cfg.LedgerFile = input.LedgerFile
	cfg.AuditFile = input.AuditFile
	if cfg.LedgerFile != "" && cfg.AuditFile != "" {
		return nil
	}

	out, err := client.Run(ctx, cfg.RepoPath, "rev-parse", "--git-common-dir")
	if err != nil {
		return fmt.Errorf("cannot locate git directory: %w", err)
	}
	gitDir := strings.TrimSpace(string(out))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(cfg.RepoPath, gitDir)
	}

	if cfg.LedgerFile == "" {
		cfg.LedgerFile = filepath.Join(gitDir, DefaultLedgerName)
	}
	if cfg.AuditFile == "" {
		cfg.AuditFile = filepath.Join(gitDir, DefaultAuditName)
	}
	return nil
}
