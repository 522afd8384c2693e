package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/google/uuid"
	"github.com/hylla/gengantt/internal/adapters/server"
	"github.com/hylla/gengantt/internal/adapters/storage/memory"
	"github.com/hylla/gengantt/internal/adapters/storage/sqlite"
	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/config"
	"github.com/hylla/gengantt/internal/platform"
	"github.com/hylla/gengantt/internal/tui"
	"github.com/spf13/cobra"
)

var version = "dev"

// program is the part of tea.Program the CLI depends on.
type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveRunner starts the HTTP + MCP server and blocks until ctx ends.
var serveRunner = func(ctx context.Context, cfg server.Config, deps server.Dependencies) error {
	return server.Run(ctx, cfg, deps)
}

func main() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fang.Execute(ctx, newRootCommand(os.Stdout, os.Stderr), fang.WithVersion(version))
}

// run executes one command line without fang's styled error output.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	dbPath     string
	backend    string
	appName    string
	devMode    bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	opts := &rootOptions{
		stdout:  stdout,
		stderr:  stderr,
		appName: platform.DefaultAppName,
		devMode: version == "dev",
	}
	if envDev, ok := parseBoolEnv("GENGANTT_DEV_MODE"); ok {
		opts.devMode = envDev
	}
	if envApp := strings.TrimSpace(os.Getenv("GENGANTT_APP_NAME")); envApp != "" {
		opts.appName = envApp
	}

	root := &cobra.Command{
		Use:           "gengantt",
		Short:         "Plan tasks on an interactive terminal Gantt chart",
		Long:          "gengantt keeps a list of dated tasks and draws them as a Gantt chart.\nWithout a subcommand it opens the interactive planner.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database (selects the sqlite backend)")
	flags.StringVar(&opts.backend, "backend", "", "storage backend override: memory or sqlite")
	flags.StringVar(&opts.appName, "app", opts.appName, "application name for config/data path resolution")
	flags.BoolVar(&opts.devMode, "dev", opts.devMode, "use dev mode paths (<app>-dev)")

	root.AddCommand(
		newPathsCommand(opts),
		newChartCommand(opts),
		newListCommand(opts),
		newServeCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
	)
	return root
}

// resolvedPaths are the platform paths after flag and env overrides.
type resolvedPaths struct {
	platform.Paths
	configPath   string
	dbPath       string
	dbOverridden bool
}

func (o *rootOptions) resolvePaths() (resolvedPaths, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
	if err != nil {
		return resolvedPaths{}, err
	}
	rp := resolvedPaths{
		Paths:      paths,
		configPath: strings.TrimSpace(o.configPath),
		dbPath:     strings.TrimSpace(o.dbPath),
	}
	if rp.configPath == "" {
		rp.configPath = paths.ConfigPath
		if envPath := strings.TrimSpace(os.Getenv("GENGANTT_CONFIG")); envPath != "" {
			rp.configPath = envPath
		}
	}
	rp.dbOverridden = rp.dbPath != ""
	if !rp.dbOverridden {
		rp.dbPath = paths.DBPath
		if envPath := strings.TrimSpace(os.Getenv("GENGANTT_DB_PATH")); envPath != "" {
			rp.dbPath = envPath
			rp.dbOverridden = true
		}
	}
	return rp, nil
}

// loadConfig reads the config file and applies --db and --backend on top of it.
func (o *rootOptions) loadConfig(rp resolvedPaths) (config.Config, error) {
	cfg, err := config.Load(rp.configPath, config.Default(rp.dbPath))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config %q: %w", rp.configPath, err)
	}
	if rp.dbOverridden {
		cfg.Storage.Path = rp.dbPath
		cfg.Storage.Backend = config.StorageSQLite
	}
	if backend := strings.TrimSpace(o.backend); backend != "" {
		cfg.Storage.Backend = config.StorageBackend(strings.ToLower(backend))
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// session is one opened store plus the logger and service built on it.
type session struct {
	cfg       config.Config
	paths     resolvedPaths
	logger    *runtimeLogger
	svc       *app.Service
	stderr    io.Writer
	closeRepo func() error
}

// open resolves configuration and storage for command. The TUI mutes console logging.
func (o *rootOptions) open(command string) (*session, error) {
	rp, err := o.resolvePaths()
	if err != nil {
		return nil, err
	}
	cfg, err := o.loadConfig(rp)
	if err != nil {
		return nil, err
	}
	logger, err := newRuntimeLogger(o.stderr, o.appName, o.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if command == "tui" {
		logger.SetConsoleEnabled(false)
	}

	logger.Info("startup configuration resolved", "app", o.appName, "dev_mode", o.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", rp.configPath, "data_dir", rp.DataDir, "db_path", rp.dbPath)
	logger.Info("configuration loaded", "config_path", rp.configPath, "backend", cfg.Storage.Backend, "log_level", cfg.Logging.Level)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	repo, closeRepo, err := openRepository(cfg.Storage, logger)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	svc := app.NewService(repo, uuid.NewString, nil, app.ServiceConfig{
		DefaultCategory:     cfg.Tasks.DefaultCategory,
		DefaultDurationDays: cfg.Tasks.DefaultDurationDays,
		SuggestedCategories: cfg.Tasks.SuggestedCategories,
		SeedSample:          cfg.Tasks.SeedSample,
	})
	logger.Debug("application service initialized", "seed_sample", cfg.Tasks.SeedSample, "default_category", cfg.Tasks.DefaultCategory)

	return &session{
		cfg:       cfg,
		paths:     rp,
		logger:    logger,
		svc:       svc,
		stderr:    o.stderr,
		closeRepo: closeRepo,
	}, nil
}

// openRepository opens the configured backend. The returned close func is never nil.
func openRepository(cfg config.StorageConfig, logger *runtimeLogger) (app.Repository, func() error, error) {
	switch cfg.Backend {
	case config.StorageSQLite:
		logger.Info("opening sqlite repository", "db_path", cfg.Path)
		repo, err := sqlite.Open(cfg.Path)
		if err != nil {
			logger.Error("sqlite open failed", "db_path", cfg.Path, "err", err)
			return nil, nil, fmt.Errorf("open sqlite repository: %w", err)
		}
		logger.Info("sqlite repository ready", "db_path", cfg.Path, "migrations", "ensured")
		return repo, repo.Close, nil
	default:
		logger.Info("using in-memory repository")
		return memory.New(), func() error { return nil }, nil
	}
}

// seed inserts the sample tasks into an empty store when enabled.
func (s *session) seed(ctx context.Context) error {
	seeded, err := s.svc.EnsureSampleTasks(ctx)
	if err != nil {
		s.logger.Error("sample seeding failed", "err", err)
		return fmt.Errorf("seed sample tasks: %w", err)
	}
	if len(seeded) > 0 {
		s.logger.Info("sample tasks seeded", "count", len(seeded))
	}
	return nil
}

func (s *session) Close() {
	if err := s.closeRepo(); err != nil {
		s.logger.Warn("repository close failed", "backend", s.cfg.Storage.Backend, "err", err)
	}
	if err := s.logger.Close(); err != nil && s.logger.ConsoleEnabled() {
		_, _ = fmt.Fprintf(s.stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// chartConfig maps persisted chart settings onto the renderer's.
func chartConfig(cfg config.ChartConfig) tui.ChartConfig {
	out := tui.ChartConfig{
		DayWidth:     cfg.DayWidth,
		SidebarWidth: cfg.SidebarWidth,
		ShowWeekends: cfg.ShowWeekends,
		ShowToday:    cfg.ShowToday,
	}
	defaults := tui.DefaultChartConfig()
	if out.DayWidth < 2 {
		out.DayWidth = defaults.DayWidth
	}
	if out.SidebarWidth <= 0 {
		out.SidebarWidth = defaults.SidebarWidth
	}
	return out
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	s, err := opts.open("tui")
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.seed(ctx); err != nil {
		return err
	}

	m := tui.NewModel(
		s.svc,
		tui.WithChartConfig(chartConfig(s.cfg.Chart)),
		tui.WithConfirmDelete(s.cfg.Confirm.Delete),
	)
	s.logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		s.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	s.logger.Info("command flow complete", "command", "tui")
	return nil
}

// parseBoolEnv reads a boolean env var; ok is false when unset or malformed.
func parseBoolEnv(name string) (value bool, ok bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
