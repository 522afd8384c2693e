package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/hylla/gengantt/internal/adapters/export/xlsx"
	"github.com/hylla/gengantt/internal/adapters/server"
	"github.com/hylla/gengantt/internal/adapters/server/common"
	"github.com/hylla/gengantt/internal/app"
	"github.com/hylla/gengantt/internal/config"
	"github.com/hylla/gengantt/internal/domain"
	"github.com/hylla/gengantt/internal/timeline"
	"github.com/hylla/gengantt/internal/tui"
	"github.com/spf13/cobra"
)

// formatXLSX selects the workbook export; json and yaml go through app.EncodeSnapshot.
const formatXLSX = "xlsx"

// filterFlags are the task filters shared by chart and list.
type filterFlags struct {
	search   string
	category string
	assignee string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive title search")
	cmd.Flags().StringVar(&f.category, "category", "", "only tasks in this category")
	cmd.Flags().StringVar(&f.assignee, "assignee", "", "only tasks for this assignee")
}

func (f filterFlags) filter() app.Filter {
	return app.Filter{
		Search:   f.search,
		Category: f.category,
		Assignee: f.assignee,
	}
}

func newPathsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rp, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", opts.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", rp.configPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", rp.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", rp.dbPath)
			_, _ = fmt.Fprintf(out, "export_dir: %s\n", rp.ExportDir)
			return nil
		},
	}
}

func newChartCommand(opts *rootOptions) *cobra.Command {
	var (
		filters  filterFlags
		width    int
		dayWidth int
		plain    bool
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Print the Gantt chart without starting the interactive planner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), opts, "chart", func(ctx context.Context, s *session) error {
				cfg := chartConfig(s.cfg.Chart)
				if dayWidth > 0 {
					cfg.DayWidth = max(2, dayWidth)
				}
				chart, err := s.svc.Chart(ctx, filters.filter(), timeline.CellScale(cfg.DayWidth))
				if err != nil {
					return fmt.Errorf("build chart: %w", err)
				}
				out := tui.RenderChart(chart, tui.RenderOptions{
					SidebarWidth: cfg.SidebarWidth,
					Width:        width,
					Selected:     -1,
					ShowWeekends: cfg.ShowWeekends,
					ShowToday:    cfg.ShowToday,
					Plain:        plain,
				})
				_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
				return err
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().IntVar(&width, "width", 0, "total output width in columns (0 prints the whole timeline)")
	cmd.Flags().IntVar(&dayWidth, "day-width", 0, "columns per day (0 uses chart.day_width)")
	cmd.Flags().BoolVar(&plain, "plain", false, "disable colors")
	return cmd
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), opts, "list", func(ctx context.Context, s *session) error {
				tasks, err := s.svc.FilteredTasks(ctx, filters.filter())
				if err != nil {
					return fmt.Errorf("list tasks: %w", err)
				}
				if len(tasks) == 0 {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), renderTaskTable(tasks))
				return err
			})
		},
	}
	filters.register(cmd)
	return cmd
}

// renderTaskTable lays tasks out one per row.
func renderTaskTable(tasks []domain.Task) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("ID", "Title", "Start", "End", "Days", "Progress", "Category", "Assignee").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, task := range tasks {
		t.Row(
			task.ID,
			task.Title,
			task.StartDate.String(),
			task.EndDate.String(),
			strconv.Itoa(task.DurationDays()),
			fmt.Sprintf("%d%%", task.Progress),
			task.Category,
			task.EffectiveAssignee(),
		)
	}
	return t.String()
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	var (
		httpBind    string
		apiEndpoint string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and MCP tools over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), opts, "serve", func(ctx context.Context, s *session) error {
				cfg := server.Config{
					HTTPBind:      firstNonEmpty(httpBind, s.cfg.Server.HTTPBind),
					APIEndpoint:   firstNonEmpty(apiEndpoint, s.cfg.Server.APIEndpoint),
					MCPEndpoint:   firstNonEmpty(mcpEndpoint, s.cfg.Server.MCPEndpoint),
					ServerName:    opts.appName,
					ServerVersion: version,
				}
				s.logger.Info("serving", "http", cfg.HTTPBind, "api", cfg.APIEndpoint, "mcp", cfg.MCPEndpoint)
				return serveRunner(ctx, cfg, server.Dependencies{
					Tasks:  common.NewAppServiceAdapter(s.svc, s.logger),
					Logger: s.logger,
				})
			})
		},
	}
	cmd.Flags().StringVar(&httpBind, "http", "", "HTTP listen address (default server.http_bind)")
	cmd.Flags().StringVar(&apiEndpoint, "api-endpoint", "", "REST API base path (default server.api_endpoint)")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp-endpoint", "", "MCP endpoint path (default server.mcp_endpoint)")
	return cmd
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		outPath string
		format  string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as a JSON/YAML snapshot or an XLSX Gantt workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), opts, "export", func(ctx context.Context, s *session) error {
				return runExport(ctx, s, outPath, format, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file ('-' for stdout; default stdout, or the export dir for xlsx)")
	cmd.Flags().StringVar(&format, "format", "", "json, yaml or xlsx (default from --out extension, else json)")
	return cmd
}

func runExport(ctx context.Context, s *session, outPath, format string, stdout io.Writer) error {
	outPath = strings.TrimSpace(outPath)
	format = exportFormat(format, outPath)
	if format == formatXLSX && outPath == "" {
		outPath = filepath.Join(s.paths.ExportDir, fmt.Sprintf("gengantt-%s.xlsx", s.svc.Today()))
	}

	var buf bytes.Buffer
	switch format {
	case formatXLSX:
		chart, err := s.svc.Chart(ctx, app.Filter{}, timeline.PixelScale())
		if err != nil {
			return fmt.Errorf("build chart: %w", err)
		}
		if err := xlsx.Write(&buf, chart); err != nil {
			return err
		}
	default:
		snapFormat, err := app.ParseSnapshotFormat(format)
		if err != nil {
			return err
		}
		snap, err := s.svc.ExportSnapshot(ctx)
		if err != nil {
			return fmt.Errorf("export snapshot: %w", err)
		}
		if err := app.EncodeSnapshot(&buf, snap, snapFormat); err != nil {
			return err
		}
	}

	if outPath == "" || outPath == "-" {
		if _, err := stdout.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("write export to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	s.logger.Info("export written", "path", outPath, "format", format)
	return nil
}

// exportFormat prefers an explicit format, then the output extension.
func exportFormat(format, outPath string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != "" {
		return format
	}
	if strings.EqualFold(filepath.Ext(outPath), ".xlsx") {
		return formatXLSX
	}
	if outPath == "" || outPath == "-" {
		return string(app.FormatJSON)
	}
	return string(app.SnapshotFormatForPath(outPath))
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	var (
		inPath string
		format string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the task list with a JSON or YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return errors.New("--in is required")
			}
			return withSession(cmd.Context(), opts, "import", func(ctx context.Context, s *session) error {
				return runImport(ctx, s, inPath, format, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "snapshot file to import")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from --in extension)")
	return cmd
}

func runImport(ctx context.Context, s *session, inPath, format string, stdout io.Writer) error {
	snapFormat := app.SnapshotFormatForPath(inPath)
	if strings.TrimSpace(format) != "" {
		parsed, err := app.ParseSnapshotFormat(format)
		if err != nil {
			return err
		}
		snapFormat = parsed
	}
	f, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open import file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	snap, err := app.DecodeSnapshot(f, snapFormat)
	if err != nil {
		return err
	}
	tasks, err := s.svc.ImportSnapshot(ctx, snap)
	if err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	if s.cfg.Storage.Backend != config.StorageSQLite {
		s.logger.Warn("imported into the in-memory backend; tasks are dropped on exit", "count", len(tasks))
	}
	_, err = fmt.Fprintf(stdout, "imported %d tasks\n", len(tasks))
	return err
}

// withSession opens storage, seeds when the command reads the list, and logs the command lifecycle.
func withSession(ctx context.Context, opts *rootOptions, command string, fn func(context.Context, *session) error) error {
	s, err := opts.open(command)
	if err != nil {
		return err
	}
	defer s.Close()
	if command != "import" {
		if err := s.seed(ctx); err != nil {
			return err
		}
	}

	s.logger.Info("command flow start", "command", command)
	if err := fn(ctx, s); err != nil {
		s.logger.Error("command flow failed", "command", command, "err", err)
		return fmt.Errorf("run %s command: %w", command, err)
	}
	s.logger.Info("command flow complete", "command", command)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
