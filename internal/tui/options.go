package tui

import "github.com/atotto/clipboard"

// ChartConfig controls how the terminal chart is laid out.
type ChartConfig struct {
	DayWidth     int
	SidebarWidth int
	ShowWeekends bool
	ShowToday    bool
}

type Option func(*Model)

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		DayWidth:     4,
		SidebarWidth: 36,
		ShowWeekends: true,
		ShowToday:    true,
	}
}

func WithChartConfig(cfg ChartConfig) Option {
	return func(m *Model) {
		if cfg.DayWidth < 2 {
			cfg.DayWidth = 2
		}
		if cfg.SidebarWidth <= 0 {
			cfg.SidebarWidth = DefaultChartConfig().SidebarWidth
		}
		m.chartCfg = cfg
	}
}

// WithConfirmDelete toggles the delete confirmation modal.
func WithConfirmDelete(enabled bool) Option {
	return func(m *Model) {
		m.confirmDelete = enabled
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
