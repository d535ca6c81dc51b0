package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/santty1906/finanzas-pro-plus/internal/core"
	"github.com/santty1906/finanzas-pro-plus/internal/metrics"
)

// Settings is the user-editable analysis configuration, stored as a JSON
// file next to the data. Monetary amounts are plain currency units here,
// not cents, so the file stays hand-editable.
type Settings struct {
	OpeningBalance   float64            `json:"opening_balance"`
	TargetSavingsPct float64            `json:"target_savings_pct"`
	BufferMonths     float64            `json:"buffer_months"`
	CategoryCapsPct  map[string]float64 `json:"category_caps_pct,omitempty"`
	GrowthAlertPct   float64            `json:"growth_alert_pct"`
	ChartTopN        int                `json:"chart_top_n"`
	MovingAvgWindow  int                `json:"moving_avg_window"`
}

// DefaultSettings mirrors metrics.Defaults plus the chart tuning knobs.
func DefaultSettings() Settings {
	d := metrics.Defaults()
	return Settings{
		TargetSavingsPct: d.TargetSavingsPct,
		BufferMonths:     d.BufferMonths,
		GrowthAlertPct:   d.GrowthAlertPct,
		ChartTopN:        6,
		MovingAvgWindow:  7,
	}
}

// LoadSettings reads the settings file. A missing file is created with the
// defaults so users have something to edit.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s := DefaultSettings()
		if werr := SaveSettings(path, s); werr != nil {
			return Settings{}, fmt.Errorf("write default settings: %w", werr)
		}
		return s, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}

	s := DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// SaveSettings writes the settings file, creating parent directories.
func SaveSettings(path string, s Settings) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func (s Settings) validate() error {
	if s.TargetSavingsPct < 0 || s.TargetSavingsPct > 100 {
		return fmt.Errorf("target_savings_pct %.1f out of range [0,100]", s.TargetSavingsPct)
	}
	if s.BufferMonths < 0 {
		return fmt.Errorf("buffer_months %.1f cannot be negative", s.BufferMonths)
	}
	if s.GrowthAlertPct < 0 {
		return fmt.Errorf("growth_alert_pct %.1f cannot be negative", s.GrowthAlertPct)
	}
	for cat, pct := range s.CategoryCapsPct {
		if pct <= 0 || pct > 100 {
			return fmt.Errorf("category cap for %q is %.1f, must be in (0,100]", cat, pct)
		}
	}
	if s.ChartTopN < 1 {
		return fmt.Errorf("chart_top_n %d must be at least 1", s.ChartTopN)
	}
	if s.MovingAvgWindow < 1 {
		return fmt.Errorf("moving_avg_window %d must be at least 1", s.MovingAvgWindow)
	}
	return nil
}

// Metrics converts the file representation into engine settings.
func (s Settings) Metrics() metrics.Settings {
	return metrics.Settings{
		OpeningBalance:   core.Money{Cents: int64(math.Round(s.OpeningBalance * 100))},
		TargetSavingsPct: s.TargetSavingsPct,
		BufferMonths:     s.BufferMonths,
		CategoryCapsPct:  s.CategoryCapsPct,
		GrowthAlertPct:   s.GrowthAlertPct,
	}
}
