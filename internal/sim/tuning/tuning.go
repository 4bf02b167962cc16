package tuning

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"termsnake/internal/sim/engine"
)

type Tuning struct {
	TickMS int `yaml:"tick_ms"`

	// Zero means ask on stdin.
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
	// Empty means right on wide boards, down on tall ones.
	Heading string `yaml:"heading"`
	// Zero means derive a seed from the clock.
	Seed uint64 `yaml:"seed"`

	DataDir      string `yaml:"data_dir"`
	ObserverAddr string `yaml:"observer_addr"`
	DisableDB    bool   `yaml:"disable_db"`
	IndexTicks   bool   `yaml:"index_ticks"`
}

func Defaults() Tuning {
	return Tuning{
		TickMS:  100,
		DataDir: "./data",
	}
}

// Load reads a tuning file over the defaults. An empty path yields the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	if strings.TrimSpace(path) == "" {
		t.Normalize()
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t *Tuning) Normalize() {
	t.Heading = strings.ToLower(strings.TrimSpace(t.Heading))
	t.DataDir = strings.TrimSpace(t.DataDir)
	t.ObserverAddr = strings.TrimSpace(t.ObserverAddr)
	if t.TickMS == 0 {
		t.TickMS = Defaults().TickMS
	}
	if t.DataDir == "" {
		t.DataDir = Defaults().DataDir
	}
}

func (t Tuning) Validate() error {
	if t.TickMS <= 0 {
		return fmt.Errorf("tick_ms must be > 0 (got %d)", t.TickMS)
	}
	if t.Height < 0 || t.Width < 0 {
		return fmt.Errorf("height/width must be >= 0 (got %dx%d)", t.Height, t.Width)
	}
	if (t.Height == 0) != (t.Width == 0) {
		return fmt.Errorf("height and width must be set together (got %dx%d)", t.Height, t.Width)
	}
	if t.Heading != "" {
		if _, err := engine.ParseDirection(t.Heading); err != nil {
			return fmt.Errorf("heading: %w", err)
		}
	}
	return nil
}

// SizeKnown reports whether the board size comes from configuration.
func (t Tuning) SizeKnown() bool { return t.Height > 0 && t.Width > 0 }

// EngineHeading resolves the configured heading for a board of the given size.
func (t Tuning) EngineHeading(height, width int) engine.Direction {
	if d, err := engine.ParseDirection(t.Heading); err == nil && t.Heading != "" {
		return d
	}
	return engine.DefaultHeading(height, width)
}
