// Package config loads the economy tuning file for the Maker Bazaar engine.
package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Tuning holds the tunable economy constants. Rule tables that define the
// game itself (price limits, demand mapping, dice bands) live in code.
type Tuning struct {
	StartingFunds        int `yaml:"starting_funds"`
	StartingPrestige     int `yaml:"starting_prestige"`
	ActionPointsPerRound int `yaml:"action_points_per_round"`

	ResellerFundsCap    int `yaml:"reseller_funds_cap"`
	ResellerPauseRounds int `yaml:"reseller_pause_rounds"`

	// WinnerPrize is the wallet credit granted to the match winner.
	WinnerPrize int64 `yaml:"winner_prize"`

	AI AITuning `yaml:"ai"`
}

// AITuning paces the AI stand-in players driven by the match handler.
type AITuning struct {
	Enabled          bool `yaml:"enabled"`
	MinDelaySec      int  `yaml:"min_delay_sec"`
	MaxDelaySec      int  `yaml:"max_delay_sec"`
	AutoFillDelaySec int  `yaml:"auto_fill_delay_sec"`
}

// Default returns the tuning used when no file is present.
func Default() Tuning {
	return Tuning{
		StartingFunds:        30,
		StartingPrestige:     5,
		ActionPointsPerRound: 3,
		ResellerFundsCap:     20,
		ResellerPauseRounds:  3,
		WinnerPrize:          100,
		AI: AITuning{
			Enabled:          true,
			MinDelaySec:      1,
			MaxDelaySec:      3,
			AutoFillDelaySec: 5,
		},
	}
}

var (
	loaded   Tuning
	loadOnce sync.Once
	loadErr  error
)

// Load reads the tuning file once and merges it over the defaults.
// Missing file is not an error; the defaults apply.
func Load(path string) (Tuning, error) {
	loadOnce.Do(func() {
		loaded = Default()
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return
			}
			loadErr = fmt.Errorf("failed to read tuning: %w", err)
			return
		}
		if err := yaml.Unmarshal(raw, &loaded); err != nil {
			loadErr = fmt.Errorf("tuning.yaml: %w", err)
			return
		}
		loaded.fillZero()
	})
	return loaded, loadErr
}

// fillZero restores defaults for fields the file left unset.
func (t *Tuning) fillZero() {
	def := Default()
	if t.StartingFunds == 0 {
		t.StartingFunds = def.StartingFunds
	}
	if t.StartingPrestige == 0 {
		t.StartingPrestige = def.StartingPrestige
	}
	if t.ActionPointsPerRound == 0 {
		t.ActionPointsPerRound = def.ActionPointsPerRound
	}
	if t.ResellerFundsCap == 0 {
		t.ResellerFundsCap = def.ResellerFundsCap
	}
	if t.ResellerPauseRounds == 0 {
		t.ResellerPauseRounds = def.ResellerPauseRounds
	}
	if t.AI.MinDelaySec == 0 {
		t.AI.MinDelaySec = def.AI.MinDelaySec
	}
	if t.AI.MaxDelaySec == 0 {
		t.AI.MaxDelaySec = def.AI.MaxDelaySec
	}
	if t.AI.AutoFillDelaySec == 0 {
		t.AI.AutoFillDelaySec = def.AI.AutoFillDelaySec
	}
}
