package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/pedigraph/pedigraph/pkg/layout"
	"github.com/pedigraph/pedigraph/pkg/pipeline"
)

// defaultConfigFile is picked up from the working directory when no
// --config flag is given.
const defaultConfigFile = "pedigraph.toml"

// fileConfig is the shape of pedigraph.toml:
//
//	[spacing]
//	base_spacing     = 100
//	spouse_spacing   = 80
//	vertical_spacing = 120
//	min_spacing      = 50
//	expansion_factor = 1.5
//
//	[transition]
//	movement_threshold = 5
//
// Every key is optional; unset keys keep their built-in defaults.
type fileConfig struct {
	Spacing    layout.Config    `toml:"spacing"`
	Transition transitionConfig `toml:"transition"`
}

type transitionConfig struct {
	// MovementThreshold is the minimum distance a surviving person
	// must move before the transition reports it as a move.
	MovementThreshold float64 `toml:"movement_threshold"`
}

// loadConfig reads the config file at path. An empty path means the
// default file, which may be absent; an explicit path must exist.
// Unknown keys are logged as warnings rather than rejected, so a
// config written for a newer version still loads.
func loadConfig(path string, logger *log.Logger) (*fileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil, nil
		}
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		logger.Warn("ignoring unknown config keys", "file", path, "keys", strings.Join(keys, ", "))
	}

	logger.Debug("loaded config", "file", path)
	return &cfg, nil
}

// applyConfig fills unset layout options from the config file.
// Explicit flags win over the file; the file wins over built-ins,
// which pipeline.Options applies to anything still zero.
func (c *CLI) applyConfig(opts *pipeline.Options) {
	if c.config == nil {
		return
	}

	if opts.BaseSpacing == 0 {
		opts.BaseSpacing = c.config.Spacing.BaseSpacing
	}
	if opts.SpouseSpacing == 0 {
		opts.SpouseSpacing = c.config.Spacing.SpouseSpacing
	}
	if opts.VerticalSpacing == 0 {
		opts.VerticalSpacing = c.config.Spacing.VerticalSpacing
	}
	if opts.MinSpacing == 0 {
		opts.MinSpacing = c.config.Spacing.MinSpacing
	}
	if opts.ExpansionFactor == 0 {
		opts.ExpansionFactor = c.config.Spacing.ExpansionFactor
	}
	if opts.MovementThreshold == 0 {
		opts.MovementThreshold = c.config.Transition.MovementThreshold
	}
}
