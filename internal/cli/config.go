package cli

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/hlstatsx/heatmaps/pkg/density"
	"github.com/hlstatsx/heatmaps/pkg/errors"
	"github.com/hlstatsx/heatmaps/pkg/pipeline"
	"github.com/hlstatsx/heatmaps/pkg/store"
)

// Config holds the settings that do not come from positional arguments.
// Values are read from an optional TOML file and overridden by flags.
//
//	game = "insurgency"
//	mode = "kill"
//	src_dir = "./src"
//	lookback = "2160h"
//	stamp_radius = 4
//	table_prefix = "hlstats"
type Config struct {
	Game        string        `toml:"game"`
	Mode        string        `toml:"mode"`
	SrcDir      string        `toml:"src_dir"`
	Lookback    time.Duration `toml:"lookback"`
	StampRadius int           `toml:"stamp_radius"`
	TablePrefix string        `toml:"table_prefix"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Game:        pipeline.DefaultGame,
		Mode:        pipeline.DefaultMode,
		SrcDir:      pipeline.DefaultSrcDir,
		Lookback:    pipeline.DefaultLookback,
		StampRadius: density.DefaultRadius,
		TablePrefix: store.DefaultTablePrefix,
	}
}

// LoadConfig reads path over the defaults. Keys missing from the file keep
// their default; unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks the values that end up in file paths and SQL.
func (c Config) Validate() error {
	if err := errors.ValidatePathComponent("game", c.Game); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid game")
	}
	if err := errors.ValidatePathComponent("mode", c.Mode); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid mode")
	}
	if err := errors.ValidateDir("source directory", c.SrcDir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid source directory")
	}
	if c.Lookback <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "lookback must be positive, got %s", c.Lookback)
	}
	if c.StampRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "stamp_radius must be positive, got %d", c.StampRadius)
	}
	return nil
}

// =============================================================================
// Flags
// =============================================================================

type generateFlags struct {
	config   string
	game     string
	mode     string
	srcDir   string
	lookback time.Duration
	radius   int
	verbose  bool
}

func (f *generateFlags) register(cmd *cobra.Command) {
	def := DefaultConfig()
	cmd.Flags().StringVar(&f.config, "config", "", "TOML config file")
	cmd.Flags().StringVar(&f.game, "game", def.Game, "hlstats game code to render")
	cmd.Flags().StringVar(&f.mode, "mode", def.Mode, "output file suffix")
	cmd.Flags().StringVar(&f.srcDir, "src", def.SrcDir, "directory of base images, one subdirectory per game")
	cmd.Flags().DurationVar(&f.lookback, "lookback", def.Lookback, "event window")
	cmd.Flags().IntVar(&f.radius, "stamp-radius", def.StampRadius, "density kernel radius in pixels")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable verbose logging")
}

// resolve merges defaults, the config file and explicitly set flags.
func (f *generateFlags) resolve(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = LoadConfig(f.config); err != nil {
			return cfg, err
		}
	}

	set := cmd.Flags().Changed
	if set("game") {
		cfg.Game = f.game
	}
	if set("mode") {
		cfg.Mode = f.mode
	}
	if set("src") {
		cfg.SrcDir = f.srcDir
	}
	if set("lookback") {
		cfg.Lookback = f.lookback
	}
	if set("stamp-radius") {
		cfg.StampRadius = f.radius
	}

	return cfg, cfg.Validate()
}
