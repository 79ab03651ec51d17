package config

import "flag"

var (
	flags = flag.NewFlagSet("ivygen", flag.ContinueOnError)

	flagConfig  = flags.String("config", "", "Path to config file (.yaml, .yml or .toml)")
	flagDebug   = flags.Bool("debug", false, "Enable debug logging")
	flagSurface = flags.String("surface", "", "Surface OBJ file (overrides the built-in shape)")
	flagOut     = flags.String("out", "", "Output directory")
	flagName    = flags.String("name", "", "Output base name")
	flagSteps   = flags.Int("steps", 0, "Maximum growth steps")
	flagRngSeed = flags.Uint64("rng-seed", 0, "Random seed (0 keeps the configured seed)")
)

// ParseFlags parses command-line flags. Call this early in the command.
func ParseFlags(args []string) error {
	return flags.Parse(args)
}

// Args returns the arguments left after flag parsing.
func Args() []string {
	return flags.Args()
}

// PrintDefaults writes the flag usage to the flag set's output.
func PrintDefaults() {
	flags.PrintDefaults()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSurface != "" {
		cfg.Surface.Path = *flagSurface
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagName != "" {
		cfg.Output.Name = *flagName
	}
	if *flagSteps > 0 {
		cfg.Run.MaxSteps = *flagSteps
	}
	if *flagRngSeed != 0 {
		cfg.Run.RandomSeed = *flagRngSeed
	}
}
