package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagModel   = flag.String("model", "", "Model file (.glb or .gltf)")
	flagCatalog = flag.String("catalog", "", "Part catalog (TOML)")
	flagWatch   = flag.Bool("watch", false, "Reload the model when the file changes")
	flagAddr    = flag.String("addr", "", "Server listen address")
	flagWidth   = flag.Int("width", 0, "Window width")
	flagHeight  = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
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
	if *flagModel != "" {
		cfg.Model.Path = *flagModel
	}
	if arg := flag.Arg(0); arg != "" && *flagModel == "" {
		cfg.Model.Path = arg
	}
	if *flagCatalog != "" {
		cfg.Model.Catalog = *flagCatalog
	}
	if *flagWatch {
		cfg.Model.Watch = true
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
