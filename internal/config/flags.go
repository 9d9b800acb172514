package config

import (
	"flag"
	"fmt"

	"github.com/taigrr/ip2k/pkg/render"
)

type flagValues struct {
	fs          *flag.FlagSet
	config      *string
	debug       *bool
	backend     *string
	width       *int
	height      *int
	fps         *int
	strategy    *string
	wireframe   *bool
	noLighting  *bool
	noCull      *bool
	background  *string
	triangulate *bool
	logFile     *string
	snapshot    *string
}

func bindFlags(fs *flag.FlagSet) *flagValues {
	return &flagValues{
		fs:          fs,
		config:      fs.String("config", "", "Path to config file"),
		debug:       fs.Bool("debug", false, "Enable debug logging"),
		backend:     fs.String("backend", "", "Display backend (terminal, window)"),
		width:       fs.Int("width", 0, "Window and snapshot width"),
		height:      fs.Int("height", 0, "Window and snapshot height"),
		fps:         fs.Int("fps", 0, "Target FPS"),
		strategy:    fs.String("strategy", "", "Texture mapping (perspective, affine)"),
		wireframe:   fs.Bool("wireframe", false, "Outline faces"),
		noLighting:  fs.Bool("no-lighting", false, "Disable headlight shading"),
		noCull:      fs.Bool("no-cull", false, "Disable bounds culling"),
		background:  fs.String("bg", "", "Background color (#rrggbb or r,g,b)"),
		triangulate: fs.Bool("triangulate", false, "Split OBJ polygons into triangles"),
		logFile:     fs.String("log", "", "Log file path"),
		snapshot:    fs.String("snapshot", "", "Render one frame to a .png or .webp file and exit"),
	}
}

var cli = bindFlags(flag.CommandLine)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return cli.configPath()
}

// SnapshotPath returns the -snapshot output path, empty for interactive runs.
func SnapshotPath() string {
	return *cli.snapshot
}

func (f *flagValues) configPath() string {
	return *f.config
}

// apply applies CLI flag overrides and positional model paths to the config.
func (f *flagValues) apply(cfg *Config) error {
	if *f.debug {
		cfg.Logging.Level = "debug"
	}
	if *f.backend != "" {
		cfg.Display.Backend = *f.backend
	}
	if *f.width > 0 {
		cfg.Display.Width = *f.width
	}
	if *f.height > 0 {
		cfg.Display.Height = *f.height
	}
	if *f.fps > 0 {
		cfg.Display.FPS = *f.fps
	}
	if *f.strategy != "" {
		if _, err := render.ParseStrategy(*f.strategy); err != nil {
			return err
		}
		cfg.Render.Strategy = *f.strategy
	}
	if *f.wireframe {
		cfg.Render.Wireframe = true
	}
	if *f.noLighting {
		cfg.Render.Lighting = false
	}
	if *f.noCull {
		cfg.Render.Cull = false
	}
	if *f.background != "" {
		if _, err := ParseColor(*f.background); err != nil {
			return fmt.Errorf("-bg: %w", err)
		}
		cfg.Display.Background = *f.background
	}
	if *f.logFile != "" {
		cfg.Logging.File = *f.logFile
	}

	if args := f.fs.Args(); len(args) > 0 {
		cfg.Models = cfg.Models[:0]
		for _, path := range args {
			cfg.Models = append(cfg.Models, NewModel(path))
		}
	}
	if *f.triangulate {
		for i := range cfg.Models {
			cfg.Models[i].Triangulate = true
		}
	}
	return nil
}
