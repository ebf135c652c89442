package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/framereel/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	LedgerNone   = ""
	LedgerJSON   = "json"
	LedgerSQLite = "sqlite"
)

// ErrHelp is returned when -h or --help was requested.
var ErrHelp = flag.ErrHelp

type Config struct {
	Images         string  `yaml:"images"`
	Prefix         string  `yaml:"prefix"`
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	FPS            float64 `yaml:"fps"`
	Ext            string  `yaml:"ext"`
	FramesPerVideo int     `yaml:"fpv"`
	Start          int     `yaml:"start"`
	End            int     `yaml:"end"`
	Workers        int     `yaml:"workers"`
	Pad            int     `yaml:"pad"`

	FFmpegPath string `yaml:"ffmpeg"`
	Ledger     string `yaml:"ledger"`
	DataDir    string `yaml:"data_dir"`
	Verbose    bool   `yaml:"verbose"`
	Strict     bool   `yaml:"strict"`
}

func Default() *Config {
	return &Config{
		Prefix:     "out",
		Width:      800,
		Height:     600,
		FPS:        60,
		Ext:        "jpg",
		Workers:    6,
		Pad:        4,
		FFmpegPath: "ffmpeg",
		DataDir:    ".framereel",
	}
}

// Load layers defaults, environment, an optional YAML file (--config) and
// command-line flags, in that order, then validates the result.
func Load(args []string, stderr io.Writer) (*Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if path := configFileArg(args); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.parseFlags(args, stderr); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	workers, err := strconv.Atoi(getEnv("FRAMEREEL_WORKERS", strconv.Itoa(c.Workers)))
	if err != nil {
		return fmt.Errorf("%w: invalid FRAMEREEL_WORKERS: %w", domain.ErrConfiguration, err)
	}
	c.Workers = workers
	c.FFmpegPath = getEnv("FRAMEREEL_FFMPEG", c.FFmpegPath)
	c.DataDir = getEnv("FRAMEREEL_DATA_DIR", c.DataDir)
	c.Ledger = getEnv("FRAMEREEL_LEDGER", c.Ledger)
	return nil
}

// LoadFile overlays the keys present in a YAML file onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read config file: %w", domain.ErrConfiguration, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parse config file %s: %w", domain.ErrConfiguration, path, err)
	}
	return nil
}

func (c *Config) parseFlags(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("framereel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Convert numbered images into fixed-size videos.\n\nUsage: framereel [options] <images glob>\n\n")
		fs.PrintDefaults()
	}

	var configPath string
	fs.StringVar(&configPath, "config", "", "YAML config file")
	fs.StringVar(&c.Prefix, "prefix", c.Prefix, "output name prefix, produces <prefix>_<id>.avi")
	fs.IntVar(&c.Width, "width", c.Width, "output video width")
	fs.IntVar(&c.Height, "height", c.Height, "output video height")
	fs.Float64Var(&c.FPS, "fps", c.FPS, "output video fps")
	fs.StringVar(&c.Ext, "ext", c.Ext, "frame extension filter: jpg, png")
	fs.IntVar(&c.FramesPerVideo, "fpv", c.FramesPerVideo, "frames per video, 0 puts every frame in one video")
	fs.IntVar(&c.Start, "start", c.Start, "starting count")
	fs.IntVar(&c.End, "end", c.End, "number of videos to output, 0 for all")
	fs.IntVar(&c.Workers, "workers", c.Workers, "number of workers")
	fs.IntVar(&c.Workers, "j", c.Workers, "same as --workers")
	fs.IntVar(&c.Pad, "pad", c.Pad, "zero-pad width of the video id")
	fs.IntVar(&c.Pad, "p", c.Pad, "same as --pad")
	fs.StringVar(&c.FFmpegPath, "ffmpeg", c.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&c.Ledger, "ledger", c.Ledger, "persist run reports: json, sqlite (default off)")
	fs.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory of the run ledger")
	fs.BoolVar(&c.Verbose, "verbose", c.Verbose, "log per-frame progress")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "same as --verbose")
	fs.BoolVar(&c.Strict, "strict", c.Strict, "exit non-zero when any video fails")

	// flags may follow the positional glob, as in "framereel 'frames/*.jpg' --fpv 10"
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ErrHelp
			}
			return fmt.Errorf("%w: %w", domain.ErrConfiguration, err)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}

	switch len(positional) {
	case 0:
	case 1:
		c.Images = positional[0]
	default:
		return fmt.Errorf("%w: expected one images glob, got %d arguments (quote the pattern)", domain.ErrConfiguration, len(positional))
	}
	return nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Images == "" {
		problems = append(problems, "images glob is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, fmt.Sprintf("resolution must be positive, got %dx%d", c.Width, c.Height))
	}
	if !domain.ValidFPS(c.FPS) {
		problems = append(problems, fmt.Sprintf("fps must be positive, got %g", c.FPS))
	}
	if c.Prefix == "" {
		problems = append(problems, "prefix must not be empty")
	}
	if !domain.SupportedExt(c.Ext) {
		problems = append(problems, fmt.Sprintf("unsupported ext %q", c.Ext))
	}
	switch c.Ledger {
	case LedgerNone, LedgerJSON, LedgerSQLite:
	default:
		problems = append(problems, fmt.Sprintf("unknown ledger %q", c.Ledger))
	}
	if err := c.Pool().Validate(); err != nil {
		problems = append(problems, strings.TrimPrefix(err.Error(), domain.ErrConfiguration.Error()+": "))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrConfiguration, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) Pool() domain.PoolConfig {
	return domain.PoolConfig{
		GroupSize:   c.FramesPerVideo,
		WorkerLimit: c.Workers,
		WindowStart: c.Start,
		WindowCount: c.End,
		Pad:         c.Pad,
	}
}

// configFileArg finds --config ahead of flag parsing so that flags can
// override file values.
func configFileArg(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if !strings.HasPrefix(a, "-") || name != "config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
