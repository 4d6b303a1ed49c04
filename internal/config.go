package tools

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Endpoint identifies one HTTP server under test by display name and port.
type Endpoint struct {
	Name string `mapstructure:"name"`
	Port int    `mapstructure:"port"`
}

// BenchConfig holds everything the benchmark driver needs for one run.
type BenchConfig struct {
	// Endpoints are benchmarked in order; each contributes one series
	// per chart.
	Endpoints []Endpoint

	// Requests is the total number of requests per trial.
	Requests int

	// MaxConcurrency is the highest concurrency level; trials run at
	// levels 1..MaxConcurrency.
	MaxConcurrency int

	// Path is the request path on each endpoint.
	Path string

	// KeepAlive enables HTTP keep-alive for every trial.
	KeepAlive bool

	// ScratchFile is where each trial's ApacheBench report is written
	// before parsing. Removed again after every trial.
	ScratchFile string

	// Palette is the pgfplots colour assigned to each endpoint's line,
	// by endpoint order.
	Palette []string
}

// Section maps one top-level source directory to its write-up title.
type Section struct {
	Dir   string `mapstructure:"dir"`
	Title string `mapstructure:"title"`
}

// PackageConfig holds everything the source packager needs for one run.
type PackageConfig struct {
	// Sections are processed in order; each emits a \subsection header
	// into every output stream, even when it contributes no files.
	Sections []Section

	// Extensions are the filename suffixes recognised as source files.
	Extensions []string

	// OutputDir is cleared and recreated on every run.
	OutputDir string

	// SeparateTests routes files whose path contains "tests" to a
	// separate tests.tex stream.
	SeparateTests bool

	// Language is passed to \inputminted for syntax highlighting.
	Language string
}

// SetDefaults registers the historical constants of the benchmarking and
// packaging scripts as Viper defaults, so running with no flags, env or
// config file reproduces their behaviour exactly.
func SetDefaults() {
	viper.SetDefault("bench.endpoints", []map[string]interface{}{
		{"name": "Humphrey", "port": 80},
		{"name": "Nginx", "port": 8000},
		{"name": "Apache", "port": 8080},
	})
	viper.SetDefault("bench.requests", 100000)
	viper.SetDefault("bench.max_concurrency", 8)
	viper.SetDefault("bench.path", "/")
	viper.SetDefault("bench.keep_alive", true)
	viper.SetDefault("bench.scratch_file", "out.txt")
	viper.SetDefault("bench.palette", []string{"green", "orange", "red"})

	viper.SetDefault("package.sections", []map[string]interface{}{
		{"dir": "humphrey", "title": "Humphrey Core"},
		{"dir": "humphrey-server", "title": "Humphrey Server"},
		{"dir": "humphrey-ws", "title": "Humphrey WebSocket"},
		{"dir": "plugins", "title": "Plugins"},
		{"dir": "examples", "title": "Example Code"},
	})
	viper.SetDefault("package.extensions", []string{".rs", ".conf"})
	viper.SetDefault("package.output_dir", "pkg")
	viper.SetDefault("package.separate_tests", true)
	viper.SetDefault("package.language", "rust")
}

// EnvKeyReplacer maps nested Viper keys to env var segments, so
// bench.requests becomes HUMPHREY_BENCH_REQUESTS.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// LoadBenchConfig assembles and validates the benchmark configuration
// from Viper.
func LoadBenchConfig() (BenchConfig, error) {
	cfg := BenchConfig{
		Requests:       viper.GetInt("bench.requests"),
		MaxConcurrency: viper.GetInt("bench.max_concurrency"),
		Path:           viper.GetString("bench.path"),
		KeepAlive:      viper.GetBool("bench.keep_alive"),
		ScratchFile:    viper.GetString("bench.scratch_file"),
		Palette:        viper.GetStringSlice("bench.palette"),
	}
	if err := viper.UnmarshalKey("bench.endpoints", &cfg.Endpoints); err != nil {
		return BenchConfig{}, fmt.Errorf("failed to decode bench.endpoints: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return BenchConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the driver or renderer cannot honour.
func (c BenchConfig) Validate() error {
	if len(c.Endpoints) == 0 {
		return fmt.Errorf("no endpoints configured")
	}
	seen := make(map[string]bool, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("endpoint with port %d has no name", ep.Port)
		}
		if ep.Port < 1 || ep.Port > 65535 {
			return fmt.Errorf("endpoint %s has invalid port %d", ep.Name, ep.Port)
		}
		if seen[ep.Name] {
			return fmt.Errorf("duplicate endpoint name %s", ep.Name)
		}
		seen[ep.Name] = true
	}
	if c.Requests < 1 {
		return fmt.Errorf("bench.requests must be positive, got %d", c.Requests)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("bench.max_concurrency must be positive, got %d", c.MaxConcurrency)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("bench.path must start with /, got %q", c.Path)
	}
	if c.ScratchFile == "" {
		return fmt.Errorf("bench.scratch_file must not be empty")
	}
	// Each endpoint needs its own line colour; see RenderChart.
	if len(c.Endpoints) > len(c.Palette) {
		return fmt.Errorf("%d endpoints configured but palette has only %d colours", len(c.Endpoints), len(c.Palette))
	}
	return nil
}

// LoadPackageConfig assembles and validates the packager configuration
// from Viper.
func LoadPackageConfig() (PackageConfig, error) {
	cfg := PackageConfig{
		Extensions:    viper.GetStringSlice("package.extensions"),
		OutputDir:     viper.GetString("package.output_dir"),
		SeparateTests: viper.GetBool("package.separate_tests"),
		Language:      viper.GetString("package.language"),
	}
	if err := viper.UnmarshalKey("package.sections", &cfg.Sections); err != nil {
		return PackageConfig{}, fmt.Errorf("failed to decode package.sections: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return PackageConfig{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the packager cannot honour.
func (c PackageConfig) Validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("no package sections configured")
	}
	for _, sec := range c.Sections {
		if sec.Dir == "" {
			return fmt.Errorf("package section %q has no directory", sec.Title)
		}
		if sec.Title == "" {
			return fmt.Errorf("package section %q has no title", sec.Dir)
		}
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("no package extensions configured")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("package.output_dir must not be empty")
	}
	if c.Language == "" {
		return fmt.Errorf("package.language must not be empty")
	}
	return nil
}
