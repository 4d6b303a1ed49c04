package tools

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	SetDefaults()
	t.Cleanup(viper.Reset)
}

func TestLoadBenchConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := LoadBenchConfig()
	require.NoError(t, err)

	assert.Equal(t, []Endpoint{
		{Name: "Humphrey", Port: 80},
		{Name: "Nginx", Port: 8000},
		{Name: "Apache", Port: 8080},
	}, cfg.Endpoints)
	assert.Equal(t, 100000, cfg.Requests)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, "/", cfg.Path)
	assert.True(t, cfg.KeepAlive)
	assert.Equal(t, "out.txt", cfg.ScratchFile)
	assert.Equal(t, []string{"green", "orange", "red"}, cfg.Palette)
}

func TestLoadBenchConfigOverrides(t *testing.T) {
	resetViper(t)
	viper.Set("bench.requests", 5000)
	viper.Set("bench.max_concurrency", 2)
	viper.Set("bench.path", "/test.php")

	cfg, err := LoadBenchConfig()
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Requests)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, "/test.php", cfg.Path)
}

func TestLoadPackageConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := LoadPackageConfig()
	require.NoError(t, err)

	assert.Equal(t, []Section{
		{Dir: "humphrey", Title: "Humphrey Core"},
		{Dir: "humphrey-server", Title: "Humphrey Server"},
		{Dir: "humphrey-ws", Title: "Humphrey WebSocket"},
		{Dir: "plugins", Title: "Plugins"},
		{Dir: "examples", Title: "Example Code"},
	}, cfg.Sections)
	assert.Equal(t, []string{".rs", ".conf"}, cfg.Extensions)
	assert.Equal(t, "pkg", cfg.OutputDir)
	assert.True(t, cfg.SeparateTests)
	assert.Equal(t, "rust", cfg.Language)
}

func TestBenchConfigValidate(t *testing.T) {
	valid := testBenchConfig()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*BenchConfig)
		wantErr string
	}{
		{
			name:    "no endpoints",
			mutate:  func(c *BenchConfig) { c.Endpoints = nil },
			wantErr: "no endpoints",
		},
		{
			name:    "unnamed endpoint",
			mutate:  func(c *BenchConfig) { c.Endpoints[0].Name = "" },
			wantErr: "no name",
		},
		{
			name:    "invalid port",
			mutate:  func(c *BenchConfig) { c.Endpoints[0].Port = 0 },
			wantErr: "invalid port",
		},
		{
			name: "duplicate endpoint name",
			mutate: func(c *BenchConfig) {
				c.Endpoints = append(c.Endpoints, Endpoint{Name: "Humphrey", Port: 81})
			},
			wantErr: "duplicate",
		},
		{
			name:    "zero requests",
			mutate:  func(c *BenchConfig) { c.Requests = 0 },
			wantErr: "requests",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *BenchConfig) { c.MaxConcurrency = 0 },
			wantErr: "max_concurrency",
		},
		{
			name:    "relative path",
			mutate:  func(c *BenchConfig) { c.Path = "index.html" },
			wantErr: "path",
		},
		{
			name:    "empty scratch file",
			mutate:  func(c *BenchConfig) { c.ScratchFile = "" },
			wantErr: "scratch_file",
		},
		{
			name: "more endpoints than palette colours",
			mutate: func(c *BenchConfig) {
				c.Endpoints = append(c.Endpoints,
					Endpoint{Name: "Caddy", Port: 8081},
					Endpoint{Name: "Lighttpd", Port: 8082})
			},
			wantErr: "palette",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testBenchConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPackageConfigValidate(t *testing.T) {
	valid := testPackageConfig()
	require.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(*PackageConfig)
		wantErr string
	}{
		{
			name:    "no sections",
			mutate:  func(c *PackageConfig) { c.Sections = nil },
			wantErr: "sections",
		},
		{
			name:    "section without directory",
			mutate:  func(c *PackageConfig) { c.Sections[0].Dir = "" },
			wantErr: "directory",
		},
		{
			name:    "section without title",
			mutate:  func(c *PackageConfig) { c.Sections[0].Title = "" },
			wantErr: "title",
		},
		{
			name:    "no extensions",
			mutate:  func(c *PackageConfig) { c.Extensions = nil },
			wantErr: "extensions",
		},
		{
			name:    "empty output dir",
			mutate:  func(c *PackageConfig) { c.OutputDir = "" },
			wantErr: "output_dir",
		},
		{
			name:    "empty language",
			mutate:  func(c *PackageConfig) { c.Language = "" },
			wantErr: "language",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testPackageConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
