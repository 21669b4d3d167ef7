package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. QGDA_SERVER_HTTP_PORT.
const EnvPrefix = "QGDA"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("qgda")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/qgda")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout.String())
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout.String())
	v.SetDefault("server.body_limit", d.Server.BodyLimit)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	v.SetDefault("stats.sig_fig", d.Stats.SigFig)
	v.SetDefault("stats.zero_conf_decimals", d.Stats.ZeroConfDecimals)
	v.SetDefault("stats.max_lags", d.Stats.MaxLags)

	v.SetDefault("dataset.data_dir", d.Dataset.DataDir)
	v.SetDefault("dataset.input", d.Dataset.Input)
	v.SetDefault("dataset.output", d.Dataset.Output)
	v.SetDefault("dataset.member", d.Dataset.Member)
	v.SetDefault("dataset.write_manifest", d.Dataset.WriteManifest)

	v.SetDefault("subsample.grid", d.Subsample.Grid)
	v.SetDefault("subsample.factor", d.Subsample.Factor)
	v.SetDefault("subsample.ftype", d.Subsample.FilterType)
	v.SetDefault("subsample.workers", d.Subsample.Workers)

	v.SetDefault("render.out_dir", d.Render.OutDir)
	v.SetDefault("render.f_param", d.Render.F)
	v.SetDefault("render.clim_psi", d.Render.ClimPsi)
	v.SetDefault("render.clim_q", d.Render.ClimQ)
	v.SetDefault("render.every", d.Render.Every)
	v.SetDefault("render.width", d.Render.Width)
	v.SetDefault("render.height", d.Render.Height)
	v.SetDefault("render.colors", d.Render.Colors)

	v.SetDefault("archive.compression", d.Archive.Compression)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     5580,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			BodyLimit:    16 * 1024 * 1024,
		},
		Auth: AuthConfig{
			Enabled: false,
			APIKeys: []string{},
		},
		Stats: StatsConfig{
			SigFig:           4,
			ZeroConfDecimals: 10,
			MaxLags:          10000,
		},
		Dataset: DatasetConfig{
			DataDir:       "./data",
			Input:         "HRES_{run}.npz",
			Output:        "SUBS_{run}.npy",
			Member:        "sample",
			WriteManifest: true,
		},
		Subsample: SubsampleConfig{
			Grid:       129,
			Factor:     2,
			FilterType: "fir",
		},
		Render: RenderConfig{
			OutDir:  "./frames",
			F:       1600,
			ClimPsi: []float64{-30, 30},
			ClimQ:   []float64{-28e4, 25e4},
			Every:   2,
			Width:   10,
			Height:  5,
			Colors:  64,
		},
		Archive: ArchiveConfig{
			Compression: "snappy",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
			TimeFormat: "RFC3339",
		},
	}
}
