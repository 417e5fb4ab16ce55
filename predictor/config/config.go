/*
 *     Copyright 2023 The Dragonfly Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"errors"

	"github.com/solarcast/solarcast/cmd/dependency/base"
	"github.com/solarcast/solarcast/predictor/synthesizer"
)

type Config struct {
	// Base options.
	base.Options `yaml:",inline" mapstructure:",squash"`

	// Server configuration.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Synthesizer configuration.
	Synthesizer SynthesizerConfig `yaml:"synthesizer" mapstructure:"synthesizer"`

	// Financial configuration.
	Financial FinancialConfig `yaml:"financial" mapstructure:"financial"`

	// Metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type ServerConfig struct {
	// Server listen address.
	Addr string `yaml:"addr" mapstructure:"addr"`

	// Server log directory.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`

	// Maximum size in megabytes of log files before rotation (default: 1024)
	LogMaxSize int `yaml:"logMaxSize" mapstructure:"logMaxSize"`

	// Maximum number of days to retain old log files (default: 7)
	LogMaxAge int `yaml:"logMaxAge" mapstructure:"logMaxAge"`

	// Maximum number of old log files to keep (default: 20)
	LogMaxBackups int `yaml:"logMaxBackups" mapstructure:"logMaxBackups"`

	// ArtifactDir is the model artifact directory.
	ArtifactDir string `yaml:"artifactDir" mapstructure:"artifactDir"`
}

type SynthesizerConfig struct {
	// Policy estimates the conditions of a request, latitude or flat.
	Policy string `yaml:"policy" mapstructure:"policy"`
}

type FinancialConfig struct {
	// Tariff is the electricity price per kWh.
	Tariff float64 `yaml:"tariff" mapstructure:"tariff"`

	// Currency of the tariff.
	Currency string `yaml:"currency" mapstructure:"currency"`

	// LifetimeYears is the lifetime of a system.
	LifetimeYears int `yaml:"lifetimeYears" mapstructure:"lifetimeYears"`

	// LifetimeFactor is the share of the nominal output over the lifetime.
	LifetimeFactor float64 `yaml:"lifetimeFactor" mapstructure:"lifetimeFactor"`
}

type MetricsConfig struct {
	// Enable metrics service.
	Enable bool `yaml:"enable" mapstructure:"enable"`

	// Metrics service address.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// New default configuration.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          DefaultServerAddr,
			LogMaxSize:    DefaultLogRotateMaxSize,
			LogMaxAge:     DefaultLogRotateMaxAge,
			LogMaxBackups: DefaultLogRotateMaxBackups,
		},
		Synthesizer: SynthesizerConfig{
			Policy: DefaultSynthesizerPolicy,
		},
		Financial: FinancialConfig{
			Tariff:         DefaultTariff,
			Currency:       DefaultCurrency,
			LifetimeYears:  DefaultLifetimeYears,
			LifetimeFactor: DefaultLifetimeFactor,
		},
		Metrics: MetricsConfig{
			Enable: false,
			Addr:   DefaultMetricsAddr,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.Server.Addr == "" {
		return errors.New("server requires parameter addr")
	}

	if _, err := synthesizer.NewPolicy(cfg.Synthesizer.Policy); err != nil {
		return errors.New("synthesizer requires parameter policy")
	}

	if cfg.Financial.Tariff < 0 {
		return errors.New("financial requires parameter tariff")
	}

	if cfg.Financial.Currency == "" {
		return errors.New("financial requires parameter currency")
	}

	if cfg.Financial.LifetimeYears <= 0 {
		return errors.New("financial requires parameter lifetimeYears")
	}

	if cfg.Financial.LifetimeFactor <= 0 || cfg.Financial.LifetimeFactor > 1 {
		return errors.New("financial requires parameter lifetimeFactor")
	}

	if cfg.Metrics.Enable {
		if cfg.Metrics.Addr == "" {
			return errors.New("metrics requires parameter addr")
		}
	}

	return nil
}

func (cfg *Config) Convert() error {
	return nil
}
