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
	"path/filepath"

	"github.com/solarcast/solarcast/cmd/dependency/base"
	"github.com/solarcast/solarcast/pkg/models"
	"github.com/solarcast/solarcast/pkg/schema"
)

type Config struct {
	// Base options.
	base.Options `yaml:",inline" mapstructure:",squash"`

	// Server configuration.
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Training configuration.
	Training TrainingConfig `yaml:"training" mapstructure:"training"`

	// Metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type ServerConfig struct {
	// Server log directory.
	LogDir string `yaml:"logDir" mapstructure:"logDir"`

	// Maximum size in megabytes of log files before rotation (default: 1024)
	LogMaxSize int `yaml:"logMaxSize" mapstructure:"logMaxSize"`

	// Maximum number of days to retain old log files (default: 7)
	LogMaxAge int `yaml:"logMaxAge" mapstructure:"logMaxAge"`

	// Maximum number of old log files to keep (default: 20)
	LogMaxBackups int `yaml:"logMaxBackups" mapstructure:"logMaxBackups"`

	// Server storage data directory.
	DataDir string `yaml:"dataDir" mapstructure:"dataDir"`

	// ArtifactDir is the model artifact directory.
	ArtifactDir string `yaml:"artifactDir" mapstructure:"artifactDir"`
}

type TrainingConfig struct {
	// Dataset is the path of the csv dataset.
	Dataset string `yaml:"dataset" mapstructure:"dataset"`

	// Report is the path of the json report, printed to stdout when empty.
	Report string `yaml:"report" mapstructure:"report"`

	// TestPercent is the held-out share of the chronological split.
	TestPercent float64 `yaml:"testPercent" mapstructure:"testPercent"`

	// Targets is the regression targets in output order.
	Targets []string `yaml:"targets" mapstructure:"targets"`

	// Models is the candidate hyperparameters.
	Models models.Options `yaml:"models" mapstructure:"models"`
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
			LogMaxSize:    DefaultLogRotateMaxSize,
			LogMaxAge:     DefaultLogRotateMaxAge,
			LogMaxBackups: DefaultLogRotateMaxBackups,
		},
		Training: TrainingConfig{
			TestPercent: DefaultTestPercent,
			Targets:     schema.DefaultTargets(),
			Models:      models.DefaultOptions(),
		},
		Metrics: MetricsConfig{
			Enable: false,
			Addr:   DefaultMetricsAddr,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.Training.Dataset == "" {
		return errors.New("training requires parameter dataset")
	}

	if cfg.Training.TestPercent <= 0 || cfg.Training.TestPercent >= 1 {
		return errors.New("training requires parameter testPercent")
	}

	if len(cfg.Training.Targets) == 0 {
		return errors.New("training requires parameter targets")
	}

	if cfg.Training.Models.Forest.NEstimators <= 0 {
		return errors.New("forest requires parameter nEstimators")
	}

	if cfg.Training.Models.Forest.MaxDepth <= 0 {
		return errors.New("forest requires parameter maxDepth")
	}

	if cfg.Training.Models.Boosting.LearningRate <= 0 {
		return errors.New("boosting requires parameter learningRate")
	}

	if cfg.Training.Models.Boosting.MaxIter <= 0 {
		return errors.New("boosting requires parameter maxIter")
	}

	if cfg.Metrics.Enable {
		if cfg.Metrics.Addr == "" {
			return errors.New("metrics requires parameter addr")
		}
	}

	return nil
}

func (cfg *Config) Convert() error {
	if cfg.Training.Dataset != "" {
		dataset, err := filepath.Abs(cfg.Training.Dataset)
		if err != nil {
			return err
		}

		cfg.Training.Dataset = dataset
	}

	return nil
}
