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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/solarcast/solarcast/cmd/dependency/base"
	"github.com/solarcast/solarcast/pkg/models"
)

var (
	mockTrainingConfig = TrainingConfig{
		Dataset:     "foo.csv",
		TestPercent: DefaultTestPercent,
		Targets:     []string{"dc_power_kw"},
		Models:      models.DefaultOptions(),
	}

	mockMetricsConfig = MetricsConfig{
		Enable: true,
		Addr:   DefaultMetricsAddr,
	}
)

func TestConfig_Load(t *testing.T) {
	config := &Config{
		Options: base.Options{
			Console:   true,
			Verbose:   true,
			PProfPort: 6060,
		},
		Server: ServerConfig{
			LogDir:        "foo",
			LogMaxSize:    512,
			LogMaxAge:     5,
			LogMaxBackups: 3,
			DataDir:       "foo",
			ArtifactDir:   "bar",
		},
		Training: TrainingConfig{
			Dataset:     "foo.csv",
			Report:      "report.json",
			TestPercent: 0.25,
			Targets:     []string{"dc_power_kw", "ac_power_kw"},
			Models: models.Options{
				Forest: models.ForestOptions{
					NEstimators:    10,
					MaxDepth:       6,
					MinSamplesLeaf: 1,
					MaxBins:        64,
					Seed:           7,
				},
				Boosting: models.BoostingOptions{
					LearningRate:   0.05,
					MaxDepth:       4,
					MaxIter:        100,
					MinSamplesLeaf: 3,
					MaxBins:        128,
				},
			},
		},
		Metrics: MetricsConfig{
			Enable: true,
			Addr:   ":8000",
		},
	}

	trainerConfigYAML := &Config{}
	contentYAML, _ := os.ReadFile("./testdata/trainer.yaml")
	if err := yaml.Unmarshal(contentYAML, &trainerConfigYAML); err != nil {
		t.Fatal(err)
	}
	assert := assert.New(t)
	assert.EqualValues(config, trainerConfigYAML)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		mock   func(cfg *Config)
		expect func(t *testing.T, err error)
	}{
		{
			name:   "valid config",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.NoError(err)
			},
		},
		{
			name:   "training requires parameter dataset",
			config: New(),
			mock:   func(cfg *Config) {},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter dataset")
			},
		},
		{
			name:   "training requires parameter testPercent",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
				cfg.Training.TestPercent = 1
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter testPercent")
			},
		},
		{
			name:   "training requires parameter targets",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
				cfg.Training.Targets = nil
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "training requires parameter targets")
			},
		},
		{
			name:   "forest requires parameter nEstimators",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
				cfg.Training.Models.Forest.NEstimators = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "forest requires parameter nEstimators")
			},
		},
		{
			name:   "forest requires parameter maxDepth",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
				cfg.Training.Models.Forest.MaxDepth = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "forest requires parameter maxDepth")
			},
		},
		{
			name:   "boosting requires parameter learningRate",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
				cfg.Training.Models.Boosting.LearningRate = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "boosting requires parameter learningRate")
			},
		},
		{
			name:   "boosting requires parameter maxIter",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
				cfg.Training.Models.Boosting.MaxIter = 0
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "boosting requires parameter maxIter")
			},
		},
		{
			name:   "metrics requires parameter addr",
			config: New(),
			mock: func(cfg *Config) {
				cfg.Training = mockTrainingConfig
				cfg.Metrics = mockMetricsConfig
				cfg.Metrics.Addr = ""
			},
			expect: func(t *testing.T, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "metrics requires parameter addr")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.mock(tc.config)
			tc.expect(t, tc.config.Validate())
		})
	}
}

func TestConfig_Convert(t *testing.T) {
	assert := assert.New(t)
	cfg := New()
	cfg.Training.Dataset = "foo.csv"
	assert.NoError(cfg.Convert())

	wd, err := os.Getwd()
	assert.NoError(err)
	assert.Equal(wd+"/foo.csv", cfg.Training.Dataset)
}
