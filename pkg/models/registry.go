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

package models

import (
	"encoding/json"
	"fmt"
)

const (
	// LinearRegressionName is the scaled ordinary least squares candidate.
	LinearRegressionName = "linear_regression"

	// RandomForestName is the bagged trees candidate.
	RandomForestName = "random_forest"

	// HistGradientBoostingName is the boosted trees candidate.
	HistGradientBoostingName = "hist_gradient_boosting"
)

// Options is the hyperparameters of all candidates.
type Options struct {
	Forest   ForestOptions   `yaml:"forest" mapstructure:"forest"`
	Boosting BoostingOptions `yaml:"boosting" mapstructure:"boosting"`
}

// DefaultOptions returns the default candidate hyperparameters.
func DefaultOptions() Options {
	return Options{
		Forest: ForestOptions{
			NEstimators:    DefaultForestEstimators,
			MaxDepth:       DefaultForestMaxDepth,
			MinSamplesLeaf: DefaultMinSamplesLeaf,
			MaxBins:        DefaultMaxBins,
			Seed:           DefaultSeed,
		},
		Boosting: BoostingOptions{
			LearningRate:   DefaultLearningRate,
			MaxDepth:       DefaultBoostingMaxDepth,
			MaxIter:        DefaultBoostingMaxIter,
			MinSamplesLeaf: DefaultMinSamplesLeaf,
			MaxBins:        DefaultMaxBins,
		},
	}
}

// Candidate is a registered model strategy.
type Candidate struct {
	Name string
	New  func() Model
}

// Candidates returns the model strategies in registration order.
func Candidates(options Options) []Candidate {
	return []Candidate{
		{
			Name: LinearRegressionName,
			New: func() Model {
				return NewLinearRegression()
			},
		},
		{
			Name: RandomForestName,
			New: func() Model {
				return NewMultiOutput(RandomForestName, func() *RandomForest {
					return NewRandomForest(options.Forest)
				})
			},
		},
		{
			Name: HistGradientBoostingName,
			New: func() Model {
				return NewMultiOutput(HistGradientBoostingName, func() *HistGradientBoosting {
					return NewHistGradientBoosting(options.Boosting)
				})
			},
		},
	}
}

// Lookup returns the candidate registered under name.
func Lookup(name string, options Options) (Candidate, bool) {
	for _, candidate := range Candidates(options) {
		if candidate.Name == name {
			return candidate, true
		}
	}

	return Candidate{}, false
}

type envelope struct {
	Kind  string          `json:"kind"`
	State json.RawMessage `json:"state"`
}

// Marshal encodes a fitted model with its kind.
func Marshal(m Model) ([]byte, error) {
	state, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		Kind:  m.Name(),
		State: state,
	})
}

// Unmarshal decodes a model encoded by Marshal.
func Unmarshal(data []byte) (Model, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}

	candidate, ok := Lookup(e.Kind, DefaultOptions())
	if !ok {
		return nil, fmt.Errorf("unknown model kind %q", e.Kind)
	}

	m := candidate.New()
	if err := json.Unmarshal(e.State, m); err != nil {
		return nil, fmt.Errorf("decode %s state: %w", e.Kind, err)
	}

	return m, nil
}
