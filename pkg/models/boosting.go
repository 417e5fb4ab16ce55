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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// BoostingOptions is the gradient boosting hyperparameters.
type BoostingOptions struct {
	LearningRate   float64 `yaml:"learningRate" mapstructure:"learningRate"`
	MaxDepth       int     `yaml:"maxDepth" mapstructure:"maxDepth"`
	MaxIter        int     `yaml:"maxIter" mapstructure:"maxIter"`
	MinSamplesLeaf int     `yaml:"minSamplesLeaf" mapstructure:"minSamplesLeaf"`
	MaxBins        int     `yaml:"maxBins" mapstructure:"maxBins"`
}

// HistGradientBoosting is single-output least squares gradient boosting over histogram-binned features.
type HistGradientBoosting struct {
	Options  BoostingOptions `json:"options"`
	Features int             `json:"features"`
	Baseline float64         `json:"baseline"`
	Trees    []*Tree         `json:"trees"`
}

// NewHistGradientBoosting returns an unfitted booster.
func NewHistGradientBoosting(options BoostingOptions) *HistGradientBoosting {
	return &HistGradientBoosting{Options: options}
}

// Fit starts from the target mean and fits each tree on the current residuals.
// Boosting stops early once a tree can not split.
func (h *HistGradientBoosting) Fit(x *mat.Dense, y []float64) error {
	if err := checkFit(x, len(y)); err != nil {
		return err
	}

	mapper := newBinMapper(x, h.Options.MaxBins)
	codes := mapper.transform(x)

	n := len(y)
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	baseline := stat.Mean(y, nil)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = baseline
	}

	residual := make([]float64, n)
	trees := make([]*Tree, 0, h.Options.MaxIter)
	for iter := 0; iter < h.Options.MaxIter; iter++ {
		for i := range residual {
			residual[i] = y[i] - pred[i]
		}

		tree := buildTree(mapper, codes, residual, rows, h.Options.MaxDepth, h.Options.MinSamplesLeaf)
		if len(tree.Nodes) == 1 {
			break
		}

		for i := range pred {
			pred[i] += h.Options.LearningRate * tree.PredictRow(x.RawRowView(i))
		}
		trees = append(trees, tree)
	}

	_, h.Features = x.Dims()
	h.Baseline = baseline
	h.Trees = trees
	return nil
}

func (h *HistGradientBoosting) Predict(x *mat.Dense) ([]float64, error) {
	if h.Features == 0 {
		return nil, ErrNotFitted
	}

	if err := checkPredict(x, h.Features); err != nil {
		return nil, err
	}

	rows, _ := x.Dims()
	out := make([]float64, rows)
	for i := range out {
		out[i] = h.Baseline
	}

	for _, tree := range h.Trees {
		for i, v := range predictTree(tree, x) {
			out[i] += h.Options.LearningRate * v
		}
	}

	return out, nil
}
