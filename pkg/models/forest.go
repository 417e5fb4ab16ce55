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
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// ForestOptions is the bagged trees hyperparameters.
type ForestOptions struct {
	NEstimators    int   `yaml:"nEstimators" mapstructure:"nEstimators"`
	MaxDepth       int   `yaml:"maxDepth" mapstructure:"maxDepth"`
	MinSamplesLeaf int   `yaml:"minSamplesLeaf" mapstructure:"minSamplesLeaf"`
	MaxBins        int   `yaml:"maxBins" mapstructure:"maxBins"`
	Seed           int64 `yaml:"seed" mapstructure:"seed"`
}

// RandomForest is a single-output average of regression trees fit on bootstrap samples.
type RandomForest struct {
	Options  ForestOptions `json:"options"`
	Features int           `json:"features"`
	Trees    []*Tree       `json:"trees"`
}

// NewRandomForest returns an unfitted forest.
func NewRandomForest(options ForestOptions) *RandomForest {
	return &RandomForest{Options: options}
}

// Fit grows the trees concurrently, tree i samples rows with seed Seed+i.
func (f *RandomForest) Fit(x *mat.Dense, y []float64) error {
	if err := checkFit(x, len(y)); err != nil {
		return err
	}

	mapper := newBinMapper(x, f.Options.MaxBins)
	codes := mapper.transform(x)
	n := len(y)

	estimators := f.Options.NEstimators
	if estimators < 1 {
		estimators = 1
	}

	trees := make([]*Tree, estimators)
	eg := errgroup.Group{}
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		i := i
		eg.Go(func() error {
			rng := rand.New(rand.NewSource(f.Options.Seed + int64(i)))
			rows := make([]int, n)
			for j := range rows {
				rows[j] = rng.Intn(n)
			}

			trees[i] = buildTree(mapper, codes, y, rows, f.Options.MaxDepth, f.Options.MinSamplesLeaf)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	_, f.Features = x.Dims()
	f.Trees = trees
	return nil
}

func (f *RandomForest) Predict(x *mat.Dense) ([]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}

	if err := checkPredict(x, f.Features); err != nil {
		return nil, err
	}

	rows, _ := x.Dims()
	out := make([]float64, rows)
	for _, tree := range f.Trees {
		for i, v := range predictTree(tree, x) {
			out[i] += v
		}
	}

	for i := range out {
		out[i] /= float64(len(f.Trees))
	}

	return out, nil
}
