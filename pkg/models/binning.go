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
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// MaxBinsLimit is the largest bin count a feature can be mapped to.
const MaxBinsLimit = 256

// binMapper maps raw feature values onto histogram bins. Bin i of feature f
// holds the values in (thresholds[f][i-1], thresholds[f][i]].
type binMapper struct {
	thresholds [][]float64
}

func newBinMapper(x *mat.Dense, maxBins int) *binMapper {
	if maxBins < 2 || maxBins > MaxBinsLimit {
		maxBins = MaxBinsLimit
	}

	_, cols := x.Dims()
	m := &binMapper{thresholds: make([][]float64, cols)}
	for f := 0; f < cols; f++ {
		m.thresholds[f] = binThresholds(mat.Col(nil, f, x), maxBins)
	}

	return m
}

func binThresholds(values []float64, maxBins int) []float64 {
	sorted := values[:0]
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	sort.Float64s(sorted)

	distinct := make([]float64, 0, len(sorted))
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			distinct = append(distinct, v)
		}
	}

	if len(distinct) <= maxBins {
		thresholds := make([]float64, 0, len(distinct))
		for i := 1; i < len(distinct); i++ {
			thresholds = append(thresholds, (distinct[i-1]+distinct[i])/2)
		}

		return thresholds
	}

	thresholds := make([]float64, 0, maxBins-1)
	for k := 1; k < maxBins; k++ {
		q := sorted[k*len(sorted)/maxBins]
		if len(thresholds) > 0 && q <= thresholds[len(thresholds)-1] {
			continue
		}

		thresholds = append(thresholds, q)
	}

	return thresholds
}

// transform returns the bin codes of x, indexed by feature then row.
func (m *binMapper) transform(x *mat.Dense) [][]uint8 {
	rows, cols := x.Dims()
	codes := make([][]uint8, cols)
	for f := 0; f < cols; f++ {
		codes[f] = make([]uint8, rows)
		for i := 0; i < rows; i++ {
			codes[f][i] = uint8(sort.SearchFloat64s(m.thresholds[f], x.At(i, f)))
		}
	}

	return codes
}
