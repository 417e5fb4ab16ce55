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
	"fmt"
	"math"

	"github.com/ezoic/scigo/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// StandardScaler is the fitted state of a scigo standard scaler.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fit fits a scigo scaler on the varying features and records its affine map.
// Constant features keep their value as mean with scale 1.
func (s *StandardScaler) Fit(x *mat.Dense) error {
	if err := checkFit(x, rowsOf(x)); err != nil {
		return err
	}

	_, cols := x.Dims()
	mean := make([]float64, cols)
	scale := make([]float64, cols)
	for j := 0; j < cols; j++ {
		mean[j], scale[j] = x.At(0, j), 1
	}

	active := varying(x)
	if len(active) > 0 {
		scaler := preprocessing.NewStandardScaler(true, true)
		if err := scaler.Fit(selectColumns(x, active)); err != nil {
			return err
		}

		// Scaled origin and unit rows give -mean/scale and (1-mean)/scale.
		out, err := scaler.Transform(unitRows(len(active)))
		if err != nil {
			return err
		}

		for k, j := range active {
			origin := out.At(0, k)
			step := out.At(k+1, k) - origin
			if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
				return fmt.Errorf("feature %d has a degenerate scale", j)
			}

			scale[j] = 1 / step
			mean[j] = -origin * scale[j]
		}
	}

	s.Mean, s.Scale = mean, scale
	return nil
}

// Transform returns a scaled copy of x.
func (s *StandardScaler) Transform(x *mat.Dense) (*mat.Dense, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}

	if err := checkPredict(x, len(s.Mean)); err != nil {
		return nil, err
	}

	var out mat.Dense
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, x)
	return &out, nil
}

func rowsOf(x *mat.Dense) int {
	if x == nil {
		return 0
	}

	rows, _ := x.Dims()
	return rows
}

// varying returns the indexes of columns holding more than one distinct value.
func varying(x *mat.Dense) []int {
	rows, cols := x.Dims()
	var active []int
	for j := 0; j < cols; j++ {
		first := x.At(0, j)
		for i := 1; i < rows; i++ {
			if x.At(i, j) != first {
				active = append(active, j)
				break
			}
		}
	}

	return active
}

func selectColumns(x *mat.Dense, idx []int) *mat.Dense {
	rows, _ := x.Dims()
	out := mat.NewDense(rows, len(idx), nil)
	for k, j := range idx {
		out.SetCol(k, mat.Col(nil, j, x))
	}

	return out
}

// unitRows returns a zero row followed by the n unit rows.
func unitRows(n int) *mat.Dense {
	out := mat.NewDense(n+1, n, nil)
	for k := 0; k < n; k++ {
		out.Set(k+1, k, 1)
	}

	return out
}
