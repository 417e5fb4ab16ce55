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

package training

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		actual []float64
		pred   []float64
		expect func(t *testing.T, e *Eval, err error)
	}{
		{
			name:   "perfect prediction",
			actual: []float64{1, 2, 3, 4},
			pred:   []float64{1, 2, 3, 4},
			expect: func(t *testing.T, e *Eval, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Equal(float64(0), e.MAE)
				assert.Equal(float64(0), e.RMSE)
				assert.Equal(float64(1), e.R2)
				assert.Equal(float64(0), e.MAPE)
				assert.Equal(float64(100), e.Within5Percent)
				assert.Equal(float64(100), e.Within10Percent)
			},
		},
		{
			name:   "classical and efficiency metrics",
			actual: []float64{0, 2, 4, 10},
			pred:   []float64{0, 2.1, 5, 10.5},
			expect: func(t *testing.T, e *Eval, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.InDelta((0+0.1+1+0.5)/4, e.MAE, 1e-12)
				assert.InDelta((0+0.01+1+0.25)/4, e.MSE, 1e-12)
				assert.InDelta(math.Sqrt(e.MSE), e.RMSE, 1e-12)
				assert.InDelta(1-1.26/56, e.R2, 1e-12)
				assert.InDelta((0.05+0.25+0.05)/3*100, e.MAPE, 1e-9)
				assert.InDelta(e.RMSE/4*100, e.NRMSE, 1e-9)
				assert.Equal(float64(75), e.Within5Percent)
				assert.Equal(float64(75), e.Within10Percent)
			},
		},
		{
			name:   "zero actuals",
			actual: []float64{0, 0, 0},
			pred:   []float64{0.5, 0, 1},
			expect: func(t *testing.T, e *Eval, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Equal(float64(0), e.MAPE)
				assert.Equal(float64(0), e.NRMSE)
				assert.Equal(float64(0), e.R2)
				assert.InDelta(100.0/3, e.Within5Percent, 1e-9)
				assert.NoError(e.CheckEval())
			},
		},
		{
			name:   "negative actual outside tolerance",
			actual: []float64{-1, 1},
			pred:   []float64{5, 1},
			expect: func(t *testing.T, e *Eval, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Equal(float64(50), e.Within5Percent)
				assert.Equal(float64(50), e.Within10Percent)
			},
		},
		{
			name:   "constant actuals predicted exactly",
			actual: []float64{2, 2},
			pred:   []float64{2, 2},
			expect: func(t *testing.T, e *Eval, err error) {
				assert.Equal(t, float64(1), e.R2)
			},
		},
		{
			name:   "non-finite prediction",
			actual: []float64{1, 2},
			pred:   []float64{math.NaN(), 2},
			expect: func(t *testing.T, e *Eval, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "model NAN")
				assert.Nil(e)
			},
		},
		{
			name:   "length mismatch",
			actual: []float64{1, 2},
			pred:   []float64{1},
			expect: func(t *testing.T, e *Eval, err error) {
				assert.Error(t, err)
			},
		},
		{
			name: "empty input",
			expect: func(t *testing.T, e *Eval, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := Evaluate(tc.actual, tc.pred)
			tc.expect(t, e, err)
		})
	}
}

func TestErrorPercent(t *testing.T) {
	tests := []struct {
		name   string
		actual float64
		pred   float64
		expect float64
	}{
		{name: "over prediction", actual: 4, pred: 5, expect: 25},
		{name: "under prediction", actual: 4, pred: 3, expect: 25},
		{name: "negative actual", actual: -1, pred: 5, expect: 600},
		{name: "exact", actual: 2, pred: 2, expect: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expect, errorPercent(tc.actual, tc.pred), 1e-4)
		})
	}
}
