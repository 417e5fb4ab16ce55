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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// mockData returns rows of (a, b, constant) with targets (2a+3b+1, a-b, step(a)).
func mockData(n int) (*mat.Dense, *mat.Dense) {
	x := mat.NewDense(n, 3, nil)
	y := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		a := float64(i%17) / 4
		b := float64((i*7)%13) / 3
		x.SetRow(i, []float64{a, b, 5})

		step := 0.0
		if a > 2 {
			step = 10
		}
		y.SetRow(i, []float64{2*a + 3*b + 1, a - b, step})
	}

	return x, y
}

func mockOptions() Options {
	options := DefaultOptions()
	options.Forest.NEstimators = 10
	options.Boosting.MaxIter = 50
	return options
}

func TestLinearRegression(t *testing.T) {
	assert := assert.New(t)
	x, y := mockData(120)

	m := NewLinearRegression()
	_, err := m.Predict(x)
	assert.ErrorIs(err, ErrNotFitted)

	require.NoError(t, m.Fit(x, y))
	assert.Equal(LinearRegressionName, m.Name())
	assert.Equal(float64(1), m.Scaler.Scale[2])
	assert.Equal(float64(5), m.Scaler.Mean[2])
	for _, coef := range m.Coef {
		assert.Equal(float64(0), coef[2])
	}

	pred, err := m.Predict(x)
	require.NoError(t, err)
	for i := 0; i < 120; i++ {
		assert.InDelta(y.At(i, 0), pred.At(i, 0), 1e-4)
		assert.InDelta(y.At(i, 1), pred.At(i, 1), 1e-4)
	}

	_, err = m.Predict(mat.NewDense(1, 2, nil))
	assert.Error(err)
}

func TestStandardScaler(t *testing.T) {
	assert := assert.New(t)
	x := mat.NewDense(4, 2, []float64{
		1, 3,
		2, 3,
		3, 3,
		4, 3,
	})

	s := &StandardScaler{}
	require.NoError(t, s.Fit(x))
	assert.InDelta(2.5, s.Mean[0], 1e-12)
	assert.Equal(float64(3), s.Mean[1])
	assert.InDelta(math.Sqrt(1.25), s.Scale[0], 1e-12)
	assert.Equal(float64(1), s.Scale[1])

	out, err := s.Transform(x)
	require.NoError(t, err)
	assert.InDelta(-1.5/math.Sqrt(1.25), out.At(0, 0), 1e-12)
	assert.Equal(float64(0), out.At(3, 1))

	_, err = (&StandardScaler{}).Transform(x)
	assert.ErrorIs(err, ErrNotFitted)
}

func TestLinearRegression_ConstantFeatures(t *testing.T) {
	assert := assert.New(t)
	x := mat.NewDense(3, 2, []float64{
		1, 7,
		1, 7,
		1, 7,
	})
	y := mat.NewDense(3, 2, []float64{
		1, 10,
		2, 20,
		3, 30,
	})

	m := NewLinearRegression()
	require.NoError(t, m.Fit(x, y))
	assert.Equal([]float64{2, 20}, m.Intercept)

	pred, err := m.Predict(mat.NewDense(1, 2, []float64{4, 4}))
	require.NoError(t, err)
	assert.Equal(float64(2), pred.At(0, 0))
	assert.Equal(float64(20), pred.At(0, 1))
}

func TestTrees(t *testing.T) {
	x, y := mockData(200)
	tests := []struct {
		name      string
		estimator func() Estimator
		expect    func(t *testing.T, e Estimator)
	}{
		{
			name: "random forest",
			estimator: func() Estimator {
				return NewRandomForest(mockOptions().Forest)
			},
			expect: func(t *testing.T, e Estimator) {
				forest := e.(*RandomForest)
				assert.Len(t, forest.Trees, 10)
				for _, tree := range forest.Trees {
					assert.LessOrEqual(t, tree.Depth(), DefaultForestMaxDepth)
				}
			},
		},
		{
			name: "hist gradient boosting",
			estimator: func() Estimator {
				return NewHistGradientBoosting(mockOptions().Boosting)
			},
			expect: func(t *testing.T, e Estimator) {
				booster := e.(*HistGradientBoosting)
				assert.NotEmpty(t, booster.Trees)
				assert.LessOrEqual(t, len(booster.Trees), 50)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			e := tc.estimator()
			_, err := e.Predict(x)
			assert.ErrorIs(err, ErrNotFitted)

			target := mat.Col(nil, 2, y)
			require.NoError(t, e.Fit(x, target))
			tc.expect(t, e)

			pred, err := e.Predict(x)
			require.NoError(t, err)
			for i := range pred {
				assert.InDelta(target[i], pred[i], 1)
			}

			_, err = e.Predict(mat.NewDense(1, 2, nil))
			assert.Error(err)
		})
	}
}

func TestRandomForest_Deterministic(t *testing.T) {
	x, y := mockData(100)
	target := mat.Col(nil, 0, y)

	first := NewRandomForest(mockOptions().Forest)
	second := NewRandomForest(mockOptions().Forest)
	require.NoError(t, first.Fit(x, target))
	require.NoError(t, second.Fit(x, target))

	p1, err := first.Predict(x)
	require.NoError(t, err)
	p2, err := second.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestBuildTree(t *testing.T) {
	assert := assert.New(t)
	x := mat.NewDense(6, 1, []float64{1, 2, 3, 10, 11, 12})
	target := []float64{0, 0, 0, 5, 5, 5}

	mapper := newBinMapper(x, DefaultMaxBins)
	assert.Equal([]float64{1.5, 2.5, 6.5, 10.5, 11.5}, mapper.thresholds[0])

	tree := buildTree(mapper, mapper.transform(x), target, []int{0, 1, 2, 3, 4, 5}, 3, 2)
	assert.Equal(1, tree.Depth())
	assert.Equal(6.5, tree.Nodes[0].Threshold)
	assert.Equal(float64(0), tree.PredictRow([]float64{6.5}))
	assert.Equal(float64(5), tree.PredictRow([]float64{7}))

	constant := buildTree(mapper, mapper.transform(x), []float64{1, 1, 1, 1, 1, 1}, []int{0, 1, 2, 3, 4, 5}, 3, 2)
	assert.Len(constant.Nodes, 1)
}

func TestBinThresholds(t *testing.T) {
	assert := assert.New(t)
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i)
	}

	thresholds := binThresholds(values, 4)
	assert.Equal([]float64{250, 500, 750}, thresholds)
	assert.Empty(binThresholds([]float64{3, 3, math.NaN()}, 4))
}

func TestMultiOutput(t *testing.T) {
	assert := assert.New(t)
	x, y := mockData(150)

	m := NewMultiOutput(RandomForestName, func() *RandomForest {
		return NewRandomForest(mockOptions().Forest)
	})
	_, err := m.Predict(x)
	assert.ErrorIs(err, ErrNotFitted)

	assert.Error(m.Fit(x, mat.NewDense(3, 3, nil)))
	require.NoError(t, m.Fit(x, y))
	assert.Len(m.Estimators, 3)

	pred, err := m.Predict(x)
	require.NoError(t, err)
	rows, cols := pred.Dims()
	assert.Equal(150, rows)
	assert.Equal(3, cols)
}

func TestCandidates(t *testing.T) {
	assert := assert.New(t)
	candidates := Candidates(DefaultOptions())

	var names []string
	for _, candidate := range candidates {
		names = append(names, candidate.Name)
		assert.Equal(candidate.Name, candidate.New().Name())
	}
	assert.Equal([]string{LinearRegressionName, RandomForestName, HistGradientBoostingName}, names)

	_, ok := Lookup("svm", DefaultOptions())
	assert.False(ok)
}

func TestMarshal(t *testing.T) {
	x, y := mockData(80)
	for _, candidate := range Candidates(mockOptions()) {
		t.Run(candidate.Name, func(t *testing.T) {
			assert := assert.New(t)
			m := candidate.New()
			require.NoError(t, m.Fit(x, y))

			data, err := Marshal(m)
			require.NoError(t, err)

			decoded, err := Unmarshal(data)
			require.NoError(t, err)
			assert.Equal(m.Name(), decoded.Name())

			expected, err := m.Predict(x)
			require.NoError(t, err)
			got, err := decoded.Predict(x)
			require.NoError(t, err)
			assert.True(mat.EqualApprox(expected, got, 1e-9))
		})
	}
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "invalid json",
			data: "{",
		},
		{
			name: "unknown kind",
			data: `{"kind":"svm","state":{}}`,
		},
		{
			name: "invalid state",
			data: `{"kind":"linear_regression","state":{"coef":"foo"}}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}
