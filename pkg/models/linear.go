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

	"github.com/ezoic/scigo/linear"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// LinearRegression is a standard scaler followed by one scigo least squares fit per target.
// Fitted coefficients are kept in scaled feature space.
type LinearRegression struct {
	Scaler    *StandardScaler `json:"scaler"`
	Coef      [][]float64     `json:"coef"`
	Intercept []float64       `json:"intercept"`
}

// NewLinearRegression returns an unfitted linear regression.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

func (l *LinearRegression) Name() string {
	return LinearRegressionName
}

// Fit scales x and fits every target on the varying features. Constant features get a zero coefficient.
func (l *LinearRegression) Fit(x, y *mat.Dense) error {
	if err := checkFit(x, rowsOf(y)); err != nil {
		return err
	}

	scaler := &StandardScaler{}
	if err := scaler.Fit(x); err != nil {
		return err
	}

	xs, err := scaler.Transform(x)
	if err != nil {
		return err
	}

	rows, features := xs.Dims()
	_, targets := y.Dims()
	active := varying(xs)
	coef := make([][]float64, targets)
	intercept := make([]float64, targets)
	for t := 0; t < targets; t++ {
		coef[t] = make([]float64, features)
		if len(active) == 0 {
			intercept[t] = stat.Mean(mat.Col(nil, t, y), nil)
			continue
		}

		reg := linear.NewLinearRegression()
		if err := reg.Fit(selectColumns(xs, active), mat.NewDense(rows, 1, mat.Col(nil, t, y))); err != nil {
			return fmt.Errorf("fit target %d: %w", t, err)
		}

		// The fitted hyperplane is read back at the origin and the unit vectors.
		out, err := reg.Predict(unitRows(len(active)))
		if err != nil {
			return fmt.Errorf("read target %d: %w", t, err)
		}

		intercept[t] = out.At(0, 0)
		for k, j := range active {
			coef[t][j] = out.At(k+1, 0) - intercept[t]
		}
	}

	l.Scaler, l.Coef, l.Intercept = scaler, coef, intercept
	return nil
}

func (l *LinearRegression) Predict(x *mat.Dense) (*mat.Dense, error) {
	if l.Scaler == nil || l.Coef == nil {
		return nil, ErrNotFitted
	}

	xs, err := l.Scaler.Transform(x)
	if err != nil {
		return nil, err
	}

	rows, _ := xs.Dims()
	out := mat.NewDense(rows, len(l.Coef), nil)
	for i := 0; i < rows; i++ {
		row := xs.RawRowView(i)
		for t, coef := range l.Coef {
			v := l.Intercept[t]
			for j, c := range coef {
				v += c * row[j]
			}

			out.Set(i, t, v)
		}
	}

	return out, nil
}
