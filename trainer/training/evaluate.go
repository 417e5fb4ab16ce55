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
	"errors"
	"math"

	"github.com/montanaflynn/stats"
)

// Eval is the evaluation of one target on the held-out partition.
type Eval struct {
	// MAE mean absolute error.
	MAE float64 `json:"mae"`

	// MSE mean square error.
	MSE float64 `json:"mse"`

	// RMSE Root Mean Square Error.
	RMSE float64 `json:"rmse"`

	// R² coefficient of determination.
	R2 float64 `json:"r2"`

	// MAPE mean absolute percentage error over non-zero actuals.
	MAPE float64 `json:"mape"`

	// NRMSE is RMSE normalized by the mean actual, in percent.
	NRMSE float64 `json:"nrmse"`

	// Within5Percent is the share of predictions within 5% of the actual, in percent.
	Within5Percent float64 `json:"within_5_percent"`

	// Within10Percent is the share of predictions within 10% of the actual, in percent.
	Within10Percent float64 `json:"within_10_percent"`
}

// Evaluate computes the classical and efficiency metrics of pred against actual.
func Evaluate(actual, pred []float64) (*Eval, error) {
	if len(actual) == 0 || len(actual) != len(pred) {
		return nil, errors.New("evaluation requires equal non-empty actual and predicted values")
	}

	n := float64(len(actual))
	absErrs := make(stats.Float64Data, len(actual))
	sqErrs := make(stats.Float64Data, len(actual))

	var (
		pctErrs  []float64
		within5  int
		within10 int
	)
	for i, a := range actual {
		diff := a - pred[i]
		absErrs[i] = math.Abs(diff)
		sqErrs[i] = diff * diff

		if a != 0 {
			pctErrs = append(pctErrs, math.Abs(diff/a))
		}

		tolerance := math.Abs(diff/(a+ToleranceEpsilon)) * 100
		if tolerance <= 5 {
			within5++
		}
		if tolerance <= 10 {
			within10++
		}
	}

	e := &Eval{}
	e.MAE, _ = absErrs.Mean()
	e.MSE, _ = sqErrs.Mean()
	e.RMSE = math.Sqrt(e.MSE)

	sse, _ := sqErrs.Sum()
	mean, _ := stats.Mean(actual)
	var tss float64
	for _, a := range actual {
		tss += (a - mean) * (a - mean)
	}

	switch {
	case tss != 0:
		e.R2 = 1 - sse/tss
	case sse == 0:
		e.R2 = 1
	default:
		e.R2 = 0
	}

	if len(pctErrs) > 0 {
		mape, _ := stats.Mean(pctErrs)
		e.MAPE = mape * 100
	}

	if mean != 0 {
		e.NRMSE = e.RMSE / mean * 100
	}

	e.Within5Percent = float64(within5) / n * 100
	e.Within10Percent = float64(within10) / n * 100
	if err := e.CheckEval(); err != nil {
		return nil, err
	}

	return e, nil
}

// CheckEval rejects non-finite metrics.
func (e *Eval) CheckEval() error {
	for _, v := range []float64{e.MAE, e.MSE, e.RMSE, e.R2, e.MAPE, e.NRMSE, e.Within5Percent, e.Within10Percent} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("model NAN")
		}
	}

	return nil
}
