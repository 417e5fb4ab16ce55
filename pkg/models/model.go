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
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotFitted is returned when predicting with a model that has not been fitted.
	ErrNotFitted = errors.New("model is not fitted")

	// ErrEmptyInput is returned when fitting on zero rows or zero columns.
	ErrEmptyInput = errors.New("empty input matrix")
)

// Model is a multi-output regressor.
type Model interface {
	// Name returns the registry identifier of the model.
	Name() string

	// Fit fits the model on features x and targets y, one column per target.
	Fit(x, y *mat.Dense) error

	// Predict returns one row of predictions per row of x, one column per target.
	Predict(x *mat.Dense) (*mat.Dense, error)
}

// Estimator is a single-output regressor.
type Estimator interface {
	Fit(x *mat.Dense, y []float64) error
	Predict(x *mat.Dense) ([]float64, error)
}

func checkFit(x *mat.Dense, n int) error {
	if x == nil {
		return ErrEmptyInput
	}

	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return ErrEmptyInput
	}

	if rows != n {
		return fmt.Errorf("features have %d rows, targets have %d", rows, n)
	}

	return nil
}

func checkPredict(x *mat.Dense, features int) error {
	if x == nil {
		return ErrEmptyInput
	}

	if _, cols := x.Dims(); cols != features {
		return fmt.Errorf("model expects %d features, got %d", features, cols)
	}

	return nil
}
