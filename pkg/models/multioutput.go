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
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// MultiOutput fits one estimator per target column.
type MultiOutput[E Estimator] struct {
	name       string
	newFn      func() E
	Estimators []E `json:"estimators"`
}

// NewMultiOutput returns a multi-output model named name, building estimators with newFn.
func NewMultiOutput[E Estimator](name string, newFn func() E) *MultiOutput[E] {
	return &MultiOutput[E]{
		name:  name,
		newFn: newFn,
	}
}

func (m *MultiOutput[E]) Name() string {
	return m.name
}

// Fit fits the estimators of all targets in parallel.
func (m *MultiOutput[E]) Fit(x, y *mat.Dense) error {
	if err := checkFit(x, rowsOf(y)); err != nil {
		return err
	}

	_, targets := y.Dims()
	estimators := make([]E, targets)
	eg := errgroup.Group{}
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for t := 0; t < targets; t++ {
		t := t
		eg.Go(func() error {
			estimator := m.newFn()
			if err := estimator.Fit(x, mat.Col(nil, t, y)); err != nil {
				return fmt.Errorf("fit target %d: %w", t, err)
			}

			estimators[t] = estimator
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	m.Estimators = estimators
	return nil
}

func (m *MultiOutput[E]) Predict(x *mat.Dense) (*mat.Dense, error) {
	if len(m.Estimators) == 0 {
		return nil, ErrNotFitted
	}

	rows := rowsOf(x)
	if rows == 0 {
		return nil, ErrEmptyInput
	}

	out := mat.NewDense(rows, len(m.Estimators), nil)
	for t, estimator := range m.Estimators {
		col, err := estimator.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("predict target %d: %w", t, err)
		}

		out.SetCol(t, col)
	}

	return out, nil
}
