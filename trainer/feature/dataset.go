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

package feature

import (
	"time"

	"github.com/sjwhitworth/golearn/base"
	"gonum.org/v1/gonum/mat"

	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/pkg/schema"
)

// Dataset is the engineered training data, rows sorted by time.
type Dataset struct {
	// Name is the source dataset name.
	Name string

	// Instances holds one float attribute per feature and one class attribute per target.
	Instances *base.DenseInstances

	// Schema is the feature contract of the dataset.
	Schema *schema.Schema

	// Times is the timestamp of every row, nil when the source has none.
	Times []time.Time

	fieldSpecs  []base.AttributeSpec
	targetSpecs []base.AttributeSpec
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	_, rows := d.Instances.Size()
	return rows
}

// HasTimes reports whether rows carry timestamps.
func (d *Dataset) HasTimes() bool {
	return d.Times != nil
}

// Timestamp returns the timestamp of a row, or the zero time.
func (d *Dataset) Timestamp(row int) time.Time {
	if !d.HasTimes() {
		return time.Time{}
	}

	return d.Times[row]
}

// Split partitions rows chronologically, the first rows train and the rest test.
func (d *Dataset) Split(testPercent float64) ([]int, []int) {
	n := d.Len()
	cut := int(float64(n) * (1 - testPercent))
	if cut < 0 {
		cut = 0
	}
	if cut > n {
		cut = n
	}

	train := make([]int, 0, cut)
	for i := 0; i < cut; i++ {
		train = append(train, i)
	}

	test := make([]int, 0, n-cut)
	for i := cut; i < n; i++ {
		test = append(test, i)
	}

	return train, test
}

// Features returns the feature values of a row in schema order.
func (d *Dataset) Features(row int) []float64 {
	return d.read(d.fieldSpecs, row)
}

// Targets returns the target values of a row in schema order.
func (d *Dataset) Targets(row int) []float64 {
	return d.read(d.targetSpecs, row)
}

// Matrices returns the feature and target matrices of the given rows.
func (d *Dataset) Matrices(rows []int) (*mat.Dense, *mat.Dense, error) {
	if len(rows) == 0 {
		return nil, nil, scerrors.New(scerrors.DataInsufficiency, "no rows selected")
	}

	x := mat.NewDense(len(rows), len(d.fieldSpecs), nil)
	y := mat.NewDense(len(rows), len(d.targetSpecs), nil)
	for i, row := range rows {
		x.SetRow(i, d.Features(row))
		y.SetRow(i, d.Targets(row))
	}

	return x, y, nil
}

func (d *Dataset) read(specs []base.AttributeSpec, row int) []float64 {
	values := make([]float64, len(specs))
	for i, spec := range specs {
		values[i] = base.UnpackBytesToFloat(d.Instances.Get(spec, row))
	}

	return values
}
