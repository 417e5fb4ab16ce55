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

import "github.com/solarcast/solarcast/pkg/schema"

// Options is the engineering options.
type Options struct {
	// Targets is the regression target columns, in output order.
	Targets []string

	// IrradianceColumns is the columns clipped to non-negative values.
	IrradianceColumns []string

	// DatasetName is used in logs only.
	DatasetName string
}

// Option is a functional option for Engineer.
type Option func(options *Options)

// WithTargets sets the target columns.
func WithTargets(targets ...string) Option {
	return func(options *Options) {
		options.Targets = targets
	}
}

// WithIrradianceColumns sets the clipped irradiance columns.
func WithIrradianceColumns(columns ...string) Option {
	return func(options *Options) {
		options.IrradianceColumns = columns
	}
}

// WithDatasetName sets the dataset name for logs.
func WithDatasetName(name string) Option {
	return func(options *Options) {
		options.DatasetName = name
	}
}

func defaultOptions() *Options {
	return &Options{
		Targets:           schema.DefaultTargets(),
		IrradianceColumns: schema.IrradianceFields(),
	}
}
