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

package config

import (
	"github.com/solarcast/solarcast/predictor/synthesizer"
)

const (
	// DefaultServerAddr is default address for the rest server.
	DefaultServerAddr = ":8080"

	// DefaultMetricsAddr is default address for metrics server.
	DefaultMetricsAddr = ":8001"

	// DefaultSynthesizerPolicy is default policy of the feature synthesizer.
	DefaultSynthesizerPolicy = synthesizer.LatitudePolicyName
)

const (
	// DefaultTariff is default electricity price per kWh.
	DefaultTariff = 6.5

	// DefaultCurrency is default currency of the tariff.
	DefaultCurrency = "INR"

	// DefaultLifetimeYears is default lifetime of a system.
	DefaultLifetimeYears = 25

	// DefaultLifetimeFactor is default share of the nominal output over the lifetime.
	DefaultLifetimeFactor = 0.95
)

const (
	// DefaultLogRotateMaxSize is the default maximum size in megabytes of log files before rotation.
	DefaultLogRotateMaxSize = 1024

	// DefaultLogRotateMaxAge is the default number of days to retain old log files.
	DefaultLogRotateMaxAge = 7

	// DefaultLogRotateMaxBackups is the default number of old log files to keep.
	DefaultLogRotateMaxBackups = 20
)
