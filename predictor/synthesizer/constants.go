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

package synthesizer

const (
	// LatitudePolicyName scales irradiance and weather by latitude.
	LatitudePolicyName = "latitude"

	// FlatPolicyName uses location independent irradiance and weather.
	FlatPolicyName = "flat"
)

// Base irradiance in W/m².
const (
	BaseGHI = 600.0
	BaseDNI = 850.0
	BaseDHI = 150.0
)

// Reference time of synthesized vectors.
const (
	ReferenceYear      = 2025
	ReferenceMonth     = 6
	ReferenceDay       = 15
	ReferenceHour      = 12
	ReferenceDayOfYear = 165
)

const (
	// AgeDegradationPerYear is the yearly output loss of a panel.
	AgeDegradationPerYear = 0.005

	// SoilingDays is the number of days until the maximum soiling loss.
	SoilingDays = 90.0

	// MaxSoilingLoss is the maximum loss of an uncleaned panel.
	MaxSoilingLoss = 0.15

	// MaxAzimuthLoss is the loss of a panel facing away from south.
	MaxAzimuthLoss = 0.2

	// BasePerformanceRatio is the performance ratio of a new clean system.
	BasePerformanceRatio = 0.85
)
