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

import (
	"math"

	"github.com/solarcast/solarcast/predictor/types"
)

// Factors are the efficiency multipliers derived from the request.
type Factors struct {
	Age               float64
	Soiling           float64
	TiltEfficiency    float64
	AzimuthEfficiency float64
}

// NewFactors derives the efficiency multipliers of the resolved inputs.
func NewFactors(in types.Inputs) Factors {
	return Factors{
		Age:               1 - AgeDegradationPerYear*in.PanelAgeYears,
		Soiling:           1 - math.Min(in.DaysSinceCleaning/SoilingDays, MaxSoilingLoss),
		TiltEfficiency:    1 - math.Abs(in.Tilt-math.Abs(in.Latitude))/90,
		AzimuthEfficiency: 1 - math.Abs(in.Azimuth-180)/180*MaxAzimuthLoss,
	}
}

// Combined is the product of every factor.
func (f Factors) Combined() float64 {
	return f.TiltEfficiency * f.AzimuthEfficiency * f.Age * f.Soiling
}

// Degradation is the product of the age and soiling factors.
func (f Factors) Degradation() float64 {
	return f.Age * f.Soiling
}
