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
	"fmt"
	"math"

	"github.com/solarcast/solarcast/predictor/types"
)

// Conditions are the estimated irradiance and weather at the panel.
type Conditions struct {
	GHI          float64
	DNI          float64
	DHI          float64
	TempAir      float64
	WindSpeed    float64
	Humidity     float64
	SunElevation float64
	SunAzimuth   float64
	SunZenith    float64
}

// Policy estimates the conditions a request does not carry.
type Policy interface {
	// Name returns the policy name.
	Name() string

	// Conditions estimates the conditions of the resolved inputs.
	Conditions(types.Inputs, Factors) Conditions
}

// NewPolicy returns the policy registered under name.
func NewPolicy(name string) (Policy, error) {
	switch name {
	case LatitudePolicyName, "":
		return &LatitudePolicy{}, nil
	case FlatPolicyName:
		return &FlatPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown synthesizer policy %q", name)
	}
}

// LatitudePolicy lowers irradiance toward the poles and adjusts weather by latitude.
type LatitudePolicy struct{}

func (p *LatitudePolicy) Name() string {
	return LatitudePolicyName
}

func (p *LatitudePolicy) Conditions(in types.Inputs, f Factors) Conditions {
	lat := math.Abs(in.Latitude)
	scale := (1 - lat/90*0.4) * f.Degradation()
	elevation := 90 - lat + 15

	return Conditions{
		GHI:          BaseGHI * scale,
		DNI:          BaseDNI * scale,
		DHI:          BaseDHI * scale,
		TempAir:      25 + (lat-20)*0.2,
		WindSpeed:    2.5 + lat/30*0.5,
		Humidity:     math.Max(30, 70-lat),
		SunElevation: elevation,
		SunAzimuth:   in.Azimuth,
		SunZenith:    90 - elevation,
	}
}

// FlatPolicy ignores the location.
type FlatPolicy struct{}

func (p *FlatPolicy) Name() string {
	return FlatPolicyName
}

func (p *FlatPolicy) Conditions(in types.Inputs, f Factors) Conditions {
	scale := f.Degradation()
	return Conditions{
		GHI:          BaseGHI * scale,
		DNI:          BaseDNI * scale,
		DHI:          BaseDHI * scale,
		TempAir:      25,
		WindSpeed:    2.5,
		Humidity:     50,
		SunElevation: 60,
		SunAzimuth:   180,
		SunZenith:    30,
	}
}
