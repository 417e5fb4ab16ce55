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

package types

import (
	"github.com/go-playground/validator/v10"
)

// Default inputs applied by Resolve.
const (
	DefaultLatitude          = 40.79
	DefaultLongitude         = -73.95
	DefaultTilt              = 30
	DefaultAzimuth           = 180
	DefaultCapacityKW        = 5.0
	DefaultPanelAgeYears     = 0
	DefaultDaysSinceCleaning = 0
)

// PredictRequest is the inference request. Every group and value is optional.
type PredictRequest struct {
	Location *Location `json:"location,omitempty" validate:"omitempty"`
	Roof     *Roof     `json:"roof,omitempty" validate:"omitempty"`
	System   *System   `json:"system,omitempty" validate:"omitempty"`
	Energy   *Energy   `json:"energy,omitempty" validate:"omitempty"`
}

type Location struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type Roof struct {
	Tilt    *float64 `json:"tilt,omitempty" validate:"omitempty,gte=0,lte=90"`
	Azimuth *float64 `json:"azimuth,omitempty" validate:"omitempty,gte=0,lte=360"`
	AreaM2  *float64 `json:"area_m2,omitempty" validate:"omitempty,gt=0"`
}

type System struct {
	CapacityKW        *float64 `json:"capacity_kw,omitempty" validate:"omitempty,gt=0"`
	PanelAgeYears     *float64 `json:"panel_age_years,omitempty" validate:"omitempty,gte=0,lte=100"`
	DaysSinceCleaning *float64 `json:"days_since_cleaning,omitempty" validate:"omitempty,gte=0"`
}

type Energy struct {
	MonthlyConsumptionKWh *float64 `json:"monthly_consumption_kwh,omitempty" validate:"omitempty,gte=0"`
}

// Inputs is a request with every default applied.
type Inputs struct {
	Latitude              float64
	Longitude             float64
	Tilt                  float64
	Azimuth               float64
	AreaM2                float64
	CapacityKW            float64
	PanelAgeYears         float64
	DaysSinceCleaning     float64
	MonthlyConsumptionKWh float64
}

var validate = validator.New()

// Validate checks the value ranges of the request.
func (r *PredictRequest) Validate() error {
	return validate.Struct(r)
}

// Resolve returns the request inputs with defaults applied.
func (r *PredictRequest) Resolve() Inputs {
	in := Inputs{
		Latitude:          DefaultLatitude,
		Longitude:         DefaultLongitude,
		Tilt:              DefaultTilt,
		Azimuth:           DefaultAzimuth,
		CapacityKW:        DefaultCapacityKW,
		PanelAgeYears:     DefaultPanelAgeYears,
		DaysSinceCleaning: DefaultDaysSinceCleaning,
	}

	if l := r.Location; l != nil {
		set(&in.Latitude, l.Latitude)
		set(&in.Longitude, l.Longitude)
	}

	if roof := r.Roof; roof != nil {
		set(&in.Tilt, roof.Tilt)
		set(&in.Azimuth, roof.Azimuth)
		set(&in.AreaM2, roof.AreaM2)
	}

	if s := r.System; s != nil {
		set(&in.CapacityKW, s.CapacityKW)
		set(&in.PanelAgeYears, s.PanelAgeYears)
		set(&in.DaysSinceCleaning, s.DaysSinceCleaning)
	}

	if e := r.Energy; e != nil {
		set(&in.MonthlyConsumptionKWh, e.MonthlyConsumptionKWh)
	}

	return in
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
