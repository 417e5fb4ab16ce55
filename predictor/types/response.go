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
	"errors"
	"time"

	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/schema"
)

// PredictResponse is the inference result. Exactly one of Error and Predictions is set.
type PredictResponse struct {
	Success bool `json:"success"`

	Error  string        `json:"error,omitempty"`
	Code   scerrors.Code `json:"code,omitempty"`
	Fields []string      `json:"fields,omitempty"`

	Predictions   *Predictions   `json:"predictions,omitempty"`
	ModelInfo     *ModelInfo     `json:"model_info,omitempty"`
	InputFeatures *InputFeatures `json:"input_features,omitempty"`
}

type Predictions struct {
	Instantaneous Instantaneous `json:"instantaneous"`
	Daily         Daily         `json:"daily"`
	Annual        Annual        `json:"annual"`
	Efficiency    Efficiency    `json:"efficiency"`
	Financial     Financial     `json:"financial"`

	// ConsumptionCoveragePercent is set when a monthly consumption is supplied.
	ConsumptionCoveragePercent *float64 `json:"consumption_coverage_percent,omitempty"`
}

type Instantaneous struct {
	DCPowerKW       float64 `json:"dc_power_kw"`
	ACPowerKW       float64 `json:"ac_power_kw"`
	HourlyEnergyKWh float64 `json:"hourly_energy_kwh"`
}

type Daily struct {
	EnergyKWh   float64 `json:"energy_kwh"`
	PeakPowerKW float64 `json:"peak_power_kw"`
}

type Annual struct {
	EnergyKWh float64 `json:"energy_kwh"`
	EnergyMWh float64 `json:"energy_mwh"`
}

type Efficiency struct {
	SystemEfficiencyPercent float64 `json:"system_efficiency_percent"`
	CapacityFactorPercent   float64 `json:"capacity_factor_percent"`
	PerformanceRatio        float64 `json:"performance_ratio"`
	DegradationFactor       float64 `json:"degradation_factor"`
	SoilingLossPercent      float64 `json:"soiling_loss_percent"`
	OrientationEfficiency   float64 `json:"orientation_efficiency"`
	TiltEfficiency          float64 `json:"tilt_efficiency"`
}

type Financial struct {
	AnnualSavings   float64 `json:"annual_savings"`
	MonthlySavings  float64 `json:"monthly_savings"`
	LifetimeSavings float64 `json:"lifetime_savings"`
	LifetimeYears   int     `json:"lifetime_years"`
	CostPerKWh      float64 `json:"cost_per_kwh"`
	Currency        string  `json:"currency"`
	PaybackYears    float64 `json:"payback_years"`
}

type ModelInfo struct {
	ModelName string    `json:"model_name"`
	Version   string    `json:"model_version"`
	TrainedAt time.Time `json:"trained_at"`
	MeanR2    float64   `json:"mean_r2"`
	Targets   []string  `json:"targets"`
}

type InputFeatures struct {
	Latitude              float64 `json:"latitude"`
	Longitude             float64 `json:"longitude"`
	Tilt                  float64 `json:"tilt"`
	Azimuth               float64 `json:"azimuth"`
	AreaM2                float64 `json:"area_m2,omitempty"`
	SystemCapacityKW      float64 `json:"system_capacity_kw"`
	PanelAgeYears         float64 `json:"panel_age_years"`
	DaysSinceCleaning     float64 `json:"days_since_cleaning"`
	MonthlyConsumptionKWh float64 `json:"monthly_consumption_kwh,omitempty"`
	PeakSunHours          float64 `json:"peak_sun_hours"`
	CombinedEfficiency    float64 `json:"combined_efficiency"`
}

// ModelResponse describes the loaded artifact.
type ModelResponse struct {
	Metadata artifact.Metadata `json:"metadata"`
	Schema   *schema.Schema    `json:"schema"`
}

// NewErrorResponse returns a failed response carrying the code of err.
func NewErrorResponse(err error) *PredictResponse {
	resp := &PredictResponse{
		Success: false,
		Error:   err.Error(),
		Code:    scerrors.CodeOf(err),
	}

	var e *scerrors.Error
	if errors.As(err, &e) {
		resp.Error = e.Message
		resp.Fields = e.Fields
	}

	return resp
}
