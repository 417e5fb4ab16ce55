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

package service

import (
	"math"

	"github.com/solarcast/solarcast/predictor/config"
	"github.com/solarcast/solarcast/predictor/synthesizer"
	"github.com/solarcast/solarcast/predictor/types"
)

// Outputs are the model predictions of one vector.
type Outputs struct {
	DCPowerKW float64
	ACPowerKW float64
	EnergyKWh float64
}

// PeakSunHours returns the daily peak sun hours at the latitude.
func PeakSunHours(latitude float64) float64 {
	switch lat := math.Abs(latitude); {
	case lat < 15:
		return 6.0
	case lat < 30:
		return 5.5
	case lat < 45:
		return 4.5
	default:
		return 3.5
	}
}

// InstallationCost returns the cost of a system before and after subsidy.
func InstallationCost(capacityKW float64) (float64, float64) {
	var costPerKW float64
	switch {
	case capacityKW <= SmallSystemKW:
		costPerKW = SmallSystemCost
	case capacityKW <= MediumSystemKW:
		costPerKW = MediumSystemCost
	default:
		costPerKW = LargeSystemCost
	}

	gross := capacityKW * costPerKW
	var subsidy float64
	switch {
	case capacityKW <= SmallSystemKW:
		subsidy = gross * SmallSubsidyRate
	case capacityKW <= MediumSystemKW:
		subsidy = SmallSystemKW*costPerKW*SmallSubsidyRate + (capacityKW-SmallSystemKW)*costPerKW*MediumSubsidyRate
	default:
		subsidy = SmallSystemKW*costPerKW*SmallSubsidyRate + (MediumSystemKW-SmallSystemKW)*costPerKW*MediumSubsidyRate
	}

	return gross, gross - subsidy
}

// PaybackYears returns the years until the net installation cost is saved.
func PaybackYears(capacityKW, annualSavings float64) float64 {
	if annualSavings <= 0 {
		return NoPaybackYears
	}

	_, net := InstallationCost(capacityKW)
	return round(net/annualSavings, 1)
}

// Estimate derives the business metrics of the model outputs.
func Estimate(in types.Inputs, f synthesizer.Factors, out Outputs, financial config.FinancialConfig) *types.Predictions {
	psh := PeakSunHours(in.Latitude)
	combined := f.Combined()
	daily := out.EnergyKWh * psh * combined
	annual := daily * DaysPerYear

	var systemEfficiency, capacityFactor float64
	if in.CapacityKW > 0 {
		systemEfficiency = annual / (in.CapacityKW * psh * DaysPerYear) * 100
		capacityFactor = annual / (in.CapacityKW * HoursPerYear) * 100
	}

	savings := annual * financial.Tariff
	p := &types.Predictions{
		Instantaneous: types.Instantaneous{
			DCPowerKW:       round(out.DCPowerKW, 4),
			ACPowerKW:       round(out.ACPowerKW, 4),
			HourlyEnergyKWh: round(out.EnergyKWh, 4),
		},
		Daily: types.Daily{
			EnergyKWh:   round(daily, 2),
			PeakPowerKW: round(out.ACPowerKW, 2),
		},
		Annual: types.Annual{
			EnergyKWh: round(annual, 0),
			EnergyMWh: round(annual/1000, 2),
		},
		Efficiency: types.Efficiency{
			SystemEfficiencyPercent: round(systemEfficiency, 2),
			CapacityFactorPercent:   round(capacityFactor, 2),
			PerformanceRatio:        round(combined*PerformanceRatioBase, 3),
			DegradationFactor:       round(f.Age, 3),
			SoilingLossPercent:      round((1-f.Soiling)*100, 2),
			OrientationEfficiency:   round(f.AzimuthEfficiency, 3),
			TiltEfficiency:          round(f.TiltEfficiency, 3),
		},
		Financial: types.Financial{
			AnnualSavings:   round(savings, 0),
			MonthlySavings:  round(savings/12, 0),
			LifetimeSavings: round(savings*float64(financial.LifetimeYears)*financial.LifetimeFactor, 0),
			LifetimeYears:   financial.LifetimeYears,
			CostPerKWh:      financial.Tariff,
			Currency:        financial.Currency,
			PaybackYears:    PaybackYears(in.CapacityKW, savings),
		},
	}

	if in.MonthlyConsumptionKWh > 0 {
		coverage := round(annual/(in.MonthlyConsumptionKWh*12)*100, 2)
		p.ConsumptionCoveragePercent = &coverage
	}

	return p
}

// NewInputFeatures echoes the resolved inputs.
func NewInputFeatures(in types.Inputs, f synthesizer.Factors) *types.InputFeatures {
	return &types.InputFeatures{
		Latitude:              in.Latitude,
		Longitude:             in.Longitude,
		Tilt:                  in.Tilt,
		Azimuth:               in.Azimuth,
		AreaM2:                in.AreaM2,
		SystemCapacityKW:      in.CapacityKW,
		PanelAgeYears:         in.PanelAgeYears,
		DaysSinceCleaning:     in.DaysSinceCleaning,
		MonthlyConsumptionKWh: in.MonthlyConsumptionKWh,
		PeakSunHours:          round(PeakSunHours(in.Latitude), 2),
		CombinedEfficiency:    round(f.Combined(), 3),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
