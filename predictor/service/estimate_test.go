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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solarcast/solarcast/predictor/config"
	"github.com/solarcast/solarcast/predictor/synthesizer"
	"github.com/solarcast/solarcast/predictor/types"
)

func TestPeakSunHours(t *testing.T) {
	tests := []struct {
		latitude float64
		expect   float64
	}{
		{latitude: 5, expect: 6.0},
		{latitude: -14.9, expect: 6.0},
		{latitude: 15, expect: 5.5},
		{latitude: 29.9, expect: 5.5},
		{latitude: 40.79, expect: 4.5},
		{latitude: 45, expect: 3.5},
		{latitude: -50, expect: 3.5},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expect, PeakSunHours(tc.latitude), tc.latitude)
	}
}

func TestInstallationCost(t *testing.T) {
	tests := []struct {
		name       string
		capacityKW float64
		gross      float64
		net        float64
	}{
		{name: "small system", capacityKW: 2, gross: 150000, net: 90000},
		{name: "medium system", capacityKW: 5, gross: 325000, net: 325000 - 78000 - 26000},
		{name: "large system", capacityKW: 20, gross: 1100000, net: 1100000 - 66000 - 77000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gross, net := InstallationCost(tc.capacityKW)
			assert.InDelta(t, tc.gross, gross, 1e-6)
			assert.InDelta(t, tc.net, net, 1e-6)
		})
	}
}

func TestPaybackYears(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(float64(NoPaybackYears), PaybackYears(5, 0))
	assert.Equal(float64(NoPaybackYears), PaybackYears(5, -1))
	assert.Equal(9.0, PaybackYears(2, 10000))
}

func TestEstimate(t *testing.T) {
	financial := config.New().Financial
	tests := []struct {
		name   string
		req    *types.PredictRequest
		out    Outputs
		expect func(t *testing.T, p *types.Predictions)
	}{
		{
			name: "default request",
			req:  &types.PredictRequest{},
			out:  Outputs{DCPowerKW: 4.12346, ACPowerKW: 3.95678, EnergyKWh: 3.95678},
			expect: func(t *testing.T, p *types.Predictions) {
				assert := assert.New(t)
				combined := 1 - 10.79/90
				daily := 3.95678 * 4.5 * combined
				annual := daily * 365

				assert.Equal(4.1235, p.Instantaneous.DCPowerKW)
				assert.Equal(3.9568, p.Instantaneous.HourlyEnergyKWh)
				assert.InDelta(daily, p.Daily.EnergyKWh, 0.005)
				assert.Equal(3.96, p.Daily.PeakPowerKW)
				assert.Equal(math.Round(annual), p.Annual.EnergyKWh)
				assert.InDelta(annual/1000, p.Annual.EnergyMWh, 0.005)
				assert.InDelta(annual/(5*4.5*365)*100, p.Efficiency.SystemEfficiencyPercent, 0.005)
				assert.InDelta(annual/(5*8760)*100, p.Efficiency.CapacityFactorPercent, 0.005)
				assert.Equal(0.748, p.Efficiency.PerformanceRatio)
				assert.Equal(1.0, p.Efficiency.DegradationFactor)
				assert.Equal(0.0, p.Efficiency.SoilingLossPercent)
				assert.Equal(0.88, p.Efficiency.TiltEfficiency)
				assert.Equal(math.Round(annual*6.5), p.Financial.AnnualSavings)
				assert.Equal(math.Round(annual*6.5/12), p.Financial.MonthlySavings)
				assert.Equal(math.Round(annual*6.5*25*0.95), p.Financial.LifetimeSavings)
				assert.Equal("INR", p.Financial.Currency)
				assert.Equal(PaybackYears(5, annual*6.5), p.Financial.PaybackYears)
				assert.Nil(p.ConsumptionCoveragePercent)
			},
		},
		{
			name: "zero outputs",
			req: &types.PredictRequest{
				System: &types.System{DaysSinceCleaning: float(120)},
			},
			out: Outputs{},
			expect: func(t *testing.T, p *types.Predictions) {
				assert := assert.New(t)
				assert.Equal(0.0, p.Annual.EnergyKWh)
				assert.Equal(0.0, p.Efficiency.SystemEfficiencyPercent)
				assert.Equal(15.0, p.Efficiency.SoilingLossPercent)
				assert.Equal(float64(NoPaybackYears), p.Financial.PaybackYears)
			},
		},
		{
			name: "consumption coverage",
			req: &types.PredictRequest{
				Location: &types.Location{Latitude: float(5)},
				Roof:     &types.Roof{Tilt: float(5)},
				Energy:   &types.Energy{MonthlyConsumptionKWh: float(100)},
			},
			out: Outputs{EnergyKWh: 1},
			expect: func(t *testing.T, p *types.Predictions) {
				assert := assert.New(t)
				annual := 6.0 * 365
				assert.Equal(annual, p.Annual.EnergyKWh)
				if assert.NotNil(p.ConsumptionCoveragePercent) {
					assert.InDelta(annual/1200*100, *p.ConsumptionCoveragePercent, 0.005)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.req.Resolve()
			tc.expect(t, Estimate(in, synthesizer.NewFactors(in), tc.out, financial))
		})
	}
}

func TestNewInputFeatures(t *testing.T) {
	in := (&types.PredictRequest{Location: &types.Location{Latitude: float(50)}}).Resolve()
	features := NewInputFeatures(in, synthesizer.NewFactors(in))

	assert := assert.New(t)
	assert.Equal(3.5, features.PeakSunHours)
	assert.Equal(50.0, features.Latitude)
	assert.Equal(types.DefaultCapacityKW, features.SystemCapacityKW)
	assert.Equal(round(1-20.0/90, 3), features.CombinedEfficiency)
}
