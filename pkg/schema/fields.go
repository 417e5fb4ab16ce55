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

package schema

import "math"

// Identifier columns, never used as features.
const (
	FieldDatetime = "datetime"
)

// Time component columns.
const (
	FieldYear  = "YEAR"
	FieldMonth = "MO"
	FieldDay   = "DY"
	FieldHour  = "HR"
)

// Site and system columns.
const (
	FieldLatitude         = "latitude"
	FieldLongitude        = "longitude"
	FieldTilt             = "tilt"
	FieldAzimuth          = "azimuth"
	FieldSystemCapacityKW = "system_capacity_kw"
)

// Irradiance and weather columns supplied by the solar geometry collaborator.
const (
	FieldGHI              = "ghi"
	FieldDNI              = "dni"
	FieldDHI              = "dhi"
	FieldTempAir          = "temp_air"
	FieldWindSpeed        = "wind_speed"
	FieldHumidity         = "humidity"
	FieldSunElevation     = "sun_elevation"
	FieldSunAzimuth       = "sun_azimuth"
	FieldSunZenith        = "sun_zenith"
	FieldPOAGlobal        = "poa_global"
	FieldPOADirect        = "poa_direct"
	FieldPOADiffuse       = "poa_diffuse"
	FieldPOASkyDiffuse    = "poa_sky_diffuse"
	FieldPOAGroundDiffuse = "poa_ground_diffuse"
	FieldCellTemperature  = "cell_temperature"
	FieldPerformanceRatio = "performance_ratio"
)

// Cyclical time encodings derived by the feature engineer.
const (
	FieldHourSin  = "hour_sin"
	FieldHourCos  = "hour_cos"
	FieldMonthSin = "month_sin"
	FieldMonthCos = "month_cos"
	FieldDOYSin   = "doy_sin"
	FieldDOYCos   = "doy_cos"
)

// Periods of the cyclical time encodings.
const (
	HourPeriod      = 24
	MonthPeriod     = 12
	DayOfYearPeriod = 365
)

// Cyclical encodes value on a circle of the given period.
func Cyclical(value, period float64) (float64, float64) {
	angle := 2 * math.Pi * value / period
	return math.Sin(angle), math.Cos(angle)
}

// Regression targets.
const (
	TargetDCPowerKW = "dc_power_kw"
	TargetACPowerKW = "ac_power_kw"
	TargetEnergyKWh = "energy_kwh"
)

// DefaultTargets returns the default regression targets in output order.
func DefaultTargets() []string {
	return []string{TargetDCPowerKW, TargetACPowerKW, TargetEnergyKWh}
}

// IrradianceFields returns the columns clipped to non-negative values.
func IrradianceFields() []string {
	return []string{FieldGHI, FieldDNI, FieldDHI, FieldPOAGlobal, FieldPOADirect, FieldPOADiffuse}
}

// IdentifierFields returns the columns that never become features.
func IdentifierFields() []string {
	return []string{FieldDatetime}
}
