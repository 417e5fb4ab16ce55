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
	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/pkg/schema"
	"github.com/solarcast/solarcast/predictor/types"
)

// Synthesizer builds model feature vectors from inference requests.
type Synthesizer struct {
	policy Policy
}

// New returns a synthesizer estimating conditions with the policy.
func New(policy Policy) *Synthesizer {
	return &Synthesizer{policy: policy}
}

// Policy returns the condition policy.
func (s *Synthesizer) Policy() Policy {
	return s.policy
}

// Synthesize derives every known feature of the request and projects them onto the schema.
func (s *Synthesizer) Synthesize(req *types.PredictRequest, sc *schema.Schema) (schema.Vector, Factors, error) {
	in := req.Resolve()
	f := NewFactors(in)
	candidates := s.candidates(in, f)

	v := make(schema.Vector, sc.Len())
	var missing []string
	for _, name := range sc.Fields() {
		value, ok := candidates[name]
		if !ok {
			missing = append(missing, name)
			continue
		}

		v[name] = value
	}

	if len(missing) > 0 {
		return nil, Factors{}, scerrors.NewSchemaMismatch("features can not be derived from the request", missing)
	}

	return v, f, nil
}

func (s *Synthesizer) candidates(in types.Inputs, f Factors) schema.Vector {
	c := s.policy.Conditions(in, f)
	orientation := f.TiltEfficiency * f.AzimuthEfficiency
	poaGlobal := c.GHI * 0.85 * orientation

	v := schema.Vector{
		schema.FieldYear:             ReferenceYear,
		schema.FieldMonth:            ReferenceMonth,
		schema.FieldDay:              ReferenceDay,
		schema.FieldHour:             ReferenceHour,
		schema.FieldLatitude:         in.Latitude,
		schema.FieldLongitude:        in.Longitude,
		schema.FieldTilt:             in.Tilt,
		schema.FieldAzimuth:          in.Azimuth,
		schema.FieldSystemCapacityKW: in.CapacityKW,
		schema.FieldGHI:              c.GHI,
		schema.FieldDNI:              c.DNI,
		schema.FieldDHI:              c.DHI,
		schema.FieldTempAir:          c.TempAir,
		schema.FieldWindSpeed:        c.WindSpeed,
		schema.FieldHumidity:         c.Humidity,
		schema.FieldSunElevation:     c.SunElevation,
		schema.FieldSunAzimuth:       c.SunAzimuth,
		schema.FieldSunZenith:        c.SunZenith,
		schema.FieldPOAGlobal:        poaGlobal,
		schema.FieldPOADirect:        c.DNI * 0.6 * orientation,
		schema.FieldPOADiffuse:       c.DHI * 1.2,
		schema.FieldPOASkyDiffuse:    c.DHI * 1.1,
		schema.FieldPOAGroundDiffuse: c.GHI * 0.1 * in.Tilt / 90,
		schema.FieldCellTemperature:  c.TempAir + poaGlobal/800*30,
		schema.FieldPerformanceRatio: BasePerformanceRatio * f.Degradation(),
	}

	v[schema.FieldHourSin], v[schema.FieldHourCos] = schema.Cyclical(ReferenceHour, schema.HourPeriod)
	v[schema.FieldMonthSin], v[schema.FieldMonthCos] = schema.Cyclical(ReferenceMonth, schema.MonthPeriod)
	v[schema.FieldDOYSin], v[schema.FieldDOYCos] = schema.Cyclical(ReferenceDayOfYear, schema.DayOfYearPeriod)
	return v
}
