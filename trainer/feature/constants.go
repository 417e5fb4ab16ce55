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

package feature

import "github.com/solarcast/solarcast/pkg/schema"

const (
	// TestSetPercent is the held-out share of the chronological split.
	TestSetPercent = 0.2

	// HourPeriod is the period of the hour encoding.
	HourPeriod = schema.HourPeriod

	// MonthPeriod is the period of the month encoding.
	MonthPeriod = schema.MonthPeriod

	// DayOfYearPeriod is the period of the day-of-year encoding.
	DayOfYearPeriod = schema.DayOfYearPeriod
)

// timeLayouts are tried in order when parsing the datetime column.
var timeLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// missingValues are cells read as NaN.
var missingValues = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"NA":   {},
	"null": {},
}
