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

const (
	// HoursPerYear is the number of hours of a non-leap year.
	HoursPerYear = 8760

	// DaysPerYear is the number of days of a non-leap year.
	DaysPerYear = 365

	// PerformanceRatioBase is the performance ratio of an ideal installation.
	PerformanceRatioBase = 0.85

	// NoPaybackYears is reported when a system never pays back.
	NoPaybackYears = 999
)

// Installation cost tiers per kW.
const (
	SmallSystemKW     = 3
	MediumSystemKW    = 10
	SmallSystemCost   = 75000
	MediumSystemCost  = 65000
	LargeSystemCost   = 55000
	SmallSubsidyRate  = 0.40
	MediumSubsidyRate = 0.20
)
