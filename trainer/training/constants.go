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

package training

const (
	// ToleranceEpsilon keeps the tolerance ratio finite for zero actuals.
	ToleranceEpsilon = 1e-8

	// SamplePredictionCount is the number of held-out rows echoed in the report.
	SamplePredictionCount = 5

	// SampleTimeLayout is the datetime layout of sample predictions.
	SampleTimeLayout = "2006-01-02 15:04:05"
)
