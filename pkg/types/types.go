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

const (
	// MetricsNamespace is the namespace of metrics.
	MetricsNamespace = "solarcast"

	// TrainerMetricsName is the name of trainer metrics.
	TrainerMetricsName = "trainer"

	// PredictorMetricsName is the name of predictor metrics.
	PredictorMetricsName = "predictor"
)

const (
	// TrainerName is the name of trainer.
	TrainerName = "trainer"

	// PredictorName is the name of predictor.
	PredictorName = "predictor"
)

const (
	// TrainerEnvPrefix is the environment prefix of trainer config.
	TrainerEnvPrefix = "SOLARCAST_TRAINER"

	// PredictorEnvPrefix is the environment prefix of predictor config.
	PredictorEnvPrefix = "SOLARCAST_PREDICTOR"
)
