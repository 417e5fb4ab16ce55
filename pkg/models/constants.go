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

package models

const (
	// DefaultForestEstimators is the default number of bagged trees.
	DefaultForestEstimators = 50

	// DefaultForestMaxDepth is the default depth of bagged trees.
	DefaultForestMaxDepth = 10

	// DefaultBoostingMaxDepth is the default depth of boosted trees.
	DefaultBoostingMaxDepth = 8

	// DefaultBoostingMaxIter is the default number of boosting iterations.
	DefaultBoostingMaxIter = 200

	// DefaultLearningRate is the default shrinkage of boosted trees.
	DefaultLearningRate = 0.1

	// DefaultMinSamplesLeaf is the default minimum number of rows in a leaf.
	DefaultMinSamplesLeaf = 2

	// DefaultMaxBins is the default histogram bin count per feature.
	DefaultMaxBins = 255

	// DefaultSeed is the default random seed of bootstrap sampling.
	DefaultSeed = 42
)
