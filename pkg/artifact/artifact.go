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

package artifact

import (
	"time"

	"github.com/solarcast/solarcast/pkg/models"
	"github.com/solarcast/solarcast/pkg/schema"
)

// Artifact is a fitted model bundled with the schema it was trained on.
type Artifact struct {
	// Model is the fitted winning model.
	Model models.Model

	// Schema is the exact feature contract of the training run.
	Schema *schema.Schema

	// Metadata describes the training run.
	Metadata Metadata
}

// Metadata is persisted as the bundle manifest.
type Metadata struct {
	// Version is the unique id of the training run.
	Version string `yaml:"version" json:"version"`

	// TrainedAt is the time the winner was refit.
	TrainedAt time.Time `yaml:"trainedAt" json:"trained_at"`

	// ModelName is the registry identifier of the model.
	ModelName string `yaml:"modelName" json:"model_name"`

	// Targets is the ordered model outputs.
	Targets []string `yaml:"targets" json:"targets"`

	// Dataset is the name of the training dataset.
	Dataset string `yaml:"dataset" json:"dataset"`

	// DatasetRows is the number of rows after cleaning.
	DatasetRows int `yaml:"datasetRows" json:"dataset_rows"`

	// TrainRows is the size of the training partition.
	TrainRows int `yaml:"trainRows" json:"train_rows"`

	// TestRows is the size of the held-out partition.
	TestRows int `yaml:"testRows" json:"test_rows"`

	// MeanR2 is the held-out mean coefficient of determination of the model.
	MeanR2 float64 `yaml:"meanR2" json:"mean_r2"`

	// SchemaFingerprint is the fingerprint of the bundled schema.
	SchemaFingerprint string `yaml:"schemaFingerprint" json:"schema_fingerprint"`

	// ModelDigest is the digest of the bundled model file.
	ModelDigest string `yaml:"modelDigest" json:"model_digest"`
}
