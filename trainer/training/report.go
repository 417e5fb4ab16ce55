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

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

// Report is the outcome of a training run.
type Report struct {
	// Metadata describes the dataset and the split.
	Metadata ReportMetadata `json:"metadata"`

	// Evaluations holds one entry per candidate in registration order.
	Evaluations []*Evaluation `json:"evaluations"`

	// BestModel is the candidate with the highest mean R².
	BestModel string `json:"best_model"`

	// BestMeanR2 is the mean R² of the best model.
	BestMeanR2 float64 `json:"best_mean_r2"`

	// BestByTarget is the candidate with the lowest MAE of every target.
	BestByTarget map[string]string `json:"best_by_target"`

	// Artifact locates the saved bundle.
	Artifact ArtifactInfo `json:"artifact"`
}

type ReportMetadata struct {
	Dataset      string    `json:"dataset"`
	DatasetRows  int       `json:"dataset_rows"`
	TrainRows    int       `json:"train_rows"`
	TestRows     int       `json:"test_rows"`
	NumFeatures  int       `json:"num_features"`
	FeatureNames []string  `json:"feature_names"`
	Targets      []string  `json:"targets"`
	TrainedAt    time.Time `json:"trained_at"`
}

type ArtifactInfo struct {
	Version string `json:"version"`
	Path    string `json:"path"`
}

// Evaluation is the held-out evaluation of one candidate.
type Evaluation struct {
	// Model is the candidate name.
	Model string `json:"model"`

	// Metrics is the evaluation of every target.
	Metrics map[string]*Eval `json:"metrics,omitempty"`

	// MeanR2 is the mean R² across targets.
	MeanR2 float64 `json:"mean_r2"`

	// TrainingTime is the fit duration in seconds.
	TrainingTime float64 `json:"training_time_seconds"`

	// Samples is the predictions of the first held-out rows.
	Samples []*SamplePrediction `json:"sample_predictions,omitempty"`

	// Error is set when the candidate failed and was excluded from selection.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the candidate was excluded from selection.
func (e *Evaluation) Failed() bool {
	return e.Error != ""
}

type SamplePrediction struct {
	Datetime string                  `json:"datetime,omitempty"`
	Values   map[string]*SampleValue `json:"values"`
}

type SampleValue struct {
	Actual    float64 `json:"actual"`
	Predicted float64 `json:"predicted"`
	ErrorPct  float64 `json:"error_pct"`
}

// MetricRecord is one row of the metrics table.
type MetricRecord struct {
	Model           string  `csv:"model"`
	Target          string  `csv:"target"`
	MAE             float64 `csv:"mae"`
	RMSE            float64 `csv:"rmse"`
	R2              float64 `csv:"r2"`
	MAPE            float64 `csv:"mape"`
	NRMSE           float64 `csv:"nrmse"`
	Within5Percent  float64 `csv:"within_5_percent"`
	Within10Percent float64 `csv:"within_10_percent"`
	TrainingTime    float64 `csv:"training_time_seconds"`
}

// WriteJSON writes the report as indented json.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// Records flattens the evaluations into metric rows, targets in schema order.
func (r *Report) Records() []*MetricRecord {
	var records []*MetricRecord
	for _, evaluation := range r.Evaluations {
		if evaluation.Failed() {
			continue
		}

		for _, target := range r.Metadata.Targets {
			e, ok := evaluation.Metrics[target]
			if !ok {
				continue
			}

			records = append(records, &MetricRecord{
				Model:           evaluation.Model,
				Target:          target,
				MAE:             e.MAE,
				RMSE:            e.RMSE,
				R2:              e.R2,
				MAPE:            e.MAPE,
				NRMSE:           e.NRMSE,
				Within5Percent:  e.Within5Percent,
				Within10Percent: e.Within10Percent,
				TrainingTime:    evaluation.TrainingTime,
			})
		}
	}

	return records
}

// WriteCSV writes the metrics table as csv.
func (r *Report) WriteCSV(w io.Writer) error {
	return gocsv.Marshal(r.Records(), w)
}
