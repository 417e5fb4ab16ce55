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
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"

	"github.com/solarcast/solarcast/internal/scerrors"
	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/models"
	"github.com/solarcast/solarcast/trainer/config"
	"github.com/solarcast/solarcast/trainer/feature"
	"github.com/solarcast/solarcast/trainer/metrics"
)

//go:generate mockgen -destination mocks/training_mock.go -source training.go -package mocks

// Training defines the interface to train the candidate models.
type Training interface {
	// Train evaluates every candidate, refits the winner and saves it as the current artifact.
	Train(context.Context, *feature.Dataset) (*Report, error)
}

// training implements Training interface.
type training struct {
	// Trainer service config.
	config *config.Config

	// Artifact store.
	store artifact.Store

	// Registered candidates, in selection order.
	candidates []models.Candidate
}

// New returns a new Training.
func New(cfg *config.Config, store artifact.Store, options ...Option) Training {
	t := &training{
		config:     cfg,
		store:      store,
		candidates: models.Candidates(cfg.Training.Models),
	}

	for _, o := range options {
		o(t)
	}

	return t
}

// Train evaluates every candidate, refits the winner and saves it as the current artifact.
func (t *training) Train(ctx context.Context, dataset *feature.Dataset) (*Report, error) {
	metrics.TrainingCount.Inc()
	report, err := t.train(ctx, dataset)
	if err != nil {
		metrics.TrainingFailureCount.Inc()
		logger.Errorf("training failed: %s", err.Error())
		return nil, err
	}

	return report, nil
}

func (t *training) train(ctx context.Context, dataset *feature.Dataset) (*Report, error) {
	if len(t.candidates) == 0 {
		return nil, errors.New("no candidates registered")
	}

	trainRows, testRows := dataset.Split(t.config.Training.TestPercent)
	if len(trainRows) == 0 || len(testRows) == 0 {
		return nil, scerrors.Newf(scerrors.DataInsufficiency, "dataset of %d rows can not be split into train and test partitions", dataset.Len())
	}

	xTrain, yTrain, err := dataset.Matrices(trainRows)
	if err != nil {
		return nil, err
	}

	xTest, yTest, err := dataset.Matrices(testRows)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Metadata: ReportMetadata{
			Dataset:      dataset.Name,
			DatasetRows:  dataset.Len(),
			TrainRows:    len(trainRows),
			TestRows:     len(testRows),
			NumFeatures:  dataset.Schema.Len(),
			FeatureNames: dataset.Schema.Fields(),
			Targets:      dataset.Schema.Targets(),
		},
		BestByTarget: make(map[string]string),
	}

	logger.WithDataset(dataset.Name, dataset.Len()).Infof("training %d candidates on %d rows, testing on %d rows", len(t.candidates), len(trainRows), len(testRows))

	var (
		best     *Evaluation
		bestNew  func() models.Model
		failures *multierror.Error
	)
	for _, candidate := range t.candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		evaluation := t.evaluate(candidate, dataset, testRows, xTrain, yTrain, xTest, yTest)
		report.Evaluations = append(report.Evaluations, evaluation)
		if evaluation.Failed() {
			failures = multierror.Append(failures, fmt.Errorf("%s: %s", evaluation.Model, evaluation.Error))
			continue
		}

		if best == nil || evaluation.MeanR2 > best.MeanR2 {
			best, bestNew = evaluation, candidate.New
		}
	}

	if best == nil {
		return nil, fmt.Errorf("all candidates failed: %w", failures.ErrorOrNil())
	}

	report.BestModel = best.Model
	report.BestMeanR2 = best.MeanR2
	for _, target := range report.Metadata.Targets {
		var bestMAE *Evaluation
		for _, evaluation := range report.Evaluations {
			if evaluation.Failed() {
				continue
			}

			if bestMAE == nil || evaluation.Metrics[target].MAE < bestMAE.Metrics[target].MAE {
				bestMAE = evaluation
			}
		}

		report.BestByTarget[target] = bestMAE.Model
	}

	log := logger.WithModel(best.Model)
	log.Infof("selected with mean r2 %.4f, refitting", best.MeanR2)

	// Refit a fresh instance on the training partition.
	winner := bestNew()
	if err := winner.Fit(xTrain, yTrain); err != nil {
		return nil, fmt.Errorf("refit %s: %w", best.Model, err)
	}

	trainedAt := time.Now().UTC()
	a := &artifact.Artifact{
		Model:  winner,
		Schema: dataset.Schema,
		Metadata: artifact.Metadata{
			TrainedAt:   trainedAt,
			Dataset:     dataset.Name,
			DatasetRows: dataset.Len(),
			TrainRows:   len(trainRows),
			TestRows:    len(testRows),
			MeanR2:      best.MeanR2,
		},
	}

	metrics.SaveArtifactCount.Inc()
	if err := t.store.Save(a); err != nil {
		metrics.SaveArtifactFailureCount.Inc()
		return nil, fmt.Errorf("save artifact: %w", err)
	}

	report.Metadata.TrainedAt = trainedAt
	report.Artifact = ArtifactInfo{
		Version: a.Metadata.Version,
		Path:    t.store.Path(),
	}

	log.Infof("artifact %s saved to %s", report.Artifact.Version, report.Artifact.Path)
	return report, nil
}

// evaluate fits a fresh candidate on the training partition and scores it on the test partition.
func (t *training) evaluate(candidate models.Candidate, dataset *feature.Dataset, testRows []int, xTrain, yTrain, xTest, yTest *mat.Dense) *Evaluation {
	log := logger.WithModel(candidate.Name)
	evaluation := &Evaluation{Model: candidate.Name}
	metrics.EvaluateCount.WithLabelValues(candidate.Name).Inc()

	fail := func(err error) *Evaluation {
		metrics.EvaluateFailureCount.WithLabelValues(candidate.Name).Inc()
		log.Errorf("evaluation failed: %s", err.Error())
		evaluation.Error = err.Error()
		evaluation.Metrics = nil
		return evaluation
	}

	m := candidate.New()
	start := time.Now()
	if err := m.Fit(xTrain, yTrain); err != nil {
		return fail(fmt.Errorf("fit: %w", err))
	}

	elapsed := time.Since(start)
	evaluation.TrainingTime = elapsed.Seconds()
	metrics.FitDuration.WithLabelValues(candidate.Name).Observe(elapsed.Seconds())

	pred, err := m.Predict(xTest)
	if err != nil {
		return fail(fmt.Errorf("predict: %w", err))
	}

	targets := dataset.Schema.Targets()
	evaluation.Metrics = make(map[string]*Eval, len(targets))
	r2s := make(stats.Float64Data, 0, len(targets))
	for j, target := range targets {
		e, err := Evaluate(mat.Col(nil, j, yTest), mat.Col(nil, j, pred))
		if err != nil {
			return fail(fmt.Errorf("evaluate %s: %w", target, err))
		}

		evaluation.Metrics[target] = e
		r2s = append(r2s, e.R2)
		if log.IsDebug() {
			log.Debugf("%s r2 %.4f mae %.4f rmse %.4f", target, e.R2, e.MAE, e.RMSE)
		}
	}

	evaluation.MeanR2, _ = r2s.Mean()
	evaluation.Samples = samplePredictions(dataset, testRows, targets, yTest, pred)
	metrics.MeanR2Gauge.WithLabelValues(candidate.Name).Set(evaluation.MeanR2)
	log.Infof("mean r2 %.4f, fit took %s", evaluation.MeanR2, elapsed)
	return evaluation
}

func samplePredictions(dataset *feature.Dataset, testRows []int, targets []string, actual, pred *mat.Dense) []*SamplePrediction {
	n := len(testRows)
	if n > SamplePredictionCount {
		n = SamplePredictionCount
	}

	samples := make([]*SamplePrediction, 0, n)
	for i := 0; i < n; i++ {
		sample := &SamplePrediction{Values: make(map[string]*SampleValue, len(targets))}
		if dataset.HasTimes() {
			sample.Datetime = dataset.Timestamp(testRows[i]).Format(SampleTimeLayout)
		}

		for j, target := range targets {
			a, p := actual.At(i, j), pred.At(i, j)
			sample.Values[target] = &SampleValue{
				Actual:    a,
				Predicted: p,
				ErrorPct:  errorPercent(a, p),
			}
		}

		samples = append(samples, sample)
	}

	return samples
}

func errorPercent(actual, pred float64) float64 {
	return math.Abs((actual-pred)/(actual+ToleranceEpsilon)) * 100
}
