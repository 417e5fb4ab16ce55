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

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/atomic"
	"gonum.org/v1/gonum/mat"

	"github.com/solarcast/solarcast/internal/scerrors"
	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/models"
	"github.com/solarcast/solarcast/pkg/schema"
	"github.com/solarcast/solarcast/predictor/config"
	"github.com/solarcast/solarcast/predictor/metrics"
	"github.com/solarcast/solarcast/predictor/synthesizer"
	"github.com/solarcast/solarcast/predictor/types"
)

//go:generate mockgen -destination mocks/service_mock.go -source service.go -package mocks

// Service is the interface used for inference.
type Service interface {
	// Predict runs one inference. Failures are reported in the response.
	Predict(context.Context, *types.PredictRequest) *types.PredictResponse

	// CurrentModel describes the loaded artifact.
	CurrentModel(context.Context) (*types.ModelResponse, error)
}

type service struct {
	// Predictor service config.
	config *config.Config

	// Artifact store.
	store artifact.Store

	// Loaded artifact, nil when none was trained.
	artifact *artifact.Artifact

	// Feature synthesizer.
	synthesizer *synthesizer.Synthesizer

	// Number of predictions in flight.
	inflight *atomic.Int64
}

// New loads the current artifact and returns a new Service.
// A missing artifact is tolerated and reported by every prediction.
func New(cfg *config.Config, store artifact.Store, synthesizer *synthesizer.Synthesizer) (Service, error) {
	s := &service{
		config:      cfg,
		store:       store,
		synthesizer: synthesizer,
		inflight:    atomic.NewInt64(0),
	}
	logger.Infof("estimating conditions with %s policy", synthesizer.Policy().Name())

	a, err := store.Load()
	if err != nil {
		if !scerrors.CheckError(err, scerrors.ArtifactNotFound) {
			return nil, err
		}

		logger.Warnf("no artifact loaded: %s", err.Error())
		return s, nil
	}

	s.artifact = a
	metrics.ArtifactGauge.WithLabelValues(a.Metadata.ModelName, a.Metadata.Version).Set(1)
	logger.WithArtifact(a.Metadata.Version, store.Path()).Infof("loaded %s trained at %s with %s", a.Metadata.ModelName, a.Metadata.TrainedAt, a.Schema.String())
	return s, nil
}

// Predict runs one inference. Failures are reported in the response.
func (s *service) Predict(ctx context.Context, req *types.PredictRequest) (resp *types.PredictResponse) {
	metrics.PredictCount.Inc()
	metrics.InFlightPredictGauge.Set(float64(s.inflight.Inc()))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			resp = types.NewErrorResponse(scerrors.Newf(scerrors.PredictionFailure, "prediction panicked: %v", r))
		}

		if !resp.Success {
			metrics.PredictFailureCount.WithLabelValues(string(resp.Code)).Inc()
			logger.Errorf("prediction failed: [%s]%s", resp.Code, resp.Error)
		}

		metrics.InFlightPredictGauge.Set(float64(s.inflight.Dec()))
		metrics.PredictDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	resp, err := s.predict(ctx, req)
	if err != nil {
		return types.NewErrorResponse(err)
	}

	return resp
}

func (s *service) predict(ctx context.Context, req *types.PredictRequest) (*types.PredictResponse, error) {
	if req == nil {
		req = &types.PredictRequest{}
	}

	if err := req.Validate(); err != nil {
		return nil, scerrors.New(scerrors.InvalidArgument, err.Error())
	}

	if s.artifact == nil {
		return nil, s.notFound()
	}

	if err := ctx.Err(); err != nil {
		return nil, scerrors.New(scerrors.PredictionFailure, err.Error())
	}

	v, f, err := s.synthesizer.Synthesize(req, s.artifact.Schema)
	if err != nil {
		return nil, err
	}

	if logger.IsDebug() {
		logger.Debugf("synthesized %s features: %v", s.synthesizer.Policy().Name(), v)
	}

	out, err := s.outputs(v)
	if err != nil {
		return nil, err
	}

	in := req.Resolve()
	meta := s.artifact.Metadata
	return &types.PredictResponse{
		Success:     true,
		Predictions: Estimate(in, f, out, s.config.Financial),
		ModelInfo: &types.ModelInfo{
			ModelName: meta.ModelName,
			Version:   meta.Version,
			TrainedAt: meta.TrainedAt,
			MeanR2:    meta.MeanR2,
			Targets:   s.artifact.Schema.Targets(),
		},
		InputFeatures: NewInputFeatures(in, f),
	}, nil
}

// outputs runs the model on one vector and looks the targets up by name.
func (s *service) outputs(v schema.Vector) (Outputs, error) {
	row, err := s.artifact.Schema.Row(v)
	if err != nil {
		return Outputs{}, err
	}

	pred, err := predict(s.artifact.Model, mat.NewDense(1, len(row), row))
	if err != nil {
		return Outputs{}, scerrors.New(scerrors.PredictionFailure, err.Error())
	}

	targets := s.artifact.Schema.Targets()
	if _, cols := pred.Dims(); cols != len(targets) {
		return Outputs{}, scerrors.Newf(scerrors.PredictionFailure, "model predicted %d targets, schema has %d", cols, len(targets))
	}

	values := make(map[string]float64, len(targets))
	for j, target := range targets {
		value := pred.At(0, j)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return Outputs{}, scerrors.Newf(scerrors.PredictionFailure, "model predicted non-finite %s", target)
		}

		values[target] = value
	}

	var out Outputs
	for _, target := range []struct {
		name  string
		value *float64
	}{
		{schema.TargetDCPowerKW, &out.DCPowerKW},
		{schema.TargetACPowerKW, &out.ACPowerKW},
		{schema.TargetEnergyKWh, &out.EnergyKWh},
	} {
		value, ok := values[target.name]
		if !ok {
			return Outputs{}, scerrors.Newf(scerrors.PredictionFailure, "model does not predict %s", target.name)
		}

		*target.value = value
	}

	return out, nil
}

// predict recovers model panics as errors.
func predict(m models.Model, x *mat.Dense) (pred *mat.Dense, err error) {
	defer func() {
		if r := recover(); r != nil {
			pred, err = nil, fmt.Errorf("model %s panicked: %v", m.Name(), r)
		}
	}()

	return m.Predict(x)
}

// CurrentModel describes the loaded artifact.
func (s *service) CurrentModel(ctx context.Context) (*types.ModelResponse, error) {
	if s.artifact == nil {
		return nil, s.notFound()
	}

	return &types.ModelResponse{
		Metadata: s.artifact.Metadata,
		Schema:   s.artifact.Schema,
	}, nil
}

func (s *service) notFound() error {
	return scerrors.Newf(scerrors.ArtifactNotFound, "model file not found at %s. please train the model first.", s.store.Path())
}
