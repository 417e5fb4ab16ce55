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

package predictor

import (
	"context"
	"net/http"
	"time"

	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/scpath"
	"github.com/solarcast/solarcast/predictor/config"
	"github.com/solarcast/solarcast/predictor/metrics"
	"github.com/solarcast/solarcast/predictor/router"
	"github.com/solarcast/solarcast/predictor/service"
	"github.com/solarcast/solarcast/predictor/synthesizer"
)

const (
	// gracefulStopTimeout specifies a time limit for
	// the rest server to complete a graceful stop.
	gracefulStopTimeout = 10 * time.Second
)

type Server struct {
	// Server configuration.
	config *config.Config

	// Inference service.
	service service.Service

	// REST server.
	restServer *http.Server

	// Metrics server.
	metricsServer *http.Server
}

func New(ctx context.Context, cfg *config.Config, d scpath.Scpath) (*Server, error) {
	s := &Server{config: cfg}

	// Initialize inference service.
	svc, err := NewService(cfg, d)
	if err != nil {
		return nil, err
	}
	s.service = svc

	// Initialize REST server.
	s.restServer = &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router.Init(cfg, svc),
	}

	// Initialize metrics.
	if cfg.Metrics.Enable {
		s.metricsServer = metrics.New(&cfg.Metrics)
	}

	return s, nil
}

// NewService loads the current artifact and returns the inference service.
func NewService(cfg *config.Config, d scpath.Scpath) (service.Service, error) {
	policy, err := synthesizer.NewPolicy(cfg.Synthesizer.Policy)
	if err != nil {
		return nil, err
	}

	return service.New(cfg, artifact.New(d.ArtifactDir()), synthesizer.New(policy))
}

func (s *Server) Serve() error {
	// Started metrics server.
	if s.metricsServer != nil {
		go func() {
			logger.Infof("started metrics server at %s", s.metricsServer.Addr)
			if err := s.metricsServer.ListenAndServe(); err != nil {
				if err == http.ErrServerClosed {
					return
				}

				logger.Fatalf("metrics server closed unexpect: %s", err.Error())
			}
		}()
	}

	// Started REST server.
	logger.Infof("started rest server at %s", s.restServer.Addr)
	if err := s.restServer.ListenAndServe(); err != nil {
		if err == http.ErrServerClosed {
			return nil
		}

		logger.Errorf("rest server closed unexpect: %s", err.Error())
		return err
	}

	return nil
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulStopTimeout)
	defer cancel()

	// Stop REST server.
	if err := s.restServer.Shutdown(ctx); err != nil {
		logger.Errorf("rest server failed to stop: %s", err.Error())
	} else {
		logger.Info("rest server closed under request")
	}

	// Stop metrics server.
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(ctx); err != nil {
			logger.Errorf("metrics server failed to stop: %s", err.Error())
		} else {
			logger.Info("metrics server closed under request")
		}
	}
}
