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

package trainer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/pkg/scpath"
	"github.com/solarcast/solarcast/trainer/config"
	"github.com/solarcast/solarcast/trainer/feature"
	"github.com/solarcast/solarcast/trainer/metrics"
	"github.com/solarcast/solarcast/trainer/storage"
	"github.com/solarcast/solarcast/trainer/training"
)

type Server struct {
	// Server configuration.
	config *config.Config

	// Metrics server.
	metricsServer *http.Server

	// Storage interface.
	storage storage.Storage

	// Artifact store.
	store artifact.Store

	// Training interface.
	training training.Training

	// Directory of the metrics table when the report is printed.
	artifactDir string

	// Report output when no report path is configured.
	stdout io.Writer

	// Context of the training job, canceled by Stop.
	ctx    context.Context
	cancel context.CancelFunc
}

// Option is a functional option for configuring the server.
type Option func(s *Server)

// WithStdout sets the writer the report is printed to when no report path is configured.
func WithStdout(w io.Writer) Option {
	return func(s *Server) {
		s.stdout = w
	}
}

func New(ctx context.Context, cfg *config.Config, d scpath.Scpath, options ...Option) (*Server, error) {
	s := &Server{
		config:      cfg,
		artifactDir: d.ArtifactDir(),
		stdout:      os.Stdout,
	}
	for _, opt := range options {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(ctx)

	// Initialize Storage.
	s.storage = storage.New(d.DataDir())

	// Initialize artifact store.
	s.store = artifact.New(d.ArtifactDir())

	// Initialize training.
	s.training = training.New(cfg, s.store)

	// Initialize metrics.
	if cfg.Metrics.Enable {
		s.metricsServer = metrics.New(&cfg.Metrics)
	}

	return s, nil
}

// Serve runs one training job and writes its report.
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

	report, err := s.run(s.ctx)
	if err != nil {
		return err
	}

	return s.writeReport(report)
}

func (s *Server) run(ctx context.Context) (*training.Report, error) {
	path := s.config.Training.Dataset
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	if err := s.storage.CreateDataset(name, file); err != nil {
		return nil, fmt.Errorf("store dataset: %w", err)
	}

	table, err := s.storage.LoadDataset(name)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	log := logger.WithDataset(name, len(table.Rows))
	log.Infof("loaded %d columns from %s", len(table.Columns), path)

	dataset, err := feature.Engineer(table,
		feature.WithDatasetName(name),
		feature.WithTargets(s.config.Training.Targets...),
	)
	if err != nil {
		return nil, err
	}

	log.Infof("engineered %d features: %s", dataset.Schema.Len(), dataset.Schema.String())
	return s.training.Train(ctx, dataset)
}

func (s *Server) writeReport(report *training.Report) error {
	metricsPath := filepath.Join(s.artifactDir, config.DefaultMetricsFileName)
	if path := s.config.Training.Report; path != "" {
		if err := writeFile(path, report.WriteJSON); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		metricsPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
		logger.Infof("report written to %s", path)
	} else if err := report.WriteJSON(s.stdout); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := writeFile(metricsPath, report.WriteCSV); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	logger.Infof("metrics written to %s", metricsPath)
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

func (s *Server) Stop() {
	s.cancel()

	// Clean storage file.
	if err := s.storage.Clear(); err != nil {
		logger.Errorf("clean storage file failed %s", err.Error())
	} else {
		logger.Info("clean storage file completed")
	}

	// Stop metrics server.
	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(context.Background()); err != nil {
			logger.Errorf("metrics server failed to stop: %s", err.Error())
		} else {
			logger.Info("metrics server closed under request")
		}
	}
}
