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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarcast/solarcast/pkg/artifact"
	"github.com/solarcast/solarcast/trainer/config"
	"github.com/solarcast/solarcast/trainer/training"
)

type mockScpath struct {
	dir string
}

func (d *mockScpath) WorkHome() string          { return d.dir }
func (d *mockScpath) WorkHomeMode() fs.FileMode { return 0700 }
func (d *mockScpath) ConfigDir() string         { return d.dir }
func (d *mockScpath) LogDir() string            { return d.dir }
func (d *mockScpath) DataDir() string           { return d.dir }
func (d *mockScpath) DataDirMode() fs.FileMode  { return 0700 }
func (d *mockScpath) ArtifactDir() string       { return filepath.Join(d.dir, "artifacts") }

func mockDatasetFile(t *testing.T, dir string) string {
	var buf bytes.Buffer
	buf.WriteString("datetime,HR,ghi,temp_air,dc_power_kw,ac_power_kw,energy_kwh\n")
	for i := 0; i < 48; i++ {
		hour := i % 24
		ghi := 0
		if hour >= 6 && hour <= 18 {
			ghi = 100 * (6 - abs(hour-12))
		}
		dc := float64(ghi) / 200
		fmt.Fprintf(&buf, "2025-06-%02d %02d:00:00,%d,%d,%d,%g,%g,%g\n", 1+i/24, hour, hour, ghi, 20+ghi/100, dc, dc*0.96, dc*0.96)
	}

	path := filepath.Join(dir, "foo.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func mockConfig(dataset, report string) *config.Config {
	cfg := config.New()
	cfg.Training.Dataset = dataset
	cfg.Training.Report = report
	cfg.Training.Models.Forest.NEstimators = 3
	cfg.Training.Models.Boosting.MaxIter = 10
	return cfg
}

func TestServer_Serve(t *testing.T) {
	tests := []struct {
		name   string
		report string
		expect func(t *testing.T, s *Server, stdout *bytes.Buffer, dir string, err error)
	}{
		{
			name: "print report to stdout",
			expect: func(t *testing.T, s *Server, stdout *bytes.Buffer, dir string, err error) {
				assert := assert.New(t)
				require.NoError(t, err)

				var report training.Report
				assert.NoError(json.Unmarshal(stdout.Bytes(), &report))
				assert.Equal("foo", report.Metadata.Dataset)
				assert.Equal(48, report.Metadata.DatasetRows)
				assert.Len(report.Evaluations, 3)
				assert.NotEmpty(report.Artifact.Version)

				a, err := artifact.New(filepath.Join(dir, "artifacts")).Load()
				assert.NoError(err)
				assert.Equal(report.BestModel, a.Metadata.ModelName)
				assert.Equal(report.Metadata.FeatureNames, a.Schema.Fields())

				metrics, err := os.ReadFile(filepath.Join(dir, "artifacts", config.DefaultMetricsFileName))
				assert.NoError(err)
				assert.Len(strings.Split(strings.TrimSpace(string(metrics)), "\n"), 10)
			},
		},
		{
			name:   "write report to file",
			report: "report.json",
			expect: func(t *testing.T, s *Server, stdout *bytes.Buffer, dir string, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Empty(stdout.Bytes())

				data, err := os.ReadFile(filepath.Join(dir, "report.json"))
				assert.NoError(err)
				var report training.Report
				assert.NoError(json.Unmarshal(data, &report))
				assert.NotEmpty(report.BestModel)

				_, err = os.Stat(filepath.Join(dir, "report.csv"))
				assert.NoError(err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			report := tc.report
			if report != "" {
				report = filepath.Join(dir, report)
			}

			d := &mockScpath{dir: dir}
			require.NoError(t, os.MkdirAll(d.ArtifactDir(), 0700))

			stdout := &bytes.Buffer{}
			s, err := New(context.Background(), mockConfig(mockDatasetFile(t, dir), report), d, WithStdout(stdout))
			require.NoError(t, err)
			defer s.Stop()

			tc.expect(t, s, stdout, dir, s.Serve())
		})
	}
}

func TestServer_ServeMissingDataset(t *testing.T) {
	dir := t.TempDir()
	s, err := New(context.Background(), mockConfig(filepath.Join(dir, "bar.csv"), ""), &mockScpath{dir: dir})
	require.NoError(t, err)
	defer s.Stop()

	err = s.Serve()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "open dataset")
}
