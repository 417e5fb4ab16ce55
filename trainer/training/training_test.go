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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/pkg/artifact"
	storemocks "github.com/solarcast/solarcast/pkg/artifact/mocks"
	"github.com/solarcast/solarcast/pkg/models"
	"github.com/solarcast/solarcast/trainer/config"
	"github.com/solarcast/solarcast/trainer/feature"
	"github.com/solarcast/solarcast/trainer/storage"
)

type mockModel struct {
	name  string
	err   error
	value float64
}

func (m *mockModel) Name() string {
	return m.name
}

func (m *mockModel) Fit(x, y *mat.Dense) error {
	return m.err
}

func (m *mockModel) Predict(x *mat.Dense) (*mat.Dense, error) {
	rows, _ := x.Dims()
	out := mat.NewDense(rows, 3, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < 3; j++ {
			out.Set(i, j, m.value)
		}
	}

	return out, nil
}

func mockCandidate(name string, err error, value float64) models.Candidate {
	return models.Candidate{
		Name: name,
		New: func() models.Model {
			return &mockModel{name: name, err: err, value: value}
		},
	}
}

func mockConfig() *config.Config {
	cfg := config.New()
	cfg.Training.Dataset = "foo.csv"
	cfg.Training.Models.Forest.NEstimators = 5
	cfg.Training.Models.Boosting.MaxIter = 20
	return cfg
}

// mockDataset returns n hourly rows where power is linear in ghi.
func mockDataset(t *testing.T, n int) *feature.Dataset {
	table := &storage.Table{
		Name:    "foo",
		Columns: []string{"datetime", "YEAR", "MO", "DY", "HR", "ghi", "temp_air", "dc_power_kw", "ac_power_kw", "energy_kwh"},
	}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		ghi := math.Max(0, 800*math.Sin(math.Pi*float64(ts.Hour()-6)/12))
		dc := ghi * 0.005
		table.Rows = append(table.Rows, []string{
			ts.Format("2006-01-02 15:04:05"),
			fmt.Sprint(ts.Year()), fmt.Sprint(int(ts.Month())), fmt.Sprint(ts.Day()), fmt.Sprint(ts.Hour()),
			fmt.Sprint(ghi), fmt.Sprint(20 + ghi/100),
			fmt.Sprint(dc), fmt.Sprint(dc * 0.96), fmt.Sprint(dc * 0.96),
		})
	}

	dataset, err := feature.Engineer(table)
	require.NoError(t, err)
	return dataset
}

func TestTraining_New(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T, s any)
	}{
		{
			name: "new training",
			run: func(t *testing.T, s any) {
				assert := assert.New(t)
				assert.Equal(reflect.TypeOf(s).Elem().Name(), "training")
				assert.Len(s.(*training).candidates, 3)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()
			store := storemocks.NewMockStore(ctl)
			tc.run(t, New(mockConfig(), store))
		})
	}
}

func TestTraining_Train(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		options []Option
		mock    func(ms *storemocks.MockStoreMockRecorder)
		expect  func(t *testing.T, report *Report, err error)
	}{
		{
			name: "train registered candidates",
			rows: 120,
			mock: func(ms *storemocks.MockStoreMockRecorder) {
				gomock.InOrder(
					ms.Save(gomock.Any()).DoAndReturn(func(a *artifact.Artifact) error {
						a.Metadata.Version = "bar"
						return nil
					}).Times(1),
					ms.Path().Return("baz").Times(1),
				)
			},
			expect: func(t *testing.T, report *Report, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Equal(120, report.Metadata.DatasetRows)
				assert.Equal(96, report.Metadata.TrainRows)
				assert.Equal(24, report.Metadata.TestRows)
				assert.Equal(report.Metadata.NumFeatures, len(report.Metadata.FeatureNames))

				var names []string
				for _, evaluation := range report.Evaluations {
					names = append(names, evaluation.Model)
					assert.False(evaluation.Failed())
					assert.Len(evaluation.Metrics, 3)
					assert.Len(evaluation.Samples, SamplePredictionCount)
					assert.GreaterOrEqual(report.BestMeanR2, evaluation.MeanR2)
				}
				assert.Equal([]string{models.LinearRegressionName, models.RandomForestName, models.HistGradientBoostingName}, names)
				assert.Contains(names, report.BestModel)
				assert.InDelta(1, report.BestMeanR2, 1e-3)
				assert.Len(report.BestByTarget, 3)
				assert.Equal("2025-06-05 00:00:00", report.Evaluations[0].Samples[0].Datetime)
				assert.Equal(ArtifactInfo{Version: "bar", Path: "baz"}, report.Artifact)
			},
		},
		{
			name: "ties go to the first registered candidate",
			rows: 20,
			options: []Option{WithCandidates(
				mockCandidate("foo", nil, 1),
				mockCandidate("bar", nil, 1),
			)},
			mock: func(ms *storemocks.MockStoreMockRecorder) {
				ms.Save(gomock.Any()).DoAndReturn(func(a *artifact.Artifact) error {
					if a.Model.Name() != "foo" {
						return errors.New("unexpected winner")
					}
					return nil
				}).Times(1)
				ms.Path().Return("baz").Times(1)
			},
			expect: func(t *testing.T, report *Report, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Equal("foo", report.BestModel)
				assert.Equal(report.Evaluations[0].MeanR2, report.Evaluations[1].MeanR2)
			},
		},
		{
			name: "failed candidate is excluded from selection",
			rows: 20,
			options: []Option{WithCandidates(
				mockCandidate("foo", errors.New("foo"), 0),
				mockCandidate("bar", nil, 1),
			)},
			mock: func(ms *storemocks.MockStoreMockRecorder) {
				ms.Save(gomock.Any()).Return(nil).Times(1)
				ms.Path().Return("baz").Times(1)
			},
			expect: func(t *testing.T, report *Report, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Equal("bar", report.BestModel)
				assert.True(report.Evaluations[0].Failed())
				assert.Equal("fit: foo", report.Evaluations[0].Error)
				assert.Equal("bar", report.BestByTarget["dc_power_kw"])
			},
		},
		{
			name: "all candidates failed",
			rows: 20,
			options: []Option{WithCandidates(
				mockCandidate("foo", errors.New("foo"), 0),
				mockCandidate("bar", errors.New("bar"), 0),
			)},
			mock: func(ms *storemocks.MockStoreMockRecorder) {},
			expect: func(t *testing.T, report *Report, err error) {
				assert := assert.New(t)
				assert.Nil(report)
				assert.Contains(err.Error(), "all candidates failed")
				assert.Contains(err.Error(), "foo: fit: foo")
				assert.Contains(err.Error(), "bar: fit: bar")
			},
		},
		{
			name:    "no candidates",
			rows:    20,
			options: []Option{WithCandidates()},
			mock:    func(ms *storemocks.MockStoreMockRecorder) {},
			expect: func(t *testing.T, report *Report, err error) {
				assert.EqualError(t, err, "no candidates registered")
			},
		},
		{
			name: "dataset too small to split",
			rows: 1,
			mock: func(ms *storemocks.MockStoreMockRecorder) {},
			expect: func(t *testing.T, report *Report, err error) {
				assert.True(t, scerrors.CheckError(err, scerrors.DataInsufficiency))
			},
		},
		{
			name: "save artifact failed",
			rows: 20,
			options: []Option{WithCandidates(
				mockCandidate("foo", nil, 1),
			)},
			mock: func(ms *storemocks.MockStoreMockRecorder) {
				ms.Save(gomock.Any()).Return(errors.New("foo")).Times(1)
			},
			expect: func(t *testing.T, report *Report, err error) {
				assert.EqualError(t, err, "save artifact: foo")
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctl := gomock.NewController(t)
			defer ctl.Finish()
			store := storemocks.NewMockStore(ctl)
			tc.mock(store.EXPECT())

			report, err := New(mockConfig(), store, tc.options...).Train(context.Background(), mockDataset(t, tc.rows))
			tc.expect(t, report, err)
		})
	}
}

func TestTraining_TrainCanceled(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	store := storemocks.NewMockStore(ctl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(mockConfig(), store).Train(ctx, mockDataset(t, 20))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReport_Write(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()
	store := storemocks.NewMockStore(ctl)
	store.EXPECT().Save(gomock.Any()).Return(nil).Times(1)
	store.EXPECT().Path().Return("baz").Times(1)

	report, err := New(mockConfig(), store, WithCandidates(
		mockCandidate("foo", errors.New("foo"), 0),
		mockCandidate("bar", nil, 1),
	)).Train(context.Background(), mockDataset(t, 20))
	require.NoError(t, err)

	assert := assert.New(t)
	var buf bytes.Buffer
	assert.NoError(report.WriteJSON(&buf))

	var decoded map[string]any
	assert.NoError(json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal("bar", decoded["best_model"])
	assert.Len(decoded["evaluations"], 2)

	buf.Reset()
	assert.NoError(report.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(lines, 4)
	assert.Equal("model,target,mae,rmse,r2,mape,nrmse,within_5_percent,within_10_percent,training_time_seconds", lines[0])
	assert.True(strings.HasPrefix(lines[1], "bar,dc_power_kw,"))
}
