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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/pkg/models"
	"github.com/solarcast/solarcast/pkg/schema"
)

var mockSchema = schema.New([]string{"ghi", "temp_air", "hour_sin"}, schema.DefaultTargets())

func mockArtifact(t *testing.T) *Artifact {
	x := mat.NewDense(4, 3, []float64{
		100, 20, 0.1,
		300, 22, 0.5,
		600, 25, 0.9,
		400, 23, 0.7,
	})
	y := mat.NewDense(4, 3, []float64{
		0.5, 0.4, 0.4,
		1.5, 1.4, 1.4,
		3.0, 2.8, 2.8,
		2.0, 1.9, 1.9,
	})

	m := models.NewLinearRegression()
	require.NoError(t, m.Fit(x, y))
	return &Artifact{
		Model:  m,
		Schema: mockSchema,
		Metadata: Metadata{
			TrainedAt:   time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			Dataset:     "foo",
			DatasetRows: 4,
			TrainRows:   3,
			TestRows:    1,
			MeanR2:      0.97,
		},
	}
}

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name   string
		mock   func(t *testing.T, s Store)
		expect func(t *testing.T, s Store, a *Artifact, err error)
	}{
		{
			name: "artifact not found",
			mock: func(t *testing.T, s Store) {},
			expect: func(t *testing.T, s Store, a *Artifact, err error) {
				assert := assert.New(t)
				assert.Nil(a)
				assert.True(scerrors.CheckError(err, scerrors.ArtifactNotFound))
				assert.Contains(err.Error(), s.Path())
			},
		},
		{
			name: "load saved artifact",
			mock: func(t *testing.T, s Store) {
				require.NoError(t, s.Save(mockArtifact(t)))
			},
			expect: func(t *testing.T, s Store, a *Artifact, err error) {
				assert := assert.New(t)
				require.NoError(t, err)
				assert.Equal(mockSchema.Fields(), a.Schema.Fields())
				assert.Equal(mockSchema.Targets(), a.Schema.Targets())
				assert.True(mockSchema.Equal(a.Schema))
				assert.Equal(models.LinearRegressionName, a.Model.Name())
				assert.Equal(models.LinearRegressionName, a.Metadata.ModelName)
				assert.Equal(schema.DefaultTargets(), a.Metadata.Targets)
				assert.Equal(mockSchema.Fingerprint(), a.Metadata.SchemaFingerprint)
				assert.True(strings.HasPrefix(a.Metadata.ModelDigest, "sha256:"))
				assert.NotEmpty(a.Metadata.Version)
				assert.True(a.Metadata.TrainedAt.Equal(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
				assert.Equal(0.97, a.Metadata.MeanR2)

				pred, err := a.Model.Predict(mat.NewDense(1, 3, []float64{300, 22, 0.5}))
				assert.NoError(err)
				assert.InDelta(1.5, pred.At(0, 0), 0.2)
			},
		},
		{
			name: "model digest mismatch",
			mock: func(t *testing.T, s Store) {
				require.NoError(t, s.Save(mockArtifact(t)))
				path := filepath.Join(s.Path(), ModelFileName)
				data, err := os.ReadFile(path)
				require.NoError(t, err)
				require.NoError(t, os.WriteFile(path, append(data, ' '), fileMode))
			},
			expect: func(t *testing.T, s Store, a *Artifact, err error) {
				assert := assert.New(t)
				assert.True(scerrors.CheckError(err, scerrors.ArtifactCorrupt))
				assert.Contains(err.Error(), "model digest mismatch")
			},
		},
		{
			name: "schema fingerprint mismatch",
			mock: func(t *testing.T, s Store) {
				require.NoError(t, s.Save(mockArtifact(t)))
				data, err := schema.New([]string{"ghi"}, schema.DefaultTargets()).MarshalJSON()
				require.NoError(t, err)
				require.NoError(t, os.WriteFile(filepath.Join(s.Path(), SchemaFileName), data, fileMode))
			},
			expect: func(t *testing.T, s Store, a *Artifact, err error) {
				assert := assert.New(t)
				assert.True(scerrors.CheckError(err, scerrors.ArtifactCorrupt))
				assert.Contains(err.Error(), "schema fingerprint mismatch")
			},
		},
		{
			name: "missing model and schema files",
			mock: func(t *testing.T, s Store) {
				require.NoError(t, s.Save(mockArtifact(t)))
				require.NoError(t, os.Remove(filepath.Join(s.Path(), ModelFileName)))
				require.NoError(t, os.Remove(filepath.Join(s.Path(), SchemaFileName)))
			},
			expect: func(t *testing.T, s Store, a *Artifact, err error) {
				assert := assert.New(t)
				assert.True(scerrors.CheckError(err, scerrors.ArtifactCorrupt))
				assert.Contains(err.Error(), "2 errors occurred")
			},
		},
		{
			name: "invalid manifest",
			mock: func(t *testing.T, s Store) {
				require.NoError(t, s.Save(mockArtifact(t)))
				require.NoError(t, os.WriteFile(filepath.Join(s.Path(), ManifestFileName), []byte("version: [foo"), fileMode))
			},
			expect: func(t *testing.T, s Store, a *Artifact, err error) {
				assert.True(t, scerrors.CheckError(err, scerrors.ArtifactCorrupt))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(t.TempDir())
			tc.mock(t, s)
			a, err := s.Load()
			tc.expect(t, s, a, err)
		})
	}
}

func TestStore_Save(t *testing.T) {
	assert := assert.New(t)
	baseDir := t.TempDir()
	s := New(baseDir)

	assert.Error(s.Save(nil))
	assert.Error(s.Save(&Artifact{Schema: mockSchema}))

	first := mockArtifact(t)
	require.NoError(t, s.Save(first))
	second := mockArtifact(t)
	require.NoError(t, s.Save(second))
	assert.NotEqual(first.Metadata.Version, second.Metadata.Version)

	a, err := s.Load()
	require.NoError(t, err)
	assert.Equal(second.Metadata.Version, a.Metadata.Version)

	entries, err := os.ReadDir(baseDir)
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	assert.ElementsMatch([]string{CurrentDirName, LockFileName}, names)
	assert.Equal(filepath.Join(baseDir, CurrentDirName), s.Path())
}
