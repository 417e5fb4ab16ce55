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

package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockDatasetName = "bar"

func TestStorage_New(t *testing.T) {
	tests := []struct {
		name    string
		baseDir string
		expect  func(t *testing.T, s Storage)
	}{
		{
			name:    "new storage",
			baseDir: os.TempDir(),
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				assert.Equal(reflect.TypeOf(s).Elem().Name(), "storage")
				assert.Empty(s.ListDatasets())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.expect(t, New(tc.baseDir))
		})
	}
}

func TestStorage_LoadDataset(t *testing.T) {
	require := require.New(t)
	testData, err := os.ReadFile("./testdata/dataset.csv")
	require.Nil(err, "load test file")

	tests := []struct {
		name   string
		mock   func(t *testing.T, s Storage, baseDir string)
		expect func(t *testing.T, s Storage, baseDir string)
	}{
		{
			name: "empty csv file given",
			mock: func(t *testing.T, s Storage, baseDir string) {
				require.NoError(s.CreateDataset(mockDatasetName, bytes.NewReader(nil)))
			},
			expect: func(t *testing.T, s Storage, baseDir string) {
				_, err := s.LoadDataset(mockDatasetName)
				assert.ErrorIs(t, err, ErrEmptyFile)
			},
		},
		{
			name: "open file failed",
			mock: func(t *testing.T, s Storage, baseDir string) {},
			expect: func(t *testing.T, s Storage, baseDir string) {
				_, err := s.LoadDataset(mockDatasetName)
				assert.EqualError(t, err, "open "+filepath.Join(baseDir, "dataset-bar.csv")+": no such file or directory")
			},
		},
		{
			name: "load dataset of a file",
			mock: func(t *testing.T, s Storage, baseDir string) {
				require.NoError(s.CreateDataset(mockDatasetName, bytes.NewReader(testData)))
			},
			expect: func(t *testing.T, s Storage, baseDir string) {
				assert := assert.New(t)
				table, err := s.LoadDataset(mockDatasetName)
				assert.NoError(err)
				assert.Equal(mockDatasetName, table.Name)
				assert.Len(table.Rows, 3)
				assert.Equal("datetime", table.Columns[0])
				assert.Equal(4, table.Index("HR"))
				assert.Equal(-1, table.Index("T2M"))
				assert.Equal([]string{mockDatasetName}, s.ListDatasets())
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			baseDir := t.TempDir()
			s := New(baseDir)
			tc.mock(t, s, baseDir)
			tc.expect(t, s, baseDir)
		})
	}
}

func TestStorage_Clear(t *testing.T) {
	assert := assert.New(t)
	baseDir := t.TempDir()
	s := New(baseDir)

	assert.NoError(s.CreateDataset("foo", strings.NewReader("a,b\n1,2\n")))
	assert.NoError(s.CreateDataset("bar", strings.NewReader("a,b\n1,2\n")))
	assert.Equal([]string{"bar", "foo"}, s.ListDatasets())

	assert.NoError(s.ClearDataset("foo"))
	assert.NoFileExists(filepath.Join(baseDir, "dataset-foo.csv"))
	assert.Equal([]string{"bar"}, s.ListDatasets())

	assert.NoError(s.Clear())
	assert.NoFileExists(filepath.Join(baseDir, "dataset-bar.csv"))
	assert.Empty(s.ListDatasets())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		expect func(t *testing.T, table *Table, err error)
	}{
		{
			name: "header with byte order mark and spaces",
			data: "\ufeffdatetime, ghi ,dc_power_kw\n2025-09-02 10:00:00,1,2\n",
			expect: func(t *testing.T, table *Table, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]string{"datetime", "ghi", "dc_power_kw"}, table.Columns)
				assert.Equal([][]string{{"2025-09-02 10:00:00", "1", "2"}}, table.Rows)
			},
		},
		{
			name: "header only",
			data: "ghi,dc_power_kw\n",
			expect: func(t *testing.T, table *Table, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Empty(table.Rows)
			},
		},
		{
			name: "ragged record",
			data: "ghi,dc_power_kw\n1\n",
			expect: func(t *testing.T, table *Table, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			table, err := Parse("foo", strings.NewReader(tc.data))
			tc.expect(t, table, err)
		})
	}
}
