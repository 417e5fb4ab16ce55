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

//go:generate mockgen -destination mocks/storage_mock.go -source storage.go -package mocks

package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/solarcast/solarcast/pkg/container/set"
)

const (
	// DatasetFilePrefix is prefix of dataset file name.
	DatasetFilePrefix = "dataset"

	// CSVFileExt is extension of file name.
	CSVFileExt = "csv"
)

// ErrEmptyFile is returned for csv files without a header.
var ErrEmptyFile = errors.New("empty csv file given")

// Table is a raw csv dataset, header order preserved.
type Table struct {
	// Name is the dataset name.
	Name string

	// Columns is the csv header.
	Columns []string

	// Rows holds the raw cells of every record, aligned with Columns.
	Rows [][]string
}

// Index returns the position of a column, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}

	return -1
}

// Storage is the interface used for dataset storage.
type Storage interface {
	// CreateDataset copies a csv dataset into the data directory under the given name.
	CreateDataset(string, io.Reader) error

	// OpenDataset opens the dataset file for read.
	OpenDataset(string) (io.ReadCloser, error)

	// LoadDataset parses the dataset file into a table.
	LoadDataset(string) (*Table, error)

	// ListDatasets returns the names of created datasets.
	ListDatasets() []string

	// ClearDataset removes the dataset file.
	ClearDataset(string) error

	// Clear removes all dataset files.
	Clear() error
}

type storage struct {
	baseDir  string
	datasets set.SafeSet[string]
}

// New returns a new Storage instance.
func New(baseDir string) Storage {
	return &storage{
		baseDir:  baseDir,
		datasets: set.NewSafeSet[string](),
	}
}

// CreateDataset copies a csv dataset into the data directory under the given name.
func (s *storage) CreateDataset(name string, r io.Reader) error {
	filename := s.datasetFilename(name)
	file, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		if err := os.Remove(filename); err != nil {
			return err
		}

		return err
	}

	s.datasets.Add(name)
	return nil
}

// OpenDataset opens the dataset file for read.
func (s *storage) OpenDataset(name string) (io.ReadCloser, error) {
	return os.Open(s.datasetFilename(name))
}

// LoadDataset parses the dataset file into a table.
func (s *storage) LoadDataset(name string) (*Table, error) {
	file, err := s.OpenDataset(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(name, file)
}

// ListDatasets returns the names of created datasets.
func (s *storage) ListDatasets() []string {
	return s.datasets.Values()
}

// ClearDataset removes the dataset file.
func (s *storage) ClearDataset(name string) error {
	if err := os.Remove(s.datasetFilename(name)); err != nil {
		return err
	}

	s.datasets.Delete(name)
	return nil
}

// Clear removes all dataset files.
func (s *storage) Clear() error {
	for _, name := range s.datasets.Values() {
		if err := os.Remove(s.datasetFilename(name)); err != nil {
			return err
		}
	}

	s.datasets.Clear()
	return nil
}

// datasetFilename generates dataset file name based on the given name.
func (s *storage) datasetFilename(name string) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s-%s.%s", DatasetFilePrefix, name, CSVFileExt))
}

// Parse reads a csv stream with a header row into a table.
func Parse(name string, r io.Reader) (*Table, error) {
	records, err := gocsv.LazyCSVReader(r).ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	columns := make([]string, len(records[0]))
	for i, column := range records[0] {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
	}

	table := &Table{
		Name:    name,
		Columns: columns,
		Rows:    make([][]string, 0, len(records)-1),
	}

	for i, record := range records[1:] {
		if len(record) != len(columns) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", i+1, len(record), len(columns))
		}

		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
