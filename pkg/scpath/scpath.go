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

package scpath

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Scpath is the interface used for init project path.
type Scpath interface {
	WorkHome() string
	WorkHomeMode() fs.FileMode
	ConfigDir() string
	LogDir() string
	DataDir() string
	DataDirMode() fs.FileMode
	ArtifactDir() string
}

// scpath provides init project path function.
type scpath struct {
	workHome     string
	workHomeMode fs.FileMode
	configDir    string
	logDir       string
	dataDir      string
	dataDirMode  fs.FileMode
	artifactDir  string
}

// Cache of the scpath.
var cache struct {
	sync.Once
	d   *scpath
	err *multierror.Error
}

// Option is a functional option for configuring the scpath.
type Option func(d *scpath)

// WithWorkHome set the workhome directory.
func WithWorkHome(dir string) Option {
	return func(d *scpath) {
		d.workHome = dir
	}
}

// WithWorkHomeMode sets the workHome directory mode
func WithWorkHomeMode(mode fs.FileMode) Option {
	return func(d *scpath) {
		d.workHomeMode = mode
	}
}

// WithLogDir set the log directory.
func WithLogDir(dir string) Option {
	return func(d *scpath) {
		d.logDir = dir
	}
}

// WithDataDir set the dataset directory.
func WithDataDir(dir string) Option {
	return func(d *scpath) {
		d.dataDir = dir
	}
}

// WithDataDirMode sets the dataDir mode
func WithDataDirMode(mode fs.FileMode) Option {
	return func(d *scpath) {
		d.dataDirMode = mode
	}
}

// WithArtifactDir set the model artifact directory.
func WithArtifactDir(dir string) Option {
	return func(d *scpath) {
		d.artifactDir = dir
	}
}

// New returns a new scpath interface.
func New(options ...Option) (Scpath, error) {
	cache.Do(func() {
		d := &scpath{
			workHome:     DefaultWorkHome,
			workHomeMode: DefaultWorkHomeMode,
			configDir:    DefaultConfigDir,
			logDir:       DefaultLogDir,
			dataDir:      DefaultDataDir,
			dataDirMode:  DefaultDataDirMode,
		}

		for _, opt := range options {
			opt(d)
		}

		if d.artifactDir == "" {
			d.artifactDir = filepath.Join(d.dataDir, DefaultArtifactDirName)
		}

		// Create workhome directory.
		if err := os.MkdirAll(d.workHome, d.workHomeMode); err != nil {
			cache.err = multierror.Append(cache.err, err)
		}

		// Create log directory.
		if err := os.MkdirAll(d.logDir, fs.FileMode(0700)); err != nil {
			cache.err = multierror.Append(cache.err, err)
		}

		// Create data directory.
		if err := os.MkdirAll(d.dataDir, d.dataDirMode); err != nil {
			cache.err = multierror.Append(cache.err, err)
		}

		// Create artifact directory.
		if err := os.MkdirAll(d.artifactDir, d.dataDirMode); err != nil {
			cache.err = multierror.Append(cache.err, err)
		}

		cache.d = d
	})

	if cache.err.ErrorOrNil() != nil {
		return nil, cache.err
	}

	d := *cache.d
	return &d, nil
}

func (d *scpath) WorkHome() string {
	return d.workHome
}

func (d *scpath) WorkHomeMode() fs.FileMode {
	return d.workHomeMode
}

func (d *scpath) ConfigDir() string {
	return d.configDir
}

func (d *scpath) LogDir() string {
	return d.logDir
}

func (d *scpath) DataDir() string {
	return d.dataDir
}

func (d *scpath) DataDirMode() fs.FileMode {
	return d.dataDirMode
}

func (d *scpath) ArtifactDir() string {
	return d.artifactDir
}
