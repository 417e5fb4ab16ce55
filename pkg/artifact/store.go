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

//go:generate mockgen -destination mocks/store_mock.go -source store.go -package mocks

package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/solarcast/solarcast/internal/scerrors"
	logger "github.com/solarcast/solarcast/internal/sclog"
	"github.com/solarcast/solarcast/pkg/digest"
	"github.com/solarcast/solarcast/pkg/models"
	"github.com/solarcast/solarcast/pkg/schema"
)

// Store is the interface used for artifact persistence.
type Store interface {
	// Save replaces the current bundle with the artifact.
	Save(*Artifact) error

	// Load reads the current bundle.
	Load() (*Artifact, error)

	// Path returns the directory of the current bundle.
	Path() string
}

type store struct {
	baseDir string
}

// New returns a new Store rooted at baseDir.
func New(baseDir string) Store {
	return &store{baseDir: baseDir}
}

func (s *store) Path() string {
	return filepath.Join(s.baseDir, CurrentDirName)
}

// Save writes the bundle into a staging directory and renames it over the
// current one while holding the store lock. The manifest digest and
// fingerprint are filled in on the given artifact.
func (s *store) Save(a *Artifact) error {
	if a == nil || a.Model == nil || a.Schema == nil {
		return errors.New("artifact requires model and schema")
	}

	if err := os.MkdirAll(s.baseDir, dirMode); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(s.baseDir, LockFileName))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock artifact store: %w", err)
	}
	defer lock.Unlock()

	modelData, err := models.Marshal(a.Model)
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	schemaData, err := json.MarshalIndent(a.Schema, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}

	metadata := a.Metadata
	if metadata.Version == "" {
		metadata.Version = uuid.NewString()
	}
	metadata.ModelName = a.Model.Name()
	metadata.Targets = a.Schema.Targets()
	metadata.SchemaFingerprint = a.Schema.Fingerprint()
	metadata.ModelDigest = digest.String(digest.SHA256FromBytes(modelData))

	manifestData, err := yaml.Marshal(&metadata)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}

	staging := filepath.Join(s.baseDir, stagingPrefix+uuid.NewString())
	if err := os.Mkdir(staging, dirMode); err != nil {
		return err
	}

	if err := s.commit(staging, map[string][]byte{
		ModelFileName:    modelData,
		SchemaFileName:   schemaData,
		ManifestFileName: manifestData,
	}); err != nil {
		if err := os.RemoveAll(staging); err != nil {
			logger.Errorf("remove staging bundle %s failed: %s", staging, err.Error())
		}

		return err
	}

	a.Metadata = metadata
	logger.WithArtifact(metadata.Version, s.Path()).Infof("saved %s artifact", metadata.ModelName)
	return nil
}

// commit writes the files into staging and swaps staging with the current bundle.
func (s *store) commit(staging string, files map[string][]byte) error {
	for name, data := range files {
		if err := writeFile(filepath.Join(staging, name), data); err != nil {
			return err
		}
	}

	current := s.Path()
	previous := filepath.Join(s.baseDir, previousPrefix+uuid.NewString())
	hasPrevious := true
	if err := os.Rename(current, previous); err != nil {
		if !os.IsNotExist(err) {
			return err
		}

		hasPrevious = false
	}

	if err := os.Rename(staging, current); err != nil {
		if hasPrevious {
			if err := os.Rename(previous, current); err != nil {
				logger.Errorf("restore previous bundle failed: %s", err.Error())
			}
		}

		return err
	}

	if hasPrevious {
		if err := os.RemoveAll(previous); err != nil {
			logger.Warnf("remove previous bundle %s failed: %s", previous, err.Error())
		}
	}

	return nil
}

func writeFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Load reads and verifies the current bundle. A missing bundle is reported as
// ArtifactNotFound, any unreadable or inconsistent file as ArtifactCorrupt.
func (s *store) Load() (*Artifact, error) {
	current := s.Path()
	manifestData, err := os.ReadFile(filepath.Join(current, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, scerrors.Newf(scerrors.ArtifactNotFound, "artifact not found at %s", current)
		}

		return nil, s.corrupt(err)
	}

	var metadata Metadata
	if err := yaml.Unmarshal(manifestData, &metadata); err != nil {
		return nil, s.corrupt(fmt.Errorf("decode manifest: %w", err))
	}

	var errs *multierror.Error
	modelPath := filepath.Join(current, ModelFileName)
	modelDigest, err := digest.HashFile(modelPath)
	if err != nil {
		errs = multierror.Append(errs, err)
	} else if digest.String(modelDigest) != metadata.ModelDigest {
		errs = multierror.Append(errs, fmt.Errorf("model digest mismatch: manifest %s, file %s", metadata.ModelDigest, digest.String(modelDigest)))
	}

	sc := &schema.Schema{}
	schemaData, err := os.ReadFile(filepath.Join(current, SchemaFileName))
	if err != nil {
		errs = multierror.Append(errs, err)
	} else if err := json.Unmarshal(schemaData, sc); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("decode schema: %w", err))
	} else if sc.Fingerprint() != metadata.SchemaFingerprint {
		errs = multierror.Append(errs, fmt.Errorf("schema fingerprint mismatch: manifest %s, schema %s", metadata.SchemaFingerprint, sc.Fingerprint()))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, s.corrupt(err)
	}

	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return nil, s.corrupt(err)
	}

	model, err := models.Unmarshal(modelData)
	if err != nil {
		return nil, s.corrupt(fmt.Errorf("decode model: %w", err))
	}

	if model.Name() != metadata.ModelName {
		return nil, s.corrupt(fmt.Errorf("model kind %s does not match manifest %s", model.Name(), metadata.ModelName))
	}

	return &Artifact{
		Model:    model,
		Schema:   sc,
		Metadata: metadata,
	}, nil
}

func (s *store) corrupt(err error) error {
	return scerrors.Newf(scerrors.ArtifactCorrupt, "artifact at %s is corrupt: %s", s.Path(), err.Error())
}
