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

package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/solarcast/solarcast/internal/scerrors"
	"github.com/solarcast/solarcast/pkg/digest"
)

const (
	// Version is the format version of serialized schemas.
	Version = "v1"
)

// Vector maps a feature name to its value.
type Vector map[string]float64

// Schema is the ordered set of named numeric features a model consumes,
// together with the ordered targets it predicts. A Schema is immutable.
type Schema struct {
	version     string
	fields      []string
	targets     []string
	fingerprint string
}

type schemaJSON struct {
	Version     string   `json:"version"`
	Fields      []string `json:"fields"`
	Targets     []string `json:"targets"`
	Fingerprint string   `json:"fingerprint"`
}

// New returns a schema over copies of fields and targets.
func New(fields, targets []string) *Schema {
	s := &Schema{
		version: Version,
		fields:  slices.Clone(fields),
		targets: slices.Clone(targets),
	}
	s.fingerprint = fingerprint(s.version, s.fields, s.targets)
	return s
}

func fingerprint(version string, fields, targets []string) string {
	return digest.SHA256FromStrings(version, strings.Join(fields, ","), strings.Join(targets, ","))
}

func (s *Schema) Version() string {
	return s.version
}

// Fields returns a copy of the ordered feature names.
func (s *Schema) Fields() []string {
	return slices.Clone(s.fields)
}

// Targets returns a copy of the ordered target names.
func (s *Schema) Targets() []string {
	return slices.Clone(s.targets)
}

// Len returns the number of features.
func (s *Schema) Len() int {
	return len(s.fields)
}

func (s *Schema) Fingerprint() string {
	return s.fingerprint
}

// Has reports whether name is a feature of the schema.
func (s *Schema) Has(name string) bool {
	return slices.Contains(s.fields, name)
}

// Equal reports whether both schemas describe the same contract.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}

	return s.version == o.version && slices.Equal(s.fields, o.fields) && slices.Equal(s.targets, o.targets)
}

// Validate checks that v holds exactly the schema features with finite values.
func (s *Schema) Validate(v Vector) error {
	var missing []string
	for _, name := range s.fields {
		if _, ok := v[name]; !ok {
			missing = append(missing, name)
		}
	}

	var unknown []string
	for name := range v {
		if !s.Has(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)

	if len(missing) > 0 {
		return scerrors.NewSchemaMismatch("missing features", missing)
	}

	if len(unknown) > 0 {
		return scerrors.NewSchemaMismatch("unknown features", unknown)
	}

	var invalid []string
	for _, name := range s.fields {
		if value := v[name]; math.IsNaN(value) || math.IsInf(value, 0) {
			invalid = append(invalid, name)
		}
	}

	if len(invalid) > 0 {
		return scerrors.NewSchemaMismatch("non-finite features", invalid)
	}

	return nil
}

// Row validates v and returns its values in schema order.
func (s *Schema) Row(v Vector) ([]float64, error) {
	if err := s.Validate(v); err != nil {
		return nil, err
	}

	row := make([]float64, len(s.fields))
	for i, name := range s.fields {
		row[i] = v[name]
	}

	return row, nil
}

func (s *Schema) String() string {
	return fmt.Sprintf("schema %s (%d features, %d targets, %s)", s.version, len(s.fields), len(s.targets), s.fingerprint[:12])
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaJSON{
		Version:     s.version,
		Fields:      s.fields,
		Targets:     s.targets,
		Fingerprint: s.fingerprint,
	})
}

// UnmarshalJSON decodes a schema and rejects it when the fingerprint does not match its content.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw schemaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Version != Version {
		return fmt.Errorf("unsupported schema version %q", raw.Version)
	}

	if len(raw.Fields) == 0 {
		return fmt.Errorf("schema has no fields")
	}

	if got := fingerprint(raw.Version, raw.Fields, raw.Targets); got != raw.Fingerprint {
		return fmt.Errorf("schema fingerprint mismatch: expected %s, got %s", raw.Fingerprint, got)
	}

	s.version = raw.Version
	s.fields = raw.Fields
	s.targets = raw.Targets
	s.fingerprint = raw.Fingerprint
	return nil
}
