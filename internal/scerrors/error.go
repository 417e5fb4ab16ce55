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

package scerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is the kind of a solarcast error.
type Code string

const (
	// DataInsufficiency means the dataset is empty or unusable after cleaning.
	DataInsufficiency Code = "data_insufficiency"

	// SchemaMismatch means a feature vector does not match the artifact schema.
	SchemaMismatch Code = "schema_mismatch"

	// ArtifactNotFound means no trained model has been persisted.
	ArtifactNotFound Code = "artifact_not_found"

	// ArtifactCorrupt means a persisted bundle exists but can not be decoded.
	ArtifactCorrupt Code = "artifact_corrupt"

	// PredictionFailure means the model failed while predicting.
	PredictionFailure Code = "prediction_failure"

	// InvalidArgument means the caller supplied an invalid value.
	InvalidArgument Code = "invalid_argument"
)

// ErrEmptyDataset is returned when no row survives cleaning.
var ErrEmptyDataset = New(DataInsufficiency, "dataset has no rows after cleaning")

type Error struct {
	Code    Code
	Message string

	// Fields names the features involved in a schema mismatch.
	Fields []string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("[%s]%s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%s]%s: %s", e.Code, e.Message, strings.Join(e.Fields, ", "))
}

func New(code Code, msg string) *Error {
	return &Error{
		Code:    code,
		Message: msg,
	}
}

func Newf(code Code, format string, a ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

// NewSchemaMismatch returns a schema mismatch error naming the given fields.
func NewSchemaMismatch(msg string, fields []string) *Error {
	return &Error{
		Code:    SchemaMismatch,
		Message: msg,
		Fields:  fields,
	}
}

// CheckError reports whether err, or any error it wraps, carries the code.
func CheckError(err error, code Code) bool {
	if err == nil {
		return false
	}

	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// CodeOf returns the code carried by err, or an empty code for foreign errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ""
}
