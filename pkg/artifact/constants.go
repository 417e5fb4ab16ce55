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

import "os"

const (
	// CurrentDirName is the directory of the active bundle.
	CurrentDirName = "current"

	// ModelFileName is the encoded model of a bundle.
	ModelFileName = "model.json"

	// SchemaFileName is the feature schema of a bundle.
	SchemaFileName = "schema.json"

	// ManifestFileName is the metadata of a bundle.
	ManifestFileName = "manifest.yaml"

	// LockFileName guards concurrent writers.
	LockFileName = ".lock"

	stagingPrefix  = ".bundle-"
	previousPrefix = ".previous-"
)

const (
	dirMode  os.FileMode = 0700
	fileMode os.FileMode = 0600
)
