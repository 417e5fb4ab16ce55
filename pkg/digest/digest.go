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

package digest

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

const (
	// AlgorithmSHA256 is the only algorithm used for artifact digests.
	AlgorithmSHA256 = "sha256"

	// readBufferSize is the buffer size used when hashing files.
	readBufferSize = 4 * 1024 * 1024
)

// SHA256FromStrings computes the sha256 of the concatenated strings, separated by NUL.
func SHA256FromStrings(data ...string) string {
	if len(data) == 0 {
		return ""
	}

	h := sha256.New()
	for i, s := range data {
		if i > 0 {
			h.Write([]byte{0})
		}
		h.Write([]byte(s))
	}

	return ToHashString(h)
}

// SHA256FromBytes computes the sha256 of bytes.
func SHA256FromBytes(bytes []byte) string {
	h := sha256.New()
	h.Write(bytes)
	return ToHashString(h)
}

// SHA256FromReader computes the sha256 of a reader.
func SHA256FromReader(reader io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, bufio.NewReaderSize(reader, readBufferSize)); err != nil {
		return "", err
	}

	return ToHashString(h), nil
}

// HashFile computes the sha256 of a regular file.
func HashFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return SHA256FromReader(f)
}

// String returns the digest in "algorithm:encoded" form.
func String(encoded string) string {
	return AlgorithmSHA256 + ":" + encoded
}

// Parse splits a digest in "algorithm:encoded" form.
func Parse(digest string) (string, string, error) {
	values := strings.SplitN(digest, ":", 2)
	if len(values) != 2 || values[1] == "" {
		return "", "", fmt.Errorf("invalid digest: %s", digest)
	}

	if values[0] != AlgorithmSHA256 {
		return "", "", fmt.Errorf("invalid digest algorithm: %s", values[0])
	}

	return values[0], values[1], nil
}

func ToHashString(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
