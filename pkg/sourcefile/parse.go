// SPDX-License-Identifier: MPL-2.0

package sourcefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vagrantory/vagrantory/pkg/types"
)

// maxSourceFileSize caps how much YAML we are willing to decode. Source
// files are hand-written and tiny; anything near this limit is a mistake.
const maxSourceFileSize = 1 << 20 // 1 MiB

var (
	// ErrEmptySource is returned when the source document contains no YAML at all.
	ErrEmptySource = errors.New("source file is empty")

	// ErrSourceTooLarge is returned when the source document exceeds maxSourceFileSize.
	ErrSourceTooLarge = errors.New("source file exceeds size limit")
)

// Parse reads and decodes the inventory source file at path. The returned
// SourceFile remembers its absolute location so relative project paths and
// cache keys can be derived from it. Parse does not validate semantics;
// call Validate on the result.
func Parse(path types.FilesystemPath) (*SourceFile, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}

	expanded, err := path.ExpandUser()
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(expanded.String())
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	if info.Size() > maxSourceFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrSourceTooLarge, expanded, info.Size())
	}

	data, err := os.ReadFile(expanded.String())
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}

	sf, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", expanded, err)
	}

	abs, err := expanded.Abs()
	if err != nil {
		return nil, err
	}
	sf.path = abs
	return sf, nil
}

// ParseBytes decodes an inventory source document from memory. Decoding is
// strict: unknown fields are an error.
func ParseBytes(data []byte) (*SourceFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sf SourceFile
	if err := dec.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySource
		}
		return nil, fmt.Errorf("decoding YAML: %w", err)
	}
	return &sf, nil
}
