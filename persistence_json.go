package poseprep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sigs.k8s.io/yaml"
)

type readOptions struct {
	strict bool
}

// ReadOption tweaks how ReadJSON and DecodeJSON decode a document.
type ReadOption func(*readOptions)

// WithStrictFields rejects object keys that have no matching struct field.
// Interval tables are read this way; recordings are not.
func WithStrictFields() ReadOption {
	return func(o *readOptions) { o.strict = true }
}

// ReadJSON loads the document at path into v. Documents with a .yaml or .yml
// extension are converted to JSON before decoding.
func ReadJSON(path string, v any, opts ...ReadOption) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := DecodeJSON(b, filepath.Ext(path), v, opts...); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// DecodeJSON decodes b into v. ext selects the source format the same way
// ReadJSON does; pass "" for plain JSON.
func DecodeJSON(b []byte, ext string, v any, opts ...ReadOption) error {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		converted, err := yaml.YAMLToJSON(b)
		if err != nil {
			return err
		}
		b = converted
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	if o.strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(v)
}

// WriteJSON writes v to path as indented JSON.
func WriteJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
