package ripple

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec decodes a document read from a Watcher, such as a reserved-name
// list. Decoding is strict: an empty document, an unknown field or
// trailing data is an error.
type Codec interface {
	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type reported in registry events.
	ContentType() string
}

// JSONCodec decodes JSON documents.
type JSONCodec struct{}

// Unmarshal decodes a single JSON value into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyDocument
		}
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after offset %d", dec.InputOffset())
	}
	return nil
}

// ContentType returns "application/json".
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec decodes YAML documents. JSON is valid YAML, so it also reads
// JSON files.
type YAMLCodec struct{}

// Unmarshal decodes the first YAML document in data into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyDocument
		}
		return err
	}
	return nil
}

// ContentType returns "application/x-yaml".
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// codecsByExtension maps lower-case file extensions to codecs.
var codecsByExtension = map[string]Codec{
	".json": JSONCodec{},
	".yaml": YAMLCodec{},
	".yml":  YAMLCodec{},
}

// CodecForPath picks a codec from the extension of path. Unknown or
// missing extensions decode as JSON.
func CodecForPath(path string) Codec {
	if c, ok := codecsByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return JSONCodec{}
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)
