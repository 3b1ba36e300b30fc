// Package format renders tokens, parse trees, diagnostics and parsing
// tables for the command line.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	Text  Format = "text"
	Line  Format = "line"
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

// Parse accepts a format name case-insensitively.
func Parse(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case Text, Line, Table, JSON, YAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q", name)
}

// FromPath picks JSON or YAML by file extension, defaulting to YAML.
func FromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// EncodeData writes v as indented JSON or as YAML.
func EncodeData(w io.Writer, v any, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported data format %q", format)
}
