// Package jsonfile reads and writes JSON arrays of flat records.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DecodeList parses a JSON document that must be an array of records.
func DecodeList[T any](data []byte) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("expected a JSON array, got %s", typeErr.Value)
		}
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("expected a JSON array, got null")
	}

	items := make([]T, 0, len(raw))
	for i, r := range raw {
		var it T
		if err := json.Unmarshal(r, &it); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// EncodeList renders records as a JSON array indented with four spaces and a
// trailing newline.
func EncodeList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(items); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteAtomic writes data to a temporary file in the target's directory,
// syncs it and renames it over path, so readers see either the old or the new
// content.
func WriteAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary file %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temporary file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temporary file %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
