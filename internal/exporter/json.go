package exporter

import (
	"encoding/json"
	"io"
)

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// SaveJSON writes v as indented JSON to path atomically
func SaveJSON(path string, v any) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return WriteJSON(w, v)
	})
}
