package library

import (
	"encoding/json"
	"fmt"
	"os"
)

// IndexRecord is one entry of the index.json companion file. Importers
// read the index instead of the database.
type IndexRecord struct {
	Name       string            `json:"name"`
	Storey     string            `json:"storey"`
	Type       string            `json:"type"`
	Discipline string            `json:"discipline"`
	GLBPath    string            `json:"glb_path"`
	GlobalID   string            `json:"global_id"`
	Properties map[string]string `json:"properties"`
}

// WriteIndex writes the index records as a JSON array.
func WriteIndex(path string, records []IndexRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("library: marshal index: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("library: write index %s: %w", path, err)
	}
	return nil
}

// ReadIndex loads an index.json file.
func ReadIndex(path string) ([]IndexRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("library: read index %s: %w", path, err)
	}
	var records []IndexRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("library: parse index %s: %w", path, err)
	}
	return records, nil
}

// IndexRecordOf flattens a stored element into its index form.
func IndexRecordOf(el *Element) IndexRecord {
	return IndexRecord{
		Name:       el.Name,
		Storey:     el.Storey,
		Type:       el.Type,
		Discipline: el.Discipline,
		GLBPath:    el.GLBPath,
		GlobalID:   el.GlobalID,
		Properties: el.Properties,
	}
}
