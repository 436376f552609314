package jsondb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/record"
)

// document is the in-memory form of the JSON file: table name to ordered rows.
type document struct {
	tables map[string][]record.Row
}

func newDocument(tables []string) *document {
	d := &document{tables: make(map[string][]record.Row, len(tables))}
	for _, t := range tables {
		d.tables[t] = []record.Row{}
	}
	return d
}

func (d *document) clone() *document {
	out := &document{tables: make(map[string][]record.Row, len(d.tables))}
	for name, rows := range d.tables {
		copied := make([]record.Row, len(rows))
		for i, r := range rows {
			copied[i] = r.Clone()
		}
		out.tables[name] = copied
	}
	return out
}

func (d *document) marshal() ([]byte, error) {
	raw := make(map[string][]map[string]any, len(d.tables))
	for name, rows := range d.tables {
		list := make([]map[string]any, len(rows))
		for i, r := range rows {
			list[i] = map[string]any(r)
		}
		raw[name] = list
	}
	return json.MarshalIndent(raw, "", "  ")
}

func decodeDocument(data []byte) (*document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string][]map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	d := newDocument(record.DefaultTables)
	for name, rows := range raw {
		list := make([]record.Row, 0, len(rows))
		for _, r := range rows {
			if r == nil {
				continue
			}
			list = append(list, record.Row(r))
		}
		d.tables[name] = list
	}
	return d, nil
}

func readDocument(path string) (*document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return newDocument(record.DefaultTables), nil
	}
	return decodeDocument(data)
}

// writeDocument replaces path atomically: the new content goes to a temp
// file in the same directory which is then renamed over the old one.
func writeDocument(path string, d *document) error {
	data, err := d.marshal()
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// ensureDocument creates dir and an empty default document when missing.
func ensureDocument(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return writeDocument(path, newDocument(record.DefaultTables))
}
