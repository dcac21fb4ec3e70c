package domain

import (
	"encoding/json"
	"fmt"
	"os"
)

// EnumTable maps human-readable labels to GLPI internal identifiers. Tables
// are built once at startup and never mutated, so concurrent reads need no
// synchronization.
type EnumTable map[string]int

// UnknownLabelError reports a label absent from its enum table.
type UnknownLabelError struct {
	Field string
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown %s label %q", e.Field, e.Label)
}

// Resolve looks up a label with case-sensitive exact matching.
func (t EnumTable) Resolve(field, label string) (int, error) {
	id, ok := t[label]
	if !ok {
		return 0, &UnknownLabelError{Field: field, Label: label}
	}
	return id, nil
}

// EnumTables bundles the two lookup tables used by the creation pipeline.
type EnumTables struct {
	Statuses       EnumTable `json:"statuses"`
	RequestSources EnumTable `json:"request_sources"`
}

// DefaultEnumTables returns the stock GLPI status and request-source codes.
func DefaultEnumTables() EnumTables {
	return EnumTables{
		Statuses: EnumTable{
			"New":                   1,
			"Processing (assigned)": 2,
			"Processing (planned)":  3,
			"Pending":               4,
			"Solved":                5,
			"Closed":                6,
		},
		RequestSources: EnumTable{
			"Helpdesk": 1,
			"E-Mail":   2,
			"Phone":    3,
			"Direct":   4,
			"Written":  5,
			"Other":    6,
		},
	}
}

// LoadEnumTables reads tables from a JSON mapping file, or returns the
// defaults when path is empty. A file that omits one table keeps the default
// for that table.
func LoadEnumTables(path string) (EnumTables, error) {
	tables := DefaultEnumTables()
	if path == "" {
		return tables, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return EnumTables{}, fmt.Errorf("read enum mapping file: %w", err)
	}

	var override EnumTables
	if err := json.Unmarshal(raw, &override); err != nil {
		return EnumTables{}, fmt.Errorf("parse enum mapping file: %w", err)
	}

	if len(override.Statuses) > 0 {
		tables.Statuses = override.Statuses
	}
	if len(override.RequestSources) > 0 {
		tables.RequestSources = override.RequestSources
	}
	return tables, nil
}
