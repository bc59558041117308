// Package tablestore provides keyed access to flat, schema-on-read record
// tables. The default backend keeps one CSV file per table under a data
// directory; a PostgreSQL backend stores the same records as JSONB rows.
package tablestore

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrNoKey indicates an upsert record missing a value for its key column.
	ErrNoKey = errors.New("record has no value for key column")
)

// Record is a single row: column name to string value. Absent columns read
// as the empty string.
type Record map[string]string

// Store is the persistence contract shared by all table backends.
//
// Load never fails on a missing table; it returns an empty slice so callers
// can treat "not yet created" and "empty" identically. DeleteWhere is
// likewise tolerant of missing tables.
type Store interface {
	Load(ctx context.Context, table string) ([]Record, error)
	Upsert(ctx context.Context, table, keyColumn string, rec Record) error
	DeleteWhere(ctx context.Context, table string, pred func(Record) bool) (int, error)
	Replace(ctx context.Context, table string, recs []Record) error
	Tables(ctx context.Context) ([]string, error)
}

// Schema maps table names to their declared column order. Backends use it
// to write stable headers; columns not in the schema are preserved after
// the declared ones.
type Schema map[string][]string

// Columns returns the declared columns for a table, or nil when the table
// is not registered.
func (s Schema) Columns(table string) []string {
	return s[table]
}

// Merge returns a single schema containing every table of the inputs.
// Later schemas win on duplicate table names.
func Merge(schemas ...Schema) Schema {
	out := Schema{}
	for _, s := range schemas {
		for t, cols := range s {
			out[t] = cols
		}
	}
	return out
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Bool reads a column as a boolean. Unset and unparsable values are false.
func (r Record) Bool(col string) bool {
	return Truthy(r[col])
}

// Int reads a column as an integer, 0 when unset or unparsable.
func (r Record) Int(col string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(r[col]))
	return n
}

// Float reads a column as a float64, 0 when unset or unparsable.
func (r Record) Float(col string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(r[col]), 64)
	return f
}

// SetBool writes a boolean column as "true"/"false".
func (r Record) SetBool(col string, v bool) {
	r[col] = strconv.FormatBool(v)
}

// SetInt writes an integer column.
func (r Record) SetInt(col string, v int) {
	r[col] = strconv.Itoa(v)
}

// SetFloat writes a float column in the shortest round-trip form.
func (r Record) SetFloat(col string, v float64) {
	r[col] = strconv.FormatFloat(v, 'f', -1, 64)
}

// Truthy reports whether a raw cell value represents true. Data imported
// from spreadsheets carries a mix of spellings, so this accepts the usual
// ones rather than strict strconv syntax.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t":
		return true
	}
	return false
}

// headerFor computes the output column order for a table: declared schema
// columns first, then any extra columns seen in the records, sorted for
// stability.
func headerFor(declared []string, recs []Record) []string {
	seen := make(map[string]bool, len(declared))
	header := make([]string, 0, len(declared))
	for _, c := range declared {
		if !seen[c] {
			seen[c] = true
			header = append(header, c)
		}
	}
	var extras []string
	for _, rec := range recs {
		for c := range rec {
			if !seen[c] {
				seen[c] = true
				extras = append(extras, c)
			}
		}
	}
	sort.Strings(extras)
	return append(header, extras...)
}
