package tablestore

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FlatFileStore keeps one CSV file per table under a directory. Writes are
// atomic (temp file + rename) and serialized per table, so concurrent
// upserts against the same table cannot lose rows to interleaved
// read-modify-write cycles.
type FlatFileStore struct {
	dir    string
	schema Schema

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFlatFileStore creates the data directory if needed and returns a store
// over it.
func NewFlatFileStore(dir string, schema Schema) (*FlatFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}
	return &FlatFileStore{
		dir:    dir,
		schema: schema,
		locks:  make(map[string]*sync.Mutex),
	}, nil
}

func (s *FlatFileStore) tableLock(table string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[table]
	if !ok {
		l = &sync.Mutex{}
		s.locks[table] = l
	}
	return l
}

func (s *FlatFileStore) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// validTable rejects names that would escape the data directory once
// joined into a file path.
func validTable(table string) error {
	if table == "" || strings.ContainsAny(table, `/\`) || strings.Contains(table, "..") {
		return fmt.Errorf("invalid table name %q", table)
	}
	return nil
}

// Load reads every row of a table. A table whose file does not exist yet
// loads as an empty slice.
func (s *FlatFileStore) Load(ctx context.Context, table string) ([]Record, error) {
	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()
	return s.readAll(table)
}

// Upsert replaces the first row whose key column equals the record's key,
// or appends the record when no row matches.
func (s *FlatFileStore) Upsert(ctx context.Context, table, keyColumn string, rec Record) error {
	key := rec[keyColumn]
	if key == "" {
		return fmt.Errorf("table %s: %w (%s)", table, ErrNoKey, keyColumn)
	}

	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()

	recs, err := s.readAll(table)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range recs {
		if existing[keyColumn] == key {
			recs[i] = rec.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		recs = append(recs, rec.Clone())
	}
	return s.writeAll(table, recs)
}

// DeleteWhere removes every row matching the predicate and returns how many
// were removed. A missing table deletes nothing.
func (s *FlatFileStore) DeleteWhere(ctx context.Context, table string, pred func(Record) bool) (int, error) {
	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()

	recs, err := s.readAll(table)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}

	kept := recs[:0]
	removed := 0
	for _, rec := range recs {
		if pred(rec) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.writeAll(table, kept)
}

// Replace rewrites the whole table.
func (s *FlatFileStore) Replace(ctx context.Context, table string, recs []Record) error {
	l := s.tableLock(table)
	l.Lock()
	defer l.Unlock()
	return s.writeAll(table, recs)
}

// Tables lists every table with an on-disk file, sorted by name.
func (s *FlatFileStore) Tables(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}
	var tables []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		tables = append(tables, strings.TrimSuffix(e.Name(), ".csv"))
	}
	sort.Strings(tables)
	return tables, nil
}

func (s *FlatFileStore) readAll(table string) ([]Record, error) {
	if err := validTable(table); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("opening table %s: %w", table, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading table %s header: %w", table, err)
	}

	var recs []Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading table %s: %w", table, err)
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *FlatFileStore) writeAll(table string, recs []Record) error {
	if err := validTable(table); err != nil {
		return err
	}
	header := headerFor(s.schema.Columns(table), recs)

	tmp, err := os.CreateTemp(s.dir, table+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for table %s: %w", table, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing table %s header: %w", table, err)
	}
	row := make([]string, len(header))
	for _, rec := range recs {
		for i, col := range header {
			row[i] = rec[col]
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("writing table %s: %w", table, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing table %s: %w", table, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for table %s: %w", table, err)
	}
	if err := os.Rename(tmpName, s.path(table)); err != nil {
		return fmt.Errorf("replacing table %s: %w", table, err)
	}
	return nil
}

// WriteCSV renders records to w in CSV form using the same column ordering
// rules as the on-disk files. Used by the export endpoint.
func WriteCSV(w io.Writer, declared []string, recs []Record) error {
	header := headerFor(declared, recs)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, rec := range recs {
		for i, col := range header {
			row[i] = rec[col]
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
