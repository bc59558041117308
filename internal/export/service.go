package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/oscc/capture/internal/platform/tablestore"
)

// ArchiveName is the download filename for the full export.
const ArchiveName = "research_data.zip"

// Service renders study data as CSV, either per table or as one zip
// archive of every table for offline analysis.
type Service struct {
	store  tablestore.Store
	schema tablestore.Schema
}

func NewService(store tablestore.Store, schema tablestore.Schema) *Service {
	return &Service{store: store, schema: schema}
}

// TableNames lists every exportable table: all declared tables plus any
// the store has accumulated beyond the schema, sorted.
func (s *Service) TableNames(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool, len(s.schema))
	for t := range s.schema {
		seen[t] = true
	}
	stored, err := s.store.Tables(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range stored {
		seen[t] = true
	}
	names := make([]string, 0, len(seen))
	for t := range seen {
		names = append(names, t)
	}
	sort.Strings(names)
	return names, nil
}

// WriteTableCSV writes one table to w. Tables that exist only in the
// schema export as a bare header row.
func (s *Service) WriteTableCSV(ctx context.Context, table string, w io.Writer) error {
	recs, err := s.store.Load(ctx, table)
	if err != nil {
		return fmt.Errorf("loading table %s: %w", table, err)
	}
	return tablestore.WriteCSV(w, s.schema.Columns(table), recs)
}

// WriteArchive streams a zip of every table as <table>.csv.
func (s *Service) WriteArchive(ctx context.Context, w io.Writer) error {
	names, err := s.TableNames(ctx)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, table := range names {
		f, err := zw.Create(table + ".csv")
		if err != nil {
			return fmt.Errorf("creating archive entry %s: %w", table, err)
		}
		if err := s.WriteTableCSV(ctx, table, f); err != nil {
			return err
		}
	}
	return zw.Close()
}
