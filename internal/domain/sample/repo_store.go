package sample

import (
	"context"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const TableSamples = "research_samples"

// Schema declares the sample register columns.
var Schema = tablestore.Schema{
	TableSamples: {
		"SampleID", "ResearchID", "Cohort", "SampleType", "StudyID",
		"CollectionStart", "CollectionEnd", "PlacedInCryocan",
		"VolumeML", "VisibleBlood", "Discomfort", "Notes",
		"Lab_ReceivedYN", "UpdatedAt",
	},
}

type RepoStore struct {
	store tablestore.Store
}

func NewRepoStore(store tablestore.Store) *RepoStore {
	return &RepoStore{store: store}
}

func setTime(rec tablestore.Record, col string, t time.Time) {
	if !t.IsZero() {
		rec[col] = t.UTC().Format(time.RFC3339)
	}
}

func getTime(rec tablestore.Record, col string) time.Time {
	t, err := time.Parse(time.RFC3339, rec[col])
	if err != nil {
		return time.Time{}
	}
	return t
}

func toRecord(s *Sample) tablestore.Record {
	rec := tablestore.Record{
		"SampleID":     s.SampleID,
		"ResearchID":   s.ResearchID,
		"Cohort":       s.Cohort,
		"SampleType":   s.SampleType,
		"StudyID":      s.StudyID,
		"VisibleBlood": s.VisibleBlood,
		"Discomfort":   s.Discomfort,
		"Notes":        s.Notes,
	}
	rec.SetFloat("VolumeML", s.VolumeML)
	rec.SetBool("Lab_ReceivedYN", s.LabReceived)
	setTime(rec, "CollectionStart", s.CollectionStart)
	setTime(rec, "CollectionEnd", s.CollectionEnd)
	setTime(rec, "PlacedInCryocan", s.PlacedInCryocan)
	setTime(rec, "UpdatedAt", s.UpdatedAt)
	return rec
}

func fromRecord(rec tablestore.Record) *Sample {
	return &Sample{
		SampleID:        rec["SampleID"],
		ResearchID:      rec["ResearchID"],
		Cohort:          rec["Cohort"],
		SampleType:      rec["SampleType"],
		StudyID:         rec["StudyID"],
		CollectionStart: getTime(rec, "CollectionStart"),
		CollectionEnd:   getTime(rec, "CollectionEnd"),
		PlacedInCryocan: getTime(rec, "PlacedInCryocan"),
		VolumeML:        rec.Float("VolumeML"),
		VisibleBlood:    rec["VisibleBlood"],
		Discomfort:      rec["Discomfort"],
		Notes:           rec["Notes"],
		LabReceived:     rec.Bool("Lab_ReceivedYN"),
		UpdatedAt:       getTime(rec, "UpdatedAt"),
	}
}

func (r *RepoStore) Upsert(ctx context.Context, s *Sample) error {
	return r.store.Upsert(ctx, TableSamples, "SampleID", toRecord(s))
}

func (r *RepoStore) GetByID(ctx context.Context, sampleID string) (*Sample, error) {
	recs, err := r.store.Load(ctx, TableSamples)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["SampleID"] == sampleID {
			return fromRecord(rec), nil
		}
	}
	return nil, ErrSampleNotFound
}

func (r *RepoStore) GetByParticipantAndType(ctx context.Context, researchID, sampleType string) (*Sample, error) {
	recs, err := r.store.Load(ctx, TableSamples)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["ResearchID"] == researchID && rec["SampleType"] == sampleType {
			return fromRecord(rec), nil
		}
	}
	return nil, ErrSampleNotFound
}

func (r *RepoStore) ListByResearchID(ctx context.Context, researchID string) ([]*Sample, error) {
	recs, err := r.store.Load(ctx, TableSamples)
	if err != nil {
		return nil, err
	}
	var out []*Sample
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			out = append(out, fromRecord(rec))
		}
	}
	return out, nil
}

func (r *RepoStore) ListIDs(ctx context.Context) ([]string, error) {
	recs, err := r.store.Load(ctx, TableSamples)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec["SampleID"])
	}
	return ids, nil
}
