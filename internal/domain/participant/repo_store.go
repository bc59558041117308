package participant

import (
	"context"
	"strconv"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const TableParticipants = "research_participants"

// Tables holding rows keyed by ResearchID that must go when the
// participant does.
var cascadeTables = []string{
	"research_eligibility",
	"research_consents",
	"research_samples",
	"research_med_history",
	"research_medications",
	"research_documents",
	"research_lab_pcr_ngs",
	"risk_results",
}

// Schema declares the column order of the participant register.
var Schema = tablestore.Schema{
	TableParticipants: {"ResearchID", "StudyID", "Name", "Age", "Sex", "Phone", "Group", "Cohort", "CreatedAt"},
}

// ---------------------------------------------------------------------------
// Participants
// ---------------------------------------------------------------------------

type RepoStore struct {
	store tablestore.Store
}

func NewRepoStore(store tablestore.Store) *RepoStore {
	return &RepoStore{store: store}
}

func toRecord(p *Participant) tablestore.Record {
	rec := tablestore.Record{
		"ResearchID": p.ResearchID,
		"StudyID":    p.StudyID,
		"Name":       p.Name,
		"Age":        strconv.Itoa(p.Age),
		"Sex":        p.Sex,
		"Phone":      p.Phone,
		"Group":      p.Group,
		"Cohort":     p.Cohort,
	}
	if !p.CreatedAt.IsZero() {
		rec["CreatedAt"] = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	return rec
}

func fromRecord(rec tablestore.Record) *Participant {
	p := &Participant{
		ResearchID: rec["ResearchID"],
		StudyID:    rec["StudyID"],
		Name:       rec["Name"],
		Age:        rec.Int("Age"),
		Sex:        rec["Sex"],
		Phone:      rec["Phone"],
		Group:      rec["Group"],
		Cohort:     rec["Cohort"],
	}
	if t, err := time.Parse(time.RFC3339, rec["CreatedAt"]); err == nil {
		p.CreatedAt = t
	}
	return p
}

func (r *RepoStore) Upsert(ctx context.Context, p *Participant) error {
	return r.store.Upsert(ctx, TableParticipants, "ResearchID", toRecord(p))
}

func (r *RepoStore) GetByID(ctx context.Context, researchID string) (*Participant, error) {
	recs, err := r.store.Load(ctx, TableParticipants)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			return fromRecord(rec), nil
		}
	}
	return nil, ErrParticipantNotFound
}

func (r *RepoStore) List(ctx context.Context, studyID string) ([]*Participant, error) {
	recs, err := r.store.Load(ctx, TableParticipants)
	if err != nil {
		return nil, err
	}
	out := make([]*Participant, 0, len(recs))
	for _, rec := range recs {
		if studyID != "" && rec["StudyID"] != studyID {
			continue
		}
		out = append(out, fromRecord(rec))
	}
	return out, nil
}

func (r *RepoStore) ListIDs(ctx context.Context) ([]string, error) {
	recs, err := r.store.Load(ctx, TableParticipants)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec["ResearchID"])
	}
	return ids, nil
}

func (r *RepoStore) Delete(ctx context.Context, researchID string) error {
	n, err := r.store.DeleteWhere(ctx, TableParticipants, func(rec tablestore.Record) bool {
		return rec["ResearchID"] == researchID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Status source
// ---------------------------------------------------------------------------

type StatusStore struct {
	store tablestore.Store
}

func NewStatusStore(store tablestore.Store) *StatusStore {
	return &StatusStore{store: store}
}

func (s *StatusStore) HasHistory(ctx context.Context, researchID string) (bool, error) {
	recs, err := s.store.Load(ctx, "research_med_history")
	if err != nil {
		return false, err
	}
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			return true, nil
		}
	}
	return false, nil
}

func (s *StatusStore) SamplesFor(ctx context.Context, researchID string) ([]string, bool, error) {
	recs, err := s.store.Load(ctx, "research_samples")
	if err != nil {
		return nil, false, err
	}
	var ids []string
	frozen := false
	for _, rec := range recs {
		if rec["ResearchID"] != researchID {
			continue
		}
		ids = append(ids, rec["SampleID"])
		if rec.Bool("Lab_ReceivedYN") {
			frozen = true
		}
	}
	return ids, frozen, nil
}

func (s *StatusStore) InLab(ctx context.Context, sampleIDs []string) (bool, error) {
	if len(sampleIDs) == 0 {
		return false, nil
	}
	recs, err := s.store.Load(ctx, "research_lab_pcr_ngs")
	if err != nil {
		return false, err
	}
	want := make(map[string]bool, len(sampleIDs))
	for _, id := range sampleIDs {
		want[id] = true
	}
	for _, rec := range recs {
		if want[rec["SampleID"]] {
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------------
// Cascade delete
// ---------------------------------------------------------------------------

type CascadeStore struct {
	store tablestore.Store
}

func NewCascadeStore(store tablestore.Store) *CascadeStore {
	return &CascadeStore{store: store}
}

// DeleteParticipantData removes the participant's rows from every dependent
// table. Dependents are cleared before callers remove the register row, so a
// failure part-way leaves the participant visible rather than orphaned rows.
func (c *CascadeStore) DeleteParticipantData(ctx context.Context, researchID string) (int, error) {
	total := 0
	for _, tbl := range cascadeTables {
		n, err := c.store.DeleteWhere(ctx, tbl, func(rec tablestore.Record) bool {
			return rec["ResearchID"] == researchID
		})
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
