package study

import (
	"context"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const (
	TableStudies       = "studies"
	TableLabs          = "labs"
	TableInvestigators = "investigators"
)

// Schema declares the column order of the admin tables.
var Schema = tablestore.Schema{
	TableStudies:       {"StudyID", "StudyName", "Mode", "DefaultLabName", "DefaultConsentTaker", "LinkedStudies", "Notes", "CreatedAt"},
	TableLabs:          {"LabID", "LabName", "LabType", "ContactPerson", "Email", "Phone", "Address", "Notes"},
	TableInvestigators: {"InvestigatorID", "Name", "Role", "Affiliation", "Email", "Phone", "IsConsentTakerDefault"},
}

// ---------------------------------------------------------------------------
// Studies
// ---------------------------------------------------------------------------

type StudyRepoStore struct {
	store tablestore.Store
}

func NewStudyRepoStore(store tablestore.Store) *StudyRepoStore {
	return &StudyRepoStore{store: store}
}

func studyToRecord(s *Study) tablestore.Record {
	rec := tablestore.Record{
		"StudyID":             s.StudyID,
		"StudyName":           s.StudyName,
		"Mode":                s.Mode,
		"DefaultLabName":      s.DefaultLabName,
		"DefaultConsentTaker": s.DefaultConsentTaker,
		"LinkedStudies":       s.LinkedStudies,
		"Notes":               s.Notes,
	}
	if !s.CreatedAt.IsZero() {
		rec["CreatedAt"] = s.CreatedAt.UTC().Format(time.RFC3339)
	}
	return rec
}

func studyFromRecord(rec tablestore.Record) *Study {
	s := &Study{
		StudyID:             rec["StudyID"],
		StudyName:           rec["StudyName"],
		Mode:                rec["Mode"],
		DefaultLabName:      rec["DefaultLabName"],
		DefaultConsentTaker: rec["DefaultConsentTaker"],
		LinkedStudies:       rec["LinkedStudies"],
		Notes:               rec["Notes"],
	}
	if t, err := time.Parse(time.RFC3339, rec["CreatedAt"]); err == nil {
		s.CreatedAt = t
	}
	return s
}

func (r *StudyRepoStore) Upsert(ctx context.Context, s *Study) error {
	return r.store.Upsert(ctx, TableStudies, "StudyID", studyToRecord(s))
}

func (r *StudyRepoStore) GetByID(ctx context.Context, id string) (*Study, error) {
	recs, err := r.store.Load(ctx, TableStudies)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["StudyID"] == id {
			return studyFromRecord(rec), nil
		}
	}
	return nil, ErrStudyNotFound
}

func (r *StudyRepoStore) List(ctx context.Context) ([]*Study, error) {
	recs, err := r.store.Load(ctx, TableStudies)
	if err != nil {
		return nil, err
	}
	out := make([]*Study, 0, len(recs))
	for _, rec := range recs {
		out = append(out, studyFromRecord(rec))
	}
	return out, nil
}

func (r *StudyRepoStore) Delete(ctx context.Context, id string) error {
	n, err := r.store.DeleteWhere(ctx, TableStudies, func(rec tablestore.Record) bool {
		return rec["StudyID"] == id
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStudyNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Labs
// ---------------------------------------------------------------------------

type LabRepoStore struct {
	store tablestore.Store
}

func NewLabRepoStore(store tablestore.Store) *LabRepoStore {
	return &LabRepoStore{store: store}
}

func labToRecord(l *Lab) tablestore.Record {
	return tablestore.Record{
		"LabID":         l.LabID,
		"LabName":       l.LabName,
		"LabType":       l.LabType,
		"ContactPerson": l.ContactPerson,
		"Email":         l.Email,
		"Phone":         l.Phone,
		"Address":       l.Address,
		"Notes":         l.Notes,
	}
}

func labFromRecord(rec tablestore.Record) *Lab {
	return &Lab{
		LabID:         rec["LabID"],
		LabName:       rec["LabName"],
		LabType:       rec["LabType"],
		ContactPerson: rec["ContactPerson"],
		Email:         rec["Email"],
		Phone:         rec["Phone"],
		Address:       rec["Address"],
		Notes:         rec["Notes"],
	}
}

func (r *LabRepoStore) Upsert(ctx context.Context, l *Lab) error {
	return r.store.Upsert(ctx, TableLabs, "LabID", labToRecord(l))
}

func (r *LabRepoStore) GetByID(ctx context.Context, id string) (*Lab, error) {
	recs, err := r.store.Load(ctx, TableLabs)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["LabID"] == id {
			return labFromRecord(rec), nil
		}
	}
	return nil, ErrLabNotFound
}

func (r *LabRepoStore) List(ctx context.Context) ([]*Lab, error) {
	recs, err := r.store.Load(ctx, TableLabs)
	if err != nil {
		return nil, err
	}
	out := make([]*Lab, 0, len(recs))
	for _, rec := range recs {
		out = append(out, labFromRecord(rec))
	}
	return out, nil
}

func (r *LabRepoStore) Delete(ctx context.Context, id string) error {
	n, err := r.store.DeleteWhere(ctx, TableLabs, func(rec tablestore.Record) bool {
		return rec["LabID"] == id
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLabNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Investigators
// ---------------------------------------------------------------------------

type InvestigatorRepoStore struct {
	store tablestore.Store
}

func NewInvestigatorRepoStore(store tablestore.Store) *InvestigatorRepoStore {
	return &InvestigatorRepoStore{store: store}
}

func investigatorToRecord(inv *Investigator) tablestore.Record {
	rec := tablestore.Record{
		"InvestigatorID": inv.InvestigatorID,
		"Name":           inv.Name,
		"Role":           inv.Role,
		"Affiliation":    inv.Affiliation,
		"Email":          inv.Email,
		"Phone":          inv.Phone,
	}
	rec.SetBool("IsConsentTakerDefault", inv.IsConsentTakerDefault)
	return rec
}

func investigatorFromRecord(rec tablestore.Record) *Investigator {
	return &Investigator{
		InvestigatorID:        rec["InvestigatorID"],
		Name:                  rec["Name"],
		Role:                  rec["Role"],
		Affiliation:           rec["Affiliation"],
		Email:                 rec["Email"],
		Phone:                 rec["Phone"],
		IsConsentTakerDefault: rec.Bool("IsConsentTakerDefault"),
	}
}

func (r *InvestigatorRepoStore) Upsert(ctx context.Context, inv *Investigator) error {
	return r.store.Upsert(ctx, TableInvestigators, "InvestigatorID", investigatorToRecord(inv))
}

func (r *InvestigatorRepoStore) GetByID(ctx context.Context, id string) (*Investigator, error) {
	recs, err := r.store.Load(ctx, TableInvestigators)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["InvestigatorID"] == id {
			return investigatorFromRecord(rec), nil
		}
	}
	return nil, ErrInvestigatorNotFound
}

func (r *InvestigatorRepoStore) List(ctx context.Context) ([]*Investigator, error) {
	recs, err := r.store.Load(ctx, TableInvestigators)
	if err != nil {
		return nil, err
	}
	out := make([]*Investigator, 0, len(recs))
	for _, rec := range recs {
		out = append(out, investigatorFromRecord(rec))
	}
	return out, nil
}

func (r *InvestigatorRepoStore) Delete(ctx context.Context, id string) error {
	n, err := r.store.DeleteWhere(ctx, TableInvestigators, func(rec tablestore.Record) bool {
		return rec["InvestigatorID"] == id
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvestigatorNotFound
	}
	return nil
}
