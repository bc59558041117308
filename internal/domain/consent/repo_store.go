package consent

import (
	"context"
	"strings"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const TableConsents = "research_consents"

// Schema declares the consent register columns.
var Schema = tablestore.Schema{
	TableConsents: {
		"ResearchID", "ConsentDateTime", "Language", "CohortAtConsent",
		"PlannedSampleTypes", "IncludesScraping", "ConsentTakenBy",
		"ConsentLocation", "PilotExtraExplained",
		"PilotParticipantSignatureFile", "PilotClinicianSignatureFile",
		"SignedPdfFile", "ExtraFiles",
	},
}

type RepoStore struct {
	store tablestore.Store
}

func NewRepoStore(store tablestore.Store) *RepoStore {
	return &RepoStore{store: store}
}

func toRecord(c *Consent) tablestore.Record {
	rec := tablestore.Record{
		"ResearchID":                    c.ResearchID,
		"Language":                      c.Language,
		"CohortAtConsent":               c.CohortAtConsent,
		"PlannedSampleTypes":            strings.Join(c.PlannedSampleTypes, ";"),
		"ConsentTakenBy":                c.ConsentTakenBy,
		"ConsentLocation":               c.ConsentLocation,
		"PilotParticipantSignatureFile": c.PilotParticipantSignatureFile,
		"PilotClinicianSignatureFile":   c.PilotClinicianSignatureFile,
		"SignedPdfFile":                 c.SignedPdfFile,
		"ExtraFiles":                    strings.Join(c.ExtraFiles, ";"),
	}
	rec.SetBool("IncludesScraping", c.IncludesScraping)
	rec.SetBool("PilotExtraExplained", c.PilotExtraExplained)
	if !c.ConsentDateTime.IsZero() {
		rec["ConsentDateTime"] = c.ConsentDateTime.UTC().Format(time.RFC3339)
	}
	return rec
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ";")
}

func fromRecord(rec tablestore.Record) *Consent {
	c := &Consent{
		ResearchID:                    rec["ResearchID"],
		Language:                      rec["Language"],
		CohortAtConsent:               rec["CohortAtConsent"],
		PlannedSampleTypes:            splitList(rec["PlannedSampleTypes"]),
		IncludesScraping:              rec.Bool("IncludesScraping"),
		ConsentTakenBy:                rec["ConsentTakenBy"],
		ConsentLocation:               rec["ConsentLocation"],
		PilotExtraExplained:           rec.Bool("PilotExtraExplained"),
		PilotParticipantSignatureFile: rec["PilotParticipantSignatureFile"],
		PilotClinicianSignatureFile:   rec["PilotClinicianSignatureFile"],
		SignedPdfFile:                 rec["SignedPdfFile"],
		ExtraFiles:                    splitList(rec["ExtraFiles"]),
	}
	if t, err := time.Parse(time.RFC3339, rec["ConsentDateTime"]); err == nil {
		c.ConsentDateTime = t
	}
	return c
}

func (r *RepoStore) Upsert(ctx context.Context, c *Consent) error {
	return r.store.Upsert(ctx, TableConsents, "ResearchID", toRecord(c))
}

func (r *RepoStore) GetByResearchID(ctx context.Context, researchID string) (*Consent, error) {
	recs, err := r.store.Load(ctx, TableConsents)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			return fromRecord(rec), nil
		}
	}
	return nil, ErrConsentNotFound
}

func (r *RepoStore) List(ctx context.Context) ([]*Consent, error) {
	recs, err := r.store.Load(ctx, TableConsents)
	if err != nil {
		return nil, err
	}
	out := make([]*Consent, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}
