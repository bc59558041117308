package casehistory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const (
	TableHistory     = "research_med_history"
	TableMedications = "research_medications"
	TableDocuments   = "research_documents"
)

// Schema declares the case history table columns. MedKey is a synthetic
// unique row key (ResearchID#MedIndex); medication rows have no natural one.
var Schema = tablestore.Schema{
	TableHistory: {"ResearchID", "MedicalHistoryJSON", "CreatedAt", "UpdatedAt"},
	TableMedications: {
		"MedKey", "ResearchID", "MedIndex", "DrugNameInput", "GenericName",
		"Strength", "Dose", "Indication", "Duration", "Notes",
	},
	TableDocuments: {
		"DocumentID", "ResearchID", "DocType", "FileName", "FileExt",
		"Caption", "Notes", "CreatedAt",
	},
}

// ---------------------------------------------------------------------------
// History
// ---------------------------------------------------------------------------

type HistoryRepoStore struct {
	store tablestore.Store
}

func NewHistoryRepoStore(store tablestore.Store) *HistoryRepoStore {
	return &HistoryRepoStore{store: store}
}

func (r *HistoryRepoStore) Upsert(ctx context.Context, h *History) error {
	rec := tablestore.Record{
		"ResearchID":         h.ResearchID,
		"MedicalHistoryJSON": string(h.Answers),
	}
	if !h.CreatedAt.IsZero() {
		rec["CreatedAt"] = h.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !h.UpdatedAt.IsZero() {
		rec["UpdatedAt"] = h.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return r.store.Upsert(ctx, TableHistory, "ResearchID", rec)
}

func (r *HistoryRepoStore) GetByResearchID(ctx context.Context, researchID string) (*History, error) {
	recs, err := r.store.Load(ctx, TableHistory)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			h := &History{
				ResearchID: researchID,
				Answers:    []byte(rec["MedicalHistoryJSON"]),
			}
			if t, err := time.Parse(time.RFC3339, rec["CreatedAt"]); err == nil {
				h.CreatedAt = t
			}
			if t, err := time.Parse(time.RFC3339, rec["UpdatedAt"]); err == nil {
				h.UpdatedAt = t
			}
			return h, nil
		}
	}
	return nil, ErrHistoryNotFound
}

// ---------------------------------------------------------------------------
// Medications
// ---------------------------------------------------------------------------

type MedicationRepoStore struct {
	store tablestore.Store
}

func NewMedicationRepoStore(store tablestore.Store) *MedicationRepoStore {
	return &MedicationRepoStore{store: store}
}

func (r *MedicationRepoStore) ReplaceForParticipant(ctx context.Context, researchID string, meds []*Medication) error {
	if _, err := r.store.DeleteWhere(ctx, TableMedications, func(rec tablestore.Record) bool {
		return rec["ResearchID"] == researchID
	}); err != nil {
		return err
	}
	for _, m := range meds {
		rec := tablestore.Record{
			"MedKey":        fmt.Sprintf("%s#%d", researchID, m.MedIndex),
			"ResearchID":    researchID,
			"DrugNameInput": m.DrugNameInput,
			"GenericName":   m.GenericName,
			"Strength":      m.Strength,
			"Dose":          m.Dose,
			"Indication":    m.Indication,
			"Duration":      m.Duration,
			"Notes":         m.Notes,
		}
		rec.SetInt("MedIndex", m.MedIndex)
		if err := r.store.Upsert(ctx, TableMedications, "MedKey", rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *MedicationRepoStore) ListByResearchID(ctx context.Context, researchID string) ([]*Medication, error) {
	recs, err := r.store.Load(ctx, TableMedications)
	if err != nil {
		return nil, err
	}
	var out []*Medication
	for _, rec := range recs {
		if rec["ResearchID"] != researchID {
			continue
		}
		out = append(out, &Medication{
			ResearchID:    researchID,
			MedIndex:      rec.Int("MedIndex"),
			DrugNameInput: rec["DrugNameInput"],
			GenericName:   rec["GenericName"],
			Strength:      rec["Strength"],
			Dose:          rec["Dose"],
			Indication:    rec["Indication"],
			Duration:      rec["Duration"],
			Notes:         rec["Notes"],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MedIndex < out[j].MedIndex })
	return out, nil
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

type DocumentRepoStore struct {
	store tablestore.Store
}

func NewDocumentRepoStore(store tablestore.Store) *DocumentRepoStore {
	return &DocumentRepoStore{store: store}
}

func (r *DocumentRepoStore) Add(ctx context.Context, d *Document) error {
	rec := tablestore.Record{
		"DocumentID": d.DocumentID,
		"ResearchID": d.ResearchID,
		"DocType":    d.DocType,
		"FileName":   d.FileName,
		"FileExt":    d.FileExt,
		"Caption":    d.Caption,
		"Notes":      d.Notes,
	}
	if !d.CreatedAt.IsZero() {
		rec["CreatedAt"] = d.CreatedAt.UTC().Format(time.RFC3339)
	}
	return r.store.Upsert(ctx, TableDocuments, "DocumentID", rec)
}

func (r *DocumentRepoStore) ListByResearchID(ctx context.Context, researchID string) ([]*Document, error) {
	recs, err := r.store.Load(ctx, TableDocuments)
	if err != nil {
		return nil, err
	}
	var out []*Document
	for _, rec := range recs {
		if rec["ResearchID"] != researchID {
			continue
		}
		d := &Document{
			DocumentID: rec["DocumentID"],
			ResearchID: researchID,
			DocType:    rec["DocType"],
			FileName:   rec["FileName"],
			FileExt:    rec["FileExt"],
			Caption:    rec["Caption"],
			Notes:      rec["Notes"],
		}
		if t, err := time.Parse(time.RFC3339, rec["CreatedAt"]); err == nil {
			d.CreatedAt = t
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DocumentID < out[j].DocumentID })
	return out, nil
}

func (r *DocumentRepoStore) ListIDs(ctx context.Context) ([]string, error) {
	recs, err := r.store.Load(ctx, TableDocuments)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec["DocumentID"])
	}
	return ids, nil
}

func (r *DocumentRepoStore) Delete(ctx context.Context, documentID string) error {
	n, err := r.store.DeleteWhere(ctx, TableDocuments, func(rec tablestore.Record) bool {
		return rec["DocumentID"] == documentID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}
