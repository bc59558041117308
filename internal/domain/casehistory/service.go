package casehistory

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

type Service struct {
	history      HistoryRepository
	medications  MedicationRepository
	documents    DocumentRepository
	participants ParticipantChecker
}

func NewService(history HistoryRepository, medications MedicationRepository, documents DocumentRepository, participants ParticipantChecker) *Service {
	return &Service{history: history, medications: medications, documents: documents, participants: participants}
}

// SaveHistory upserts the history document and replaces the medication grid
// in one call, mirroring the single save action of the capture form. Empty
// medication rows are dropped and the rest re-indexed from 1. Section NAD
// flags contradicted by entered findings are cleared before the upsert; the
// returned warnings name the corrected sections. CreatedAt is preserved
// across saves.
func (s *Service) SaveHistory(ctx context.Context, researchID string, answers json.RawMessage, meds []*Medication) ([]string, error) {
	if researchID == "" {
		return nil, fmt.Errorf("research id is required")
	}
	ok, err := s.participants.Exists(ctx, researchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("participant %s not found", researchID)
	}
	if len(answers) > 0 && !json.Valid(answers) {
		return nil, fmt.Errorf("medical history must be valid JSON")
	}
	if len(answers) == 0 {
		answers = json.RawMessage("{}")
	}

	kept := make([]*Medication, 0, len(meds))
	idx := 1
	for _, m := range meds {
		if m == nil || m.Empty() {
			continue
		}
		m.ResearchID = researchID
		m.MedIndex = idx
		kept = append(kept, m)
		idx++
	}

	answers, warnings, err := reconcileNAD(answers, len(kept) > 0)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	h := &History{ResearchID: researchID, Answers: answers, CreatedAt: now, UpdatedAt: now}
	if prev, err := s.history.GetByResearchID(ctx, researchID); err == nil && !prev.CreatedAt.IsZero() {
		h.CreatedAt = prev.CreatedAt
	}
	if err := s.history.Upsert(ctx, h); err != nil {
		return nil, err
	}

	if err := s.medications.ReplaceForParticipant(ctx, researchID, kept); err != nil {
		return nil, err
	}
	return warnings, nil
}

func (s *Service) GetHistory(ctx context.Context, researchID string) (*History, []*Medication, error) {
	h, err := s.history.GetByResearchID(ctx, researchID)
	if err != nil {
		return nil, nil, err
	}
	meds, err := s.medications.ListByResearchID(ctx, researchID)
	if err != nil {
		return nil, nil, err
	}
	return h, meds, nil
}

// -- Documents --

// AddDocument registers an uploaded record, assigning the next
// <ResearchID>-DOC-NNN identifier.
func (s *Service) AddDocument(ctx context.Context, d *Document) error {
	if d.ResearchID == "" {
		return fmt.Errorf("research id is required")
	}
	if d.FileName == "" {
		return fmt.Errorf("file name is required")
	}
	ok, err := s.participants.Exists(ctx, d.ResearchID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("participant %s not found", d.ResearchID)
	}

	existing, err := s.documents.ListIDs(ctx)
	if err != nil {
		return err
	}
	d.DocumentID = nextDocumentID(existing, d.ResearchID)
	if d.FileExt == "" {
		d.FileExt = strings.TrimPrefix(path.Ext(d.FileName), ".")
	}
	d.CreatedAt = time.Now().UTC()
	return s.documents.Add(ctx, d)
}

func (s *Service) ListDocuments(ctx context.Context, researchID string) ([]*Document, error) {
	return s.documents.ListByResearchID(ctx, researchID)
}

func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	return s.documents.Delete(ctx, documentID)
}

// nextDocumentID builds IDs like OSCC_MainCA-001-DOC-001, continuing from
// the highest existing serial for the participant.
func nextDocumentID(existingIDs []string, researchID string) string {
	prefix := researchID + "-DOC-"
	max := 0
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, max+1)
}
