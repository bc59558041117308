package casehistory

import (
	"context"
	"errors"
)

var (
	ErrHistoryNotFound  = errors.New("case history not found")
	ErrDocumentNotFound = errors.New("document not found")
)

type HistoryRepository interface {
	Upsert(ctx context.Context, h *History) error
	GetByResearchID(ctx context.Context, researchID string) (*History, error)
}

type MedicationRepository interface {
	ReplaceForParticipant(ctx context.Context, researchID string, meds []*Medication) error
	ListByResearchID(ctx context.Context, researchID string) ([]*Medication, error)
}

type DocumentRepository interface {
	Add(ctx context.Context, d *Document) error
	ListByResearchID(ctx context.Context, researchID string) ([]*Document, error)
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, documentID string) error
}

// ParticipantChecker verifies a ResearchID exists in the register.
type ParticipantChecker interface {
	Exists(ctx context.Context, researchID string) (bool, error)
}
