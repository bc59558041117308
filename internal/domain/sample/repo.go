package sample

import (
	"context"
	"errors"
)

var ErrSampleNotFound = errors.New("sample not found")

type SampleRepository interface {
	Upsert(ctx context.Context, s *Sample) error
	GetByID(ctx context.Context, sampleID string) (*Sample, error)
	GetByParticipantAndType(ctx context.Context, researchID, sampleType string) (*Sample, error)
	ListByResearchID(ctx context.Context, researchID string) ([]*Sample, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// ParticipantSource resolves a ResearchID to its registered cohort.
type ParticipantSource interface {
	Cohort(ctx context.Context, researchID string) (string, error)
}

// PlannedTypes answers which sample types are planned for a participant,
// honoring the consent record and falling back to cohort defaults.
type PlannedTypes interface {
	PlannedTypesFor(ctx context.Context, researchID, cohort string) []string
}
