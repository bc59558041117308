package participant

import (
	"context"
	"errors"
)

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantRepository interface {
	Upsert(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, researchID string) (*Participant, error)
	List(ctx context.Context, studyID string) ([]*Participant, error)
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, researchID string) error
}

// StatusSource answers the questions the pipeline status is derived from.
// It reads the case history, sample, and lab tables owned by other domains.
type StatusSource interface {
	HasHistory(ctx context.Context, researchID string) (bool, error)
	SamplesFor(ctx context.Context, researchID string) (sampleIDs []string, inDeepFreezer bool, err error)
	InLab(ctx context.Context, sampleIDs []string) (bool, error)
}

// CascadeDeleter removes every row keyed by a ResearchID from the dependent
// research tables. Tables that do not exist yet are skipped.
type CascadeDeleter interface {
	DeleteParticipantData(ctx context.Context, researchID string) (int, error)
}
