package consent

import (
	"context"
	"errors"
)

var ErrConsentNotFound = errors.New("consent not found")

type ConsentRepository interface {
	Upsert(ctx context.Context, c *Consent) error
	GetByResearchID(ctx context.Context, researchID string) (*Consent, error)
	List(ctx context.Context) ([]*Consent, error)
}

// ParticipantSource resolves a ResearchID to its registered cohort.
type ParticipantSource interface {
	Cohort(ctx context.Context, researchID string) (string, error)
}

// StudyDefaults supplies per-study fallbacks applied at save time.
type StudyDefaults interface {
	DefaultConsentTaker(ctx context.Context, studyID string) (string, error)
}
