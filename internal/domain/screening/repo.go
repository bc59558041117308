package screening

import (
	"context"
	"errors"
)

var ErrScreeningNotFound = errors.New("screening not found")

type ScreeningRepository interface {
	Upsert(ctx context.Context, s *Screening) error
	GetByResearchID(ctx context.Context, researchID string) (*Screening, error)
	List(ctx context.Context) ([]*Screening, error)
}

// ParticipantSource resolves a ResearchID to the group and cohort held in
// the participant register. The register is the source of truth for both;
// screening never takes them from the client.
type ParticipantSource interface {
	GroupAndCohort(ctx context.Context, researchID string) (group, cohort string, err error)
}
