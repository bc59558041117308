package screening

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	repo         ScreeningRepository
	participants ParticipantSource
}

func NewService(repo ScreeningRepository, participants ParticipantSource) *Service {
	return &Service{repo: repo, participants: participants}
}

// Save validates the answers, stamps Group and Cohort from the register,
// runs the eligibility evaluation, and upserts the record keyed by
// ResearchID. The evaluated record is written back to s.
func (s *Service) Save(ctx context.Context, scr *Screening) error {
	if scr.ResearchID == "" {
		return fmt.Errorf("research id is required")
	}
	if err := scr.Audit.Validate(); err != nil {
		return err
	}
	group, cohort, err := s.participants.GroupAndCohort(ctx, scr.ResearchID)
	if err != nil {
		return fmt.Errorf("participant %s: %w", scr.ResearchID, err)
	}
	scr.Group = group
	scr.Cohort = cohort

	Evaluate(scr)
	scr.UpdatedAt = time.Now().UTC()
	return s.repo.Upsert(ctx, scr)
}

func (s *Service) Get(ctx context.Context, researchID string) (*Screening, error) {
	return s.repo.GetByResearchID(ctx, researchID)
}

// List returns the eligibility overview across all screened participants.
func (s *Service) List(ctx context.Context) ([]*Screening, error) {
	return s.repo.List(ctx)
}
