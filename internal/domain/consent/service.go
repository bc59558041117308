package consent

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Sample types selectable in the consent form.
var validSampleTypes = map[string]bool{
	"WS":         true,
	"WS+EC":      true,
	"EC":         true,
	"SalivaMain": true,
}

type Service struct {
	repo         ConsentRepository
	participants ParticipantSource
	studies      StudyDefaults
}

// NewService wires the consent register. studies may be nil; the
// per-study consent taker fallback is then skipped.
func NewService(repo ConsentRepository, participants ParticipantSource, studies StudyDefaults) *Service {
	return &Service{repo: repo, participants: participants, studies: studies}
}

// Save upserts the consent record for a participant. CohortAtConsent is
// stamped from the register, the consent timestamp is set to now, and a
// blank ConsentTakenBy falls back to the study default. The pilot addendum
// flag is cleared for non-pilot cohorts. studyID carries the caller's
// active study and is only used for the fallback.
func (s *Service) Save(ctx context.Context, studyID string, c *Consent) error {
	if c.ResearchID == "" {
		return fmt.Errorf("research id is required")
	}
	cohort, err := s.participants.Cohort(ctx, c.ResearchID)
	if err != nil {
		return fmt.Errorf("participant %s: %w", c.ResearchID, err)
	}
	c.CohortAtConsent = cohort

	if c.Language == "" {
		c.Language = "EN"
	}
	if !ValidLanguages[c.Language] {
		return fmt.Errorf("unsupported consent language: %s", c.Language)
	}
	for _, st := range c.PlannedSampleTypes {
		if !validSampleTypes[st] {
			return fmt.Errorf("unknown sample type: %s", st)
		}
	}

	c.ConsentTakenBy = strings.TrimSpace(c.ConsentTakenBy)
	if c.ConsentTakenBy == "" && s.studies != nil && studyID != "" {
		if taker, err := s.studies.DefaultConsentTaker(ctx, studyID); err == nil {
			c.ConsentTakenBy = taker
		}
	}
	if c.ConsentTakenBy == "" {
		return fmt.Errorf("consent taken by is required")
	}

	if !strings.HasPrefix(strings.ToUpper(cohort), "PILOT") {
		c.PilotExtraExplained = false
	}

	c.ConsentLocation = strings.TrimSpace(c.ConsentLocation)
	c.ConsentDateTime = time.Now().UTC()
	return s.repo.Upsert(ctx, c)
}

func (s *Service) Get(ctx context.Context, researchID string) (*Consent, error) {
	return s.repo.GetByResearchID(ctx, researchID)
}

func (s *Service) List(ctx context.Context) ([]*Consent, error) {
	return s.repo.List(ctx)
}

// PlannedTypesFor returns the sample types recorded at consent, or the
// cohort defaults when no consent record or selection exists. Pilot cohorts
// collect the three-fraction protocol; everything else collects the single
// main sample.
func (s *Service) PlannedTypesFor(ctx context.Context, researchID, cohort string) []string {
	if c, err := s.repo.GetByResearchID(ctx, researchID); err == nil && len(c.PlannedSampleTypes) > 0 {
		return c.PlannedSampleTypes
	}
	if strings.HasPrefix(strings.ToUpper(cohort), "PILOT") {
		return []string{"WS", "WS+EC", "EC"}
	}
	return []string{"SalivaMain"}
}
