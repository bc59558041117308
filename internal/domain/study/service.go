package study

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	studies       StudyRepository
	labs          LabRepository
	investigators InvestigatorRepository
}

func NewService(studies StudyRepository, labs LabRepository, investigators InvestigatorRepository) *Service {
	return &Service{studies: studies, labs: labs, investigators: investigators}
}

// -- Studies --

var validModes = map[string]bool{
	ModeResearch: true,
	ModeClinic:   true,
	ModeHybrid:   true,
}

func (s *Service) SaveStudy(ctx context.Context, st *Study) error {
	if st.StudyID == "" || st.StudyName == "" {
		return fmt.Errorf("study id and study name are required")
	}
	if st.Mode == "" {
		st.Mode = ModeResearch
	}
	if !validModes[st.Mode] {
		return fmt.Errorf("invalid mode: %s", st.Mode)
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	return s.studies.Upsert(ctx, st)
}

func (s *Service) GetStudy(ctx context.Context, id string) (*Study, error) {
	return s.studies.GetByID(ctx, id)
}

func (s *Service) ListStudies(ctx context.Context) ([]*Study, error) {
	return s.studies.List(ctx)
}

// DeleteStudy removes the study row only. Participant and sample rows keep
// their StudyID strings so historical data stays attributable.
func (s *Service) DeleteStudy(ctx context.Context, id string) error {
	return s.studies.Delete(ctx, id)
}

// -- Labs --

func (s *Service) SaveLab(ctx context.Context, l *Lab) error {
	if l.LabName == "" {
		return fmt.Errorf("lab name is required")
	}
	if l.LabID == "" {
		l.LabID = uuid.New().String()
	}
	return s.labs.Upsert(ctx, l)
}

func (s *Service) GetLab(ctx context.Context, id string) (*Lab, error) {
	return s.labs.GetByID(ctx, id)
}

func (s *Service) ListLabs(ctx context.Context) ([]*Lab, error) {
	return s.labs.List(ctx)
}

func (s *Service) DeleteLab(ctx context.Context, id string) error {
	return s.labs.Delete(ctx, id)
}

// -- Investigators --

func (s *Service) SaveInvestigator(ctx context.Context, inv *Investigator) error {
	if inv.Name == "" {
		return fmt.Errorf("name is required")
	}
	if inv.InvestigatorID == "" {
		inv.InvestigatorID = uuid.New().String()
	}
	return s.investigators.Upsert(ctx, inv)
}

func (s *Service) GetInvestigator(ctx context.Context, id string) (*Investigator, error) {
	return s.investigators.GetByID(ctx, id)
}

func (s *Service) ListInvestigators(ctx context.Context) ([]*Investigator, error) {
	return s.investigators.List(ctx)
}

func (s *Service) DeleteInvestigator(ctx context.Context, id string) error {
	return s.investigators.Delete(ctx, id)
}
