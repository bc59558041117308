package labwork

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	labs    LabResultRepository
	risks   RiskResultRepository
	samples SampleSource
}

func NewService(labs LabResultRepository, risks RiskResultRepository, samples SampleSource) *Service {
	return &Service{labs: labs, risks: risks, samples: samples}
}

// -- Lab results --

// SaveLabResult upserts the lab record for a sample. The SampleID must
// exist in the collection register; ResearchID, SampleType, Cohort and the
// pilot flag are stamped from the register rather than trusted from the
// caller.
func (s *Service) SaveLabResult(ctx context.Context, r *LabResult) error {
	r.SampleID = strings.TrimSpace(r.SampleID)
	if r.SampleID == "" {
		return fmt.Errorf("sample id is required")
	}
	info, err := s.samples.SampleInfo(ctx, r.SampleID)
	if err != nil {
		return fmt.Errorf("unknown sample id %s", r.SampleID)
	}
	r.ResearchID = info.ResearchID
	r.SampleType = info.SampleType
	r.Cohort = info.Cohort
	if strings.HasPrefix(strings.ToUpper(info.Cohort), "PILOT") {
		r.IsPilotSample = "Yes"
	} else {
		r.IsPilotSample = "No"
	}
	r.UpdatedAt = time.Now().UTC()
	return s.labs.Upsert(ctx, r)
}

func (s *Service) GetLabResult(ctx context.Context, sampleID string) (*LabResult, error) {
	return s.labs.GetBySampleID(ctx, sampleID)
}

func (s *Service) ListLabResults(ctx context.Context) ([]*LabResult, error) {
	return s.labs.List(ctx)
}

func (s *Service) ListLabResultsByParticipant(ctx context.Context, researchID string) ([]*LabResult, error) {
	return s.labs.ListByResearchID(ctx, researchID)
}

// -- Risk results --

// SaveRiskResult upserts the risk-panel record for a sample. Identity
// fields come from the collection register; the score, category and
// threshold are recorded exactly as the risk tool reported them.
func (s *Service) SaveRiskResult(ctx context.Context, r *RiskResult) error {
	r.SampleID = strings.TrimSpace(r.SampleID)
	if r.SampleID == "" {
		return fmt.Errorf("sample id is required")
	}
	if strings.TrimSpace(r.PanelName) == "" {
		return fmt.Errorf("panel name is required")
	}
	if strings.TrimSpace(r.RiskToolName) == "" {
		return fmt.Errorf("risk tool name is required")
	}
	info, err := s.samples.SampleInfo(ctx, r.SampleID)
	if err != nil {
		return fmt.Errorf("unknown sample id %s", r.SampleID)
	}
	r.ResearchID = info.ResearchID
	r.Cohort = info.Cohort
	if r.RiskDateTime.IsZero() {
		r.RiskDateTime = time.Now().UTC()
	}
	return s.risks.Upsert(ctx, r)
}

func (s *Service) GetRiskResult(ctx context.Context, sampleID string) (*RiskResult, error) {
	return s.risks.GetBySampleID(ctx, sampleID)
}

func (s *Service) ListRiskResults(ctx context.Context) ([]*RiskResult, error) {
	return s.risks.List(ctx)
}

func (s *Service) ListRiskResultsByParticipant(ctx context.Context, researchID string) ([]*RiskResult, error) {
	return s.risks.ListByResearchID(ctx, researchID)
}
