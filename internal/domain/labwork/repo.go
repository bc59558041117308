package labwork

import (
	"context"
	"errors"
)

var (
	ErrLabResultNotFound  = errors.New("lab result not found")
	ErrRiskResultNotFound = errors.New("risk result not found")
	ErrUnknownSample      = errors.New("unknown sample id")
)

type LabResultRepository interface {
	Upsert(ctx context.Context, r *LabResult) error
	GetBySampleID(ctx context.Context, sampleID string) (*LabResult, error)
	List(ctx context.Context) ([]*LabResult, error)
	ListByResearchID(ctx context.Context, researchID string) ([]*LabResult, error)
}

type RiskResultRepository interface {
	Upsert(ctx context.Context, r *RiskResult) error
	GetBySampleID(ctx context.Context, sampleID string) (*RiskResult, error)
	List(ctx context.Context) ([]*RiskResult, error)
	ListByResearchID(ctx context.Context, researchID string) ([]*RiskResult, error)
}

// SampleInfo is the slice of the sample register the lab needs to stamp
// onto incoming results.
type SampleInfo struct {
	ResearchID string
	SampleType string
	Cohort     string
}

// SampleSource resolves a SampleID against the collection register.
type SampleSource interface {
	SampleInfo(ctx context.Context, sampleID string) (SampleInfo, error)
}
