package sample

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Service struct {
	repo         SampleRepository
	participants ParticipantSource
	planned      PlannedTypes
}

func NewService(repo SampleRepository, participants ParticipantSource, planned PlannedTypes) *Service {
	return &Service{repo: repo, participants: participants, planned: planned}
}

// Save upserts a sample row. Cohort is stamped from the register and a
// blank SampleID is filled in: the existing sample of the same type is
// reused when one exists, otherwise a fresh default ID is minted. One
// sample row per participant and type.
func (s *Service) Save(ctx context.Context, smp *Sample) (*Sample, error) {
	smp.ResearchID = strings.TrimSpace(smp.ResearchID)
	if smp.ResearchID == "" {
		return nil, fmt.Errorf("research id is required")
	}
	if !ValidTypes[smp.SampleType] {
		return nil, fmt.Errorf("invalid sample type %q", smp.SampleType)
	}
	cohort, err := s.participants.Cohort(ctx, smp.ResearchID)
	if err != nil {
		return nil, fmt.Errorf("unknown participant %s", smp.ResearchID)
	}
	smp.Cohort = cohort
	if err := checkCustodyOrder(smp); err != nil {
		return nil, err
	}

	smp.SampleID = strings.TrimSpace(smp.SampleID)
	if smp.SampleID == "" {
		if prev, err := s.repo.GetByParticipantAndType(ctx, smp.ResearchID, smp.SampleType); err == nil {
			smp.SampleID = prev.SampleID
		} else {
			ids, err := s.repo.ListIDs(ctx)
			if err != nil {
				return nil, err
			}
			smp.SampleID = DefaultSampleID(smp.ResearchID, smp.SampleType, ids)
		}
	}
	smp.UpdatedAt = time.Now().UTC()
	if err := s.repo.Upsert(ctx, smp); err != nil {
		return nil, err
	}
	return smp, nil
}

// RecordEvent timestamps one chain-of-custody step on a sample. Ending
// collection applies the default volume for saliva-fraction types when
// none was entered.
func (s *Service) RecordEvent(ctx context.Context, sampleID, event string) (*Sample, error) {
	smp, err := s.repo.GetByID(ctx, sampleID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	switch event {
	case EventStartCollection:
		smp.CollectionStart = now
	case EventEndCollection:
		smp.CollectionEnd = now
		if smp.VolumeML <= 0 && defaultVolumeTypes[smp.SampleType] {
			smp.VolumeML = DefaultVolumeML
		}
	case EventPlacedInCryocan:
		smp.PlacedInCryocan = now
	case EventLabReceived:
		smp.LabReceived = true
	default:
		return nil, fmt.Errorf("unknown event %q", event)
	}
	smp.UpdatedAt = now
	if err := s.repo.Upsert(ctx, smp); err != nil {
		return nil, err
	}
	return smp, nil
}

func (s *Service) Get(ctx context.Context, sampleID string) (*Sample, error) {
	return s.repo.GetByID(ctx, sampleID)
}

func (s *Service) ListByParticipant(ctx context.Context, researchID string) ([]*Sample, error) {
	return s.repo.ListByResearchID(ctx, researchID)
}

// Planned lists the sample slots for a participant: one per planned type,
// each either filled by a collected sample or carrying the default ID the
// collection form would mint.
func (s *Service) Planned(ctx context.Context, researchID string) ([]PlannedSlot, error) {
	cohort, err := s.participants.Cohort(ctx, researchID)
	if err != nil {
		return nil, fmt.Errorf("unknown participant %s", researchID)
	}
	types := s.planned.PlannedTypesFor(ctx, researchID, cohort)
	collected, err := s.repo.ListByResearchID(ctx, researchID)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]*Sample, len(collected))
	for _, smp := range collected {
		byType[smp.SampleType] = smp
	}
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	slots := make([]PlannedSlot, 0, len(types))
	for _, t := range types {
		if smp, ok := byType[t]; ok {
			slots = append(slots, PlannedSlot{SampleType: t, SampleID: smp.SampleID, Collected: true, Sample: smp})
			continue
		}
		slots = append(slots, PlannedSlot{SampleType: t, SampleID: DefaultSampleID(researchID, t, ids)})
	}
	return slots, nil
}

// checkCustodyOrder enforces collection start <= collection end <= cryocan
// placement across whichever timestamps are set.
func checkCustodyOrder(smp *Sample) error {
	start, end, cryo := smp.CollectionStart, smp.CollectionEnd, smp.PlacedInCryocan
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("collection end precedes collection start")
	}
	if !end.IsZero() && !cryo.IsZero() && cryo.Before(end) {
		return fmt.Errorf("cryocan placement precedes collection end")
	}
	if !start.IsZero() && !cryo.IsZero() && cryo.Before(start) {
		return fmt.Errorf("cryocan placement precedes collection start")
	}
	return nil
}
