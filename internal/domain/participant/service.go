package participant

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oscc/capture/internal/platform/blobstore"
)

type Service struct {
	repo    ParticipantRepository
	status  StatusSource
	cascade CascadeDeleter
	blobs   blobstore.BlobStore
}

// NewService wires the participant register. blobs may be nil; file cleanup
// on delete is then skipped.
func NewService(repo ParticipantRepository, status StatusSource, cascade CascadeDeleter, blobs blobstore.BlobStore) *Service {
	return &Service{repo: repo, status: status, cascade: cascade, blobs: blobs}
}

var validGroups = map[string]bool{
	GroupCase:    true,
	GroupControl: true,
}

// Register creates a participant, generating the next ResearchID for the
// study and group. The generated ID is written back to p.
func (s *Service) Register(ctx context.Context, p *Participant) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !validGroups[p.Group] {
		return fmt.Errorf("invalid group: %s", p.Group)
	}
	if p.Cohort == "" {
		p.Cohort = "MAIN"
	}
	if p.Age < 0 || p.Age > 120 {
		return fmt.Errorf("age must be between 0 and 120")
	}

	existing, err := s.repo.ListIDs(ctx)
	if err != nil {
		return err
	}
	p.ResearchID = GenerateResearchID(p.StudyID, p.Group, p.Cohort, existing)
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.CreatedAt = time.Now().UTC()

	return s.repo.Upsert(ctx, p)
}

// Update saves changes to an existing participant. The ResearchID must
// already exist; registration is the only path that mints IDs.
func (s *Service) Update(ctx context.Context, p *Participant) error {
	if p.ResearchID == "" {
		return fmt.Errorf("research id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	cur, err := s.repo.GetByID(ctx, p.ResearchID)
	if err != nil {
		return err
	}
	p.CreatedAt = cur.CreatedAt
	p.Name = strings.TrimSpace(p.Name)
	return s.repo.Upsert(ctx, p)
}

func (s *Service) Get(ctx context.Context, researchID string) (*Participant, error) {
	return s.repo.GetByID(ctx, researchID)
}

// List returns participants for a study (all studies when studyID is empty),
// newest first, optionally filtered by a case-insensitive substring match on
// ResearchID or name.
func (s *Service) List(ctx context.Context, studyID, search string) ([]*Participant, error) {
	items, err := s.repo.List(ctx, studyID)
	if err != nil {
		return nil, err
	}
	if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
		filtered := items[:0]
		for _, p := range items {
			if strings.Contains(strings.ToLower(p.ResearchID), q) ||
				strings.Contains(strings.ToLower(p.Name), q) {
				filtered = append(filtered, p)
			}
		}
		items = filtered
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ResearchID > items[j].ResearchID
	})
	return items, nil
}

// Status derives the pipeline position of a participant.
func (s *Service) Status(ctx context.Context, researchID string) (*Status, error) {
	if _, err := s.repo.GetByID(ctx, researchID); err != nil {
		return nil, err
	}
	hasHistory, err := s.status.HasHistory(ctx, researchID)
	if err != nil {
		return nil, err
	}
	sampleIDs, inFreezer, err := s.status.SamplesFor(ctx, researchID)
	if err != nil {
		return nil, err
	}
	inLab, err := s.status.InLab(ctx, sampleIDs)
	if err != nil {
		return nil, err
	}
	main, detail := ComputeStatus(hasHistory, len(sampleIDs) > 0, inFreezer, inLab)
	return &Status{ResearchID: researchID, Main: main, Detail: detail}, nil
}

// Delete removes a participant and every dependent row, returning how many
// dependent rows went with it. Dependent tables are cleared first and the
// register row last. Stored files are cleaned up best effort; a blob failure
// does not fail the delete.
func (s *Service) Delete(ctx context.Context, researchID string) (int, error) {
	if _, err := s.repo.GetByID(ctx, researchID); err != nil {
		return 0, err
	}
	removed, err := s.cascade.DeleteParticipantData(ctx, researchID)
	if err != nil {
		return removed, fmt.Errorf("cascade delete for %s: %w", researchID, err)
	}
	if err := s.repo.Delete(ctx, researchID); err != nil {
		return removed, err
	}

	if s.blobs != nil {
		s.deleteBlobs(ctx, researchID)
	}
	return removed, nil
}

func (s *Service) deleteBlobs(ctx context.Context, researchID string) {
	metas, _, err := s.blobs.ListBySubject(ctx, researchID, "", 1000, 0)
	if err != nil {
		return
	}
	for _, m := range metas {
		_ = s.blobs.Delete(ctx, m.ID)
	}
}
