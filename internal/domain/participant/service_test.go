package participant

import (
	"context"
	"testing"
	"time"
)

// ── Mock Repositories ──

type mockRepo struct {
	data map[string]*Participant
}

func (m *mockRepo) Upsert(_ context.Context, p *Participant) error {
	cp := *p
	m.data[p.ResearchID] = &cp
	return nil
}
func (m *mockRepo) GetByID(_ context.Context, id string) (*Participant, error) {
	if p, ok := m.data[id]; ok {
		return p, nil
	}
	return nil, ErrParticipantNotFound
}
func (m *mockRepo) List(_ context.Context, studyID string) ([]*Participant, error) {
	var out []*Participant
	for _, p := range m.data {
		if studyID != "" && p.StudyID != studyID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
func (m *mockRepo) ListIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id := range m.data {
		ids = append(ids, id)
	}
	return ids, nil
}
func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.data[id]; !ok {
		return ErrParticipantNotFound
	}
	delete(m.data, id)
	return nil
}

type mockStatusSource struct {
	history map[string]bool
	samples map[string][]string
	frozen  map[string]bool
	inLab   map[string]bool
}

func (m *mockStatusSource) HasHistory(_ context.Context, rid string) (bool, error) {
	return m.history[rid], nil
}
func (m *mockStatusSource) SamplesFor(_ context.Context, rid string) ([]string, bool, error) {
	return m.samples[rid], m.frozen[rid], nil
}
func (m *mockStatusSource) InLab(_ context.Context, sampleIDs []string) (bool, error) {
	for _, id := range sampleIDs {
		if m.inLab[id] {
			return true, nil
		}
	}
	return false, nil
}

type mockCascade struct {
	deleted []string
	rows    int
}

func (m *mockCascade) DeleteParticipantData(_ context.Context, rid string) (int, error) {
	m.deleted = append(m.deleted, rid)
	return m.rows, nil
}

// ── Helper ──

func newTestService() (*Service, *mockRepo, *mockStatusSource, *mockCascade) {
	repo := &mockRepo{data: make(map[string]*Participant)}
	status := &mockStatusSource{
		history: make(map[string]bool),
		samples: make(map[string][]string),
		frozen:  make(map[string]bool),
		inLab:   make(map[string]bool),
	}
	cascade := &mockCascade{}
	return NewService(repo, status, cascade, nil), repo, status, cascade
}

// ── Registration Tests ──

func TestService_Register(t *testing.T) {
	svc, _, _, _ := newTestService()
	p := &Participant{StudyID: "OSCC_THESIS", Name: "P-01", Age: 45, Sex: "Male", Group: GroupCase, Cohort: "PILOT"}
	if err := svc.Register(nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ResearchID != "OSCC_PilotCA-001" {
		t.Errorf("expected OSCC_PilotCA-001, got %s", p.ResearchID)
	}
	if p.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestService_Register_MissingName(t *testing.T) {
	svc, _, _, _ := newTestService()
	p := &Participant{Group: GroupCase, Cohort: "MAIN"}
	if err := svc.Register(nil, p); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestService_Register_InvalidGroup(t *testing.T) {
	svc, _, _, _ := newTestService()
	p := &Participant{Name: "X", Group: "Patient"}
	if err := svc.Register(nil, p); err == nil {
		t.Error("expected error for invalid group")
	}
}

func TestService_Register_SequentialIDs(t *testing.T) {
	svc, _, _, _ := newTestService()
	for i, want := range []string{"OSCC_MainCA-001", "OSCC_MainCA-002", "OSCC_MainCA-003"} {
		p := &Participant{StudyID: "OSCC_THESIS", Name: "P", Age: 40, Group: GroupCase, Cohort: "MAIN"}
		if err := svc.Register(nil, p); err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if p.ResearchID != want {
			t.Errorf("expected %s, got %s", want, p.ResearchID)
		}
	}
}

func TestService_Update_PreservesCreatedAt(t *testing.T) {
	svc, repo, _, _ := newTestService()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.data["OSCC_MainCA-001"] = &Participant{ResearchID: "OSCC_MainCA-001", Name: "Old", CreatedAt: created}

	p := &Participant{ResearchID: "OSCC_MainCA-001", Name: "New", Age: 50}
	if err := svc.Update(nil, p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.CreatedAt.Equal(created) {
		t.Error("expected CreatedAt preserved on update")
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	p := &Participant{ResearchID: "missing", Name: "X"}
	if err := svc.Update(nil, p); err == nil {
		t.Error("expected error for unknown participant")
	}
}

// ── List Tests ──

func TestService_List_SearchAndOrder(t *testing.T) {
	svc, repo, _, _ := newTestService()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.data["OSCC_MainCA-001"] = &Participant{ResearchID: "OSCC_MainCA-001", Name: "Asha", CreatedAt: base}
	repo.data["OSCC_MainCA-002"] = &Participant{ResearchID: "OSCC_MainCA-002", Name: "Bina", CreatedAt: base.Add(time.Hour)}
	repo.data["OSCC_MainCO-001"] = &Participant{ResearchID: "OSCC_MainCO-001", Name: "Chand", CreatedAt: base.Add(2 * time.Hour)}

	items, err := svc.List(nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 participants, got %d", len(items))
	}
	if items[0].ResearchID != "OSCC_MainCO-001" {
		t.Errorf("expected newest first, got %s", items[0].ResearchID)
	}

	items, _ = svc.List(nil, "", "bina")
	if len(items) != 1 || items[0].Name != "Bina" {
		t.Errorf("expected name search to match Bina, got %v", items)
	}

	items, _ = svc.List(nil, "", "co-001")
	if len(items) != 1 || items[0].ResearchID != "OSCC_MainCO-001" {
		t.Errorf("expected ID search to match control, got %v", items)
	}
}

// ── Status Tests ──

func TestService_Status(t *testing.T) {
	svc, repo, status, _ := newTestService()
	rid := "OSCC_MainCA-001"
	repo.data[rid] = &Participant{ResearchID: rid, Name: "X"}
	status.samples[rid] = []string{rid + "-WS"}
	status.inLab[rid+"-WS"] = true

	st, err := svc.Status(nil, rid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Main != StatusInLab {
		t.Errorf("expected %q, got %q", StatusInLab, st.Main)
	}
}

func TestService_Status_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Status(nil, "missing"); err == nil {
		t.Error("expected error for unknown participant")
	}
}

// ── Delete Tests ──

func TestService_Delete_Cascades(t *testing.T) {
	svc, repo, _, cascade := newTestService()
	rid := "OSCC_MainCA-001"
	repo.data[rid] = &Participant{ResearchID: rid, Name: "X"}
	cascade.rows = 7

	removed, err := svc.Delete(nil, rid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 7 {
		t.Errorf("expected 7 dependent rows, got %d", removed)
	}
	if len(cascade.deleted) != 1 || cascade.deleted[0] != rid {
		t.Errorf("expected cascade for %s, got %v", rid, cascade.deleted)
	}
	if _, ok := repo.data[rid]; ok {
		t.Error("expected register row removed")
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	svc, _, _, cascade := newTestService()
	if _, err := svc.Delete(nil, "missing"); err == nil {
		t.Error("expected error for unknown participant")
	}
	if len(cascade.deleted) != 0 {
		t.Error("expected no cascade for unknown participant")
	}
}
