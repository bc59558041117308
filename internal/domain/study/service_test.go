package study

import (
	"context"
	"testing"
)

// ── Mock Repositories ──

type mockStudyRepo struct {
	data map[string]*Study
}

func (m *mockStudyRepo) Upsert(_ context.Context, s *Study) error {
	m.data[s.StudyID] = s
	return nil
}
func (m *mockStudyRepo) GetByID(_ context.Context, id string) (*Study, error) {
	if s, ok := m.data[id]; ok {
		return s, nil
	}
	return nil, ErrStudyNotFound
}
func (m *mockStudyRepo) List(_ context.Context) ([]*Study, error) {
	var out []*Study
	for _, s := range m.data {
		out = append(out, s)
	}
	return out, nil
}
func (m *mockStudyRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.data[id]; !ok {
		return ErrStudyNotFound
	}
	delete(m.data, id)
	return nil
}

type mockLabRepo struct {
	data map[string]*Lab
}

func (m *mockLabRepo) Upsert(_ context.Context, l *Lab) error {
	m.data[l.LabID] = l
	return nil
}
func (m *mockLabRepo) GetByID(_ context.Context, id string) (*Lab, error) {
	if l, ok := m.data[id]; ok {
		return l, nil
	}
	return nil, ErrLabNotFound
}
func (m *mockLabRepo) List(_ context.Context) ([]*Lab, error) {
	var out []*Lab
	for _, l := range m.data {
		out = append(out, l)
	}
	return out, nil
}
func (m *mockLabRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.data[id]; !ok {
		return ErrLabNotFound
	}
	delete(m.data, id)
	return nil
}

type mockInvestigatorRepo struct {
	data map[string]*Investigator
}

func (m *mockInvestigatorRepo) Upsert(_ context.Context, inv *Investigator) error {
	m.data[inv.InvestigatorID] = inv
	return nil
}
func (m *mockInvestigatorRepo) GetByID(_ context.Context, id string) (*Investigator, error) {
	if inv, ok := m.data[id]; ok {
		return inv, nil
	}
	return nil, ErrInvestigatorNotFound
}
func (m *mockInvestigatorRepo) List(_ context.Context) ([]*Investigator, error) {
	var out []*Investigator
	for _, inv := range m.data {
		out = append(out, inv)
	}
	return out, nil
}
func (m *mockInvestigatorRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.data[id]; !ok {
		return ErrInvestigatorNotFound
	}
	delete(m.data, id)
	return nil
}

// ── Helper ──

func newTestService() *Service {
	return NewService(
		&mockStudyRepo{data: make(map[string]*Study)},
		&mockLabRepo{data: make(map[string]*Lab)},
		&mockInvestigatorRepo{data: make(map[string]*Investigator)},
	)
}

// ── Study Tests ──

func TestService_SaveStudy(t *testing.T) {
	svc := newTestService()
	s := &Study{StudyID: "OSCC_SALIVA_2025", StudyName: "OSCC Saliva Biomarkers"}
	if err := svc.SaveStudy(nil, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Mode != ModeResearch {
		t.Errorf("expected default mode %q, got %q", ModeResearch, s.Mode)
	}
	if s.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestService_SaveStudy_MissingFields(t *testing.T) {
	svc := newTestService()
	for _, s := range []*Study{
		{StudyName: "No ID"},
		{StudyID: "NO_NAME"},
		{},
	} {
		if err := svc.SaveStudy(nil, s); err == nil {
			t.Errorf("expected error for study %+v", s)
		} else if err.Error() != "study id and study name are required" {
			t.Errorf("unexpected error message: %v", err)
		}
	}
}

func TestService_SaveStudy_InvalidMode(t *testing.T) {
	svc := newTestService()
	s := &Study{StudyID: "S1", StudyName: "N", Mode: "Pilot"}
	if err := svc.SaveStudy(nil, s); err == nil {
		t.Error("expected error for invalid mode")
	}
}

func TestService_SaveStudy_ValidModes(t *testing.T) {
	for _, mode := range []string{ModeResearch, ModeClinic, ModeHybrid} {
		svc := newTestService()
		s := &Study{StudyID: "S1", StudyName: "N", Mode: mode}
		if err := svc.SaveStudy(nil, s); err != nil {
			t.Errorf("mode %q should be valid, got error: %v", mode, err)
		}
	}
}

func TestService_SaveStudy_UpdateKeepsCreatedAt(t *testing.T) {
	svc := newTestService()
	s := &Study{StudyID: "S1", StudyName: "N"}
	svc.SaveStudy(nil, s)
	created := s.CreatedAt

	upd := &Study{StudyID: "S1", StudyName: "Renamed", CreatedAt: created}
	if err := svc.SaveStudy(nil, upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.GetStudy(nil, "S1")
	if got.StudyName != "Renamed" {
		t.Errorf("expected renamed study, got %s", got.StudyName)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("expected CreatedAt preserved on update")
	}
}

func TestService_DeleteStudy(t *testing.T) {
	svc := newTestService()
	s := &Study{StudyID: "S1", StudyName: "N"}
	svc.SaveStudy(nil, s)
	if err := svc.DeleteStudy(nil, "S1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetStudy(nil, "S1"); err == nil {
		t.Error("expected not found after delete")
	}
}

func TestService_DeleteStudy_NotFound(t *testing.T) {
	svc := newTestService()
	if err := svc.DeleteStudy(nil, "missing"); err == nil {
		t.Error("expected error for missing study")
	}
}

// ── Lab Tests ──

func TestService_SaveLab(t *testing.T) {
	svc := newTestService()
	l := &Lab{LabName: "Molecular Diagnostics"}
	if err := svc.SaveLab(nil, l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.LabID == "" {
		t.Error("expected LabID to be generated")
	}
}

func TestService_SaveLab_MissingName(t *testing.T) {
	svc := newTestService()
	if err := svc.SaveLab(nil, &Lab{LabType: "PCR"}); err == nil {
		t.Error("expected error for missing lab name")
	}
}

func TestService_SaveLab_KeepsExistingID(t *testing.T) {
	svc := newTestService()
	l := &Lab{LabID: "lab-1", LabName: "Genomics"}
	if err := svc.SaveLab(nil, l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.LabID != "lab-1" {
		t.Errorf("expected LabID preserved, got %s", l.LabID)
	}
}

// ── Investigator Tests ──

func TestService_SaveInvestigator(t *testing.T) {
	svc := newTestService()
	inv := &Investigator{Name: "Dr. Rao", Role: "PI"}
	if err := svc.SaveInvestigator(nil, inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.InvestigatorID == "" {
		t.Error("expected InvestigatorID to be generated")
	}
}

func TestService_SaveInvestigator_MissingName(t *testing.T) {
	svc := newTestService()
	if err := svc.SaveInvestigator(nil, &Investigator{Role: "PI"}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestService_DeleteInvestigator_NotFound(t *testing.T) {
	svc := newTestService()
	if err := svc.DeleteInvestigator(nil, "missing"); err == nil {
		t.Error("expected error for missing investigator")
	}
}
