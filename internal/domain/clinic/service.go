package clinic

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/oscc/capture/pkg/nad"
)

var validCategories = toSet(ClinicalCategories)
var validSexes = toSet(SexOptions)
var validImageCategories = toSet(ImageCategories)
var validProcedureCategories = toSet(ProcedureCategories)

func toSet(opts []string) map[string]bool {
	m := make(map[string]bool, len(opts))
	for _, o := range opts {
		m[o] = true
	}
	return m
}

type Service struct {
	patients   PatientRepository
	visits     VisitRepository
	images     ImageRepository
	treatments TreatmentRepository
}

func NewService(patients PatientRepository, visits VisitRepository, images ImageRepository, treatments TreatmentRepository) *Service {
	return &Service{patients: patients, visits: visits, images: images, treatments: treatments}
}

// -- Patients --

// SavePatient registers or updates a clinical patient. A blank ClinicalID
// gets the next CLIN-#### serial; CreatedAt survives updates.
func (s *Service) SavePatient(ctx context.Context, p *Patient) (*Patient, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if p.Age < 0 || p.Age > 120 {
		return nil, fmt.Errorf("age must be between 0 and 120")
	}
	if p.Sex != "" && !validSexes[p.Sex] {
		return nil, fmt.Errorf("invalid sex %q", p.Sex)
	}
	if p.ClinicalCategory != "" && !validCategories[p.ClinicalCategory] {
		return nil, fmt.Errorf("invalid clinical category %q", p.ClinicalCategory)
	}

	now := time.Now().UTC()
	p.ClinicalID = strings.TrimSpace(p.ClinicalID)
	if p.ClinicalID == "" {
		ids, err := s.patients.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		p.ClinicalID = NextClinicalID(ids)
		p.CreatedAt = now
	} else if prev, err := s.patients.GetByID(ctx, p.ClinicalID); err == nil {
		p.CreatedAt = prev.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.Phone = strings.TrimSpace(p.Phone)
	p.MRN = strings.TrimSpace(p.MRN)
	p.LinkedResearchID = strings.TrimSpace(p.LinkedResearchID)
	p.LinkedStudyID = strings.TrimSpace(p.LinkedStudyID)
	p.UpdatedAt = now
	if err := s.patients.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPatient(ctx context.Context, clinicalID string) (*Patient, error) {
	return s.patients.GetByID(ctx, clinicalID)
}

// ListPatients filters by a case-insensitive substring of name or
// ClinicalID and returns the latest patients first.
func (s *Service) ListPatients(ctx context.Context, search string) ([]*Patient, error) {
	all, err := s.patients.List(ctx)
	if err != nil {
		return nil, err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	var out []*Patient
	for _, p := range all {
		if search == "" ||
			strings.Contains(strings.ToLower(p.Name), search) ||
			strings.Contains(strings.ToLower(p.ClinicalID), search) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ClinicalID > out[j].ClinicalID
	})
	return out, nil
}

// DeletePatient removes a patient together with their visits, images and
// treatment log, and returns the number of dependent rows removed.
func (s *Service) DeletePatient(ctx context.Context, clinicalID string) (int, error) {
	if _, err := s.patients.GetByID(ctx, clinicalID); err != nil {
		return 0, err
	}
	removed := 0
	n, err := s.visits.DeleteByPatient(ctx, clinicalID)
	if err != nil {
		return removed, err
	}
	removed += n
	n, err = s.images.DeleteByPatient(ctx, clinicalID)
	if err != nil {
		return removed, err
	}
	removed += n
	n, err = s.treatments.DeleteByPatient(ctx, clinicalID)
	if err != nil {
		return removed, err
	}
	removed += n
	if err := s.patients.Delete(ctx, clinicalID); err != nil {
		return removed, err
	}
	return removed, nil
}

// -- Visits --

// SaveVisit records one clinical encounter. A visit without a VisitID is
// new: it gets the next per-patient visit number and <ClinicalID>-V<n>.
// Section NAD flags that contradict entered findings are cleared; the
// returned warnings name the corrected sections.
func (s *Service) SaveVisit(ctx context.Context, v *Visit) (*Visit, []string, error) {
	if _, err := s.patients.GetByID(ctx, v.ClinicalID); err != nil {
		return nil, nil, fmt.Errorf("unknown clinical patient %s", v.ClinicalID)
	}
	v.ChiefComplaint = strings.TrimSpace(v.ChiefComplaint)
	if v.ChiefComplaint == "" {
		return nil, nil, fmt.Errorf("chief complaint is required")
	}
	if v.Mode == "" {
		v.Mode = ModeSimple
	}
	if v.Mode != ModeSimple && v.Mode != ModeDetailed {
		return nil, nil, fmt.Errorf("invalid visit mode %q", v.Mode)
	}

	now := time.Now().UTC()
	v.VisitID = strings.TrimSpace(v.VisitID)
	if v.VisitID == "" {
		existing, err := s.visits.ListByPatient(ctx, v.ClinicalID)
		if err != nil {
			return nil, nil, err
		}
		maxNum := 0
		for _, ev := range existing {
			if ev.VisitNumber > maxNum {
				maxNum = ev.VisitNumber
			}
		}
		v.VisitNumber = maxNum + 1
		v.VisitID = VisitID(v.ClinicalID, v.VisitNumber)
		v.VisitDateTime = now
		v.CreatedAt = now
	} else {
		prev, err := s.visits.GetByID(ctx, v.VisitID)
		if err != nil {
			return nil, nil, err
		}
		v.VisitNumber = prev.VisitNumber
		v.VisitDateTime = prev.VisitDateTime
		v.CreatedAt = prev.CreatedAt
	}

	corrected := nad.ReconcileAll([]nad.Field{
		{Label: "Medical history", Text: v.MedicalHistory.Text, NAD: &v.MedicalHistory.NAD},
		{Label: "Dental history", Text: v.DentalHistory.Text, NAD: &v.DentalHistory.NAD},
		{Label: "Personal history", Text: v.PersonalHistory.Text, NAD: &v.PersonalHistory.NAD},
		{Label: "Family history", Text: v.FamilyHistory.Text, NAD: &v.FamilyHistory.NAD},
		{Label: "Extraoral exam", Text: v.ExtraoralExam.Text, NAD: &v.ExtraoralExam.NAD},
		{Label: "Intraoral exam", Text: v.IntraoralExam.Text, NAD: &v.IntraoralExam.NAD},
		{Label: "TMJ exam", Text: v.TMJExam.Text, NAD: &v.TMJExam.NAD},
		{Label: "Lymph nodes exam", Text: v.LymphNodesExam.Text, NAD: &v.LymphNodesExam.NAD},
		{Label: "Oral mucosa exam", Text: v.OralMucosaExam.Text, NAD: &v.OralMucosaExam.NAD},
		{Label: "Teeth/periodontal exam", Text: v.TeethExam.Text, NAD: &v.TeethExam.NAD},
		{Label: "Other findings", Text: v.OtherFindings.Text, NAD: &v.OtherFindings.NAD},
	})
	warnings := make([]string, 0, len(corrected))
	for _, label := range corrected {
		warnings = append(warnings, fmt.Sprintf("For %s, NAD was ticked but details were entered; saving NAD as false.", label))
	}

	v.UpdatedAt = now
	if err := s.visits.Upsert(ctx, v); err != nil {
		return nil, nil, err
	}
	return v, warnings, nil
}

func (s *Service) GetVisit(ctx context.Context, visitID string) (*Visit, error) {
	return s.visits.GetByID(ctx, visitID)
}

func (s *Service) ListVisits(ctx context.Context, clinicalID string) ([]*Visit, error) {
	return s.visits.ListByPatient(ctx, clinicalID)
}

func (s *Service) DeleteVisit(ctx context.Context, visitID string) error {
	return s.visits.Delete(ctx, visitID)
}

// -- Images and reports --

// AddImage records an uploaded photo or report. IDs run per patient as
// <ClinicalID>-IMG-001; the file type falls back to the file extension.
func (s *Service) AddImage(ctx context.Context, img *Image) (*Image, error) {
	if _, err := s.patients.GetByID(ctx, img.ClinicalID); err != nil {
		return nil, fmt.Errorf("unknown clinical patient %s", img.ClinicalID)
	}
	img.FileName = strings.TrimSpace(img.FileName)
	if img.FileName == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if img.Category != "" && !validImageCategories[img.Category] {
		return nil, fmt.Errorf("invalid image category %q", img.Category)
	}
	existing, err := s.images.ListByPatient(ctx, img.ClinicalID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.ImageID)
	}
	img.ImageID = NextImageID(ids, img.ClinicalID)
	if img.FileType == "" {
		img.FileType = strings.TrimPrefix(strings.ToLower(path.Ext(img.FileName)), ".")
	}
	now := time.Now().UTC()
	img.CreatedAt = now
	img.UpdatedAt = now
	if err := s.images.Add(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *Service) ListImages(ctx context.Context, clinicalID string) ([]*Image, error) {
	return s.images.ListByPatient(ctx, clinicalID)
}

func (s *Service) DeleteImage(ctx context.Context, imageID string) error {
	return s.images.Delete(ctx, imageID)
}

// -- Treatment log --

// AddTreatment appends one entry to a patient's treatment log with the
// next <ClinicalID>-TX-### serial.
func (s *Service) AddTreatment(ctx context.Context, tr *Treatment) (*Treatment, error) {
	if _, err := s.patients.GetByID(ctx, tr.ClinicalID); err != nil {
		return nil, fmt.Errorf("unknown clinical patient %s", tr.ClinicalID)
	}
	if tr.ProcedureCategory != "" && !validProcedureCategories[tr.ProcedureCategory] {
		return nil, fmt.Errorf("invalid procedure category %q", tr.ProcedureCategory)
	}
	existing, err := s.treatments.ListByPatient(ctx, tr.ClinicalID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(existing))
	for _, e := range existing {
		ids = append(ids, e.TreatmentID)
	}
	tr.TreatmentID = NextTreatmentID(ids, tr.ClinicalID)
	now := time.Now().UTC()
	if tr.TreatmentDateTime.IsZero() {
		tr.TreatmentDateTime = now
	}
	tr.CreatedAt = now
	tr.UpdatedAt = now
	if err := s.treatments.Add(ctx, tr); err != nil {
		return nil, err
	}
	return tr, nil
}

func (s *Service) ListTreatments(ctx context.Context, clinicalID string) ([]*Treatment, error) {
	return s.treatments.ListByPatient(ctx, clinicalID)
}

func (s *Service) DeleteTreatment(ctx context.Context, treatmentID string) error {
	return s.treatments.Delete(ctx, treatmentID)
}
