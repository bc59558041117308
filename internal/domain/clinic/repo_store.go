package clinic

import (
	"context"
	"sort"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const (
	TablePatients   = "clinical_patients"
	TableVisits     = "clinical_visits"
	TableImages     = "clinical_images_reports"
	TableTreatments = "clinical_treatments"
)

// Schema declares the clinical-module tables.
var Schema = tablestore.Schema{
	TablePatients: {
		"ClinicalID", "Name", "Age", "Sex", "Phone", "MRN",
		"Address", "City", "State", "PIN", "Email",
		"ClinicalCategory", "LinkedResearchID", "LinkedStudyID",
		"CreatedAt", "UpdatedAt",
	},
	TableVisits: {
		"ClinicalID", "VisitID", "VisitNumber", "VisitDateTime", "Mode",
		"ChiefComplaint", "HOPI",
		"MedicalHistory", "MedicalHistory_NAD",
		"DentalHistory", "DentalHistory_NAD",
		"PersonalHistory", "PersonalHistory_NAD",
		"FamilyHistory", "FamilyHistory_NAD",
		"ExtraoralExam", "ExtraoralExam_NAD",
		"IntraoralExam", "IntraoralExam_NAD",
		"TMJExam", "TMJExam_NAD",
		"LymphNodesExam", "LymphNodesExam_NAD",
		"OralMucosaExam", "OralMucosaExam_NAD",
		"TeethExam", "TeethExam_NAD",
		"OtherFindings", "OtherFindings_NAD",
		"ProvisionalDiagnosis", "AdditionalNotes", "VoiceNoteFile",
		"CreatedAt", "UpdatedAt",
	},
	TableImages: {
		"ImageID", "ClinicalID", "VisitID", "Category",
		"FileName", "FileType", "Caption", "Notes",
		"TakenBy", "Location", "IsPrimaryLesion",
		"CreatedAt", "UpdatedAt",
	},
	TableTreatments: {
		"TreatmentID", "ClinicalID", "VisitID", "TreatmentDateTime",
		"ProcedureCategory", "ToothOrSite", "ProcedureDetails",
		"Provider", "Location", "Notes", "NoTreatmentToday",
		"CreatedAt", "UpdatedAt",
	},
}

func setTime(rec tablestore.Record, col string, t time.Time) {
	if !t.IsZero() {
		rec[col] = t.UTC().Format(time.RFC3339)
	}
}

func getTime(rec tablestore.Record, col string) time.Time {
	t, err := time.Parse(time.RFC3339, rec[col])
	if err != nil {
		return time.Time{}
	}
	return t
}

// ── Patients ──

type PatientRepoStore struct {
	store tablestore.Store
}

func NewPatientRepoStore(store tablestore.Store) *PatientRepoStore {
	return &PatientRepoStore{store: store}
}

func patientToRecord(p *Patient) tablestore.Record {
	rec := tablestore.Record{
		"ClinicalID":       p.ClinicalID,
		"Name":             p.Name,
		"Sex":              p.Sex,
		"Phone":            p.Phone,
		"MRN":              p.MRN,
		"Address":          p.Address,
		"City":             p.City,
		"State":            p.State,
		"PIN":              p.PIN,
		"Email":            p.Email,
		"ClinicalCategory": p.ClinicalCategory,
		"LinkedResearchID": p.LinkedResearchID,
		"LinkedStudyID":    p.LinkedStudyID,
	}
	rec.SetInt("Age", p.Age)
	setTime(rec, "CreatedAt", p.CreatedAt)
	setTime(rec, "UpdatedAt", p.UpdatedAt)
	return rec
}

func patientFromRecord(rec tablestore.Record) *Patient {
	return &Patient{
		ClinicalID:       rec["ClinicalID"],
		Name:             rec["Name"],
		Age:              rec.Int("Age"),
		Sex:              rec["Sex"],
		Phone:            rec["Phone"],
		MRN:              rec["MRN"],
		Address:          rec["Address"],
		City:             rec["City"],
		State:            rec["State"],
		PIN:              rec["PIN"],
		Email:            rec["Email"],
		ClinicalCategory: rec["ClinicalCategory"],
		LinkedResearchID: rec["LinkedResearchID"],
		LinkedStudyID:    rec["LinkedStudyID"],
		CreatedAt:        getTime(rec, "CreatedAt"),
		UpdatedAt:        getTime(rec, "UpdatedAt"),
	}
}

func (r *PatientRepoStore) Upsert(ctx context.Context, p *Patient) error {
	return r.store.Upsert(ctx, TablePatients, "ClinicalID", patientToRecord(p))
}

func (r *PatientRepoStore) GetByID(ctx context.Context, clinicalID string) (*Patient, error) {
	recs, err := r.store.Load(ctx, TablePatients)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["ClinicalID"] == clinicalID {
			return patientFromRecord(rec), nil
		}
	}
	return nil, ErrPatientNotFound
}

func (r *PatientRepoStore) List(ctx context.Context) ([]*Patient, error) {
	recs, err := r.store.Load(ctx, TablePatients)
	if err != nil {
		return nil, err
	}
	out := make([]*Patient, 0, len(recs))
	for _, rec := range recs {
		out = append(out, patientFromRecord(rec))
	}
	return out, nil
}

func (r *PatientRepoStore) ListIDs(ctx context.Context) ([]string, error) {
	recs, err := r.store.Load(ctx, TablePatients)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec["ClinicalID"])
	}
	return ids, nil
}

func (r *PatientRepoStore) Delete(ctx context.Context, clinicalID string) error {
	n, err := r.store.DeleteWhere(ctx, TablePatients, func(rec tablestore.Record) bool {
		return rec["ClinicalID"] == clinicalID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// ── Visits ──

type VisitRepoStore struct {
	store tablestore.Store
}

func NewVisitRepoStore(store tablestore.Store) *VisitRepoStore {
	return &VisitRepoStore{store: store}
}

func setSection(rec tablestore.Record, col string, s Section) {
	rec[col] = s.Text
	rec.SetBool(col+"_NAD", s.NAD)
}

func getSection(rec tablestore.Record, col string) Section {
	return Section{Text: rec[col], NAD: rec.Bool(col + "_NAD")}
}

func visitToRecord(v *Visit) tablestore.Record {
	rec := tablestore.Record{
		"ClinicalID":           v.ClinicalID,
		"VisitID":              v.VisitID,
		"Mode":                 v.Mode,
		"ChiefComplaint":       v.ChiefComplaint,
		"HOPI":                 v.HOPI,
		"ProvisionalDiagnosis": v.ProvisionalDiagnosis,
		"AdditionalNotes":      v.AdditionalNotes,
		"VoiceNoteFile":        v.VoiceNoteFile,
	}
	rec.SetInt("VisitNumber", v.VisitNumber)
	setSection(rec, "MedicalHistory", v.MedicalHistory)
	setSection(rec, "DentalHistory", v.DentalHistory)
	setSection(rec, "PersonalHistory", v.PersonalHistory)
	setSection(rec, "FamilyHistory", v.FamilyHistory)
	setSection(rec, "ExtraoralExam", v.ExtraoralExam)
	setSection(rec, "IntraoralExam", v.IntraoralExam)
	setSection(rec, "TMJExam", v.TMJExam)
	setSection(rec, "LymphNodesExam", v.LymphNodesExam)
	setSection(rec, "OralMucosaExam", v.OralMucosaExam)
	setSection(rec, "TeethExam", v.TeethExam)
	setSection(rec, "OtherFindings", v.OtherFindings)
	setTime(rec, "VisitDateTime", v.VisitDateTime)
	setTime(rec, "CreatedAt", v.CreatedAt)
	setTime(rec, "UpdatedAt", v.UpdatedAt)
	return rec
}

func visitFromRecord(rec tablestore.Record) *Visit {
	return &Visit{
		ClinicalID:           rec["ClinicalID"],
		VisitID:              rec["VisitID"],
		VisitNumber:          rec.Int("VisitNumber"),
		VisitDateTime:        getTime(rec, "VisitDateTime"),
		Mode:                 rec["Mode"],
		ChiefComplaint:       rec["ChiefComplaint"],
		HOPI:                 rec["HOPI"],
		MedicalHistory:       getSection(rec, "MedicalHistory"),
		DentalHistory:        getSection(rec, "DentalHistory"),
		PersonalHistory:      getSection(rec, "PersonalHistory"),
		FamilyHistory:        getSection(rec, "FamilyHistory"),
		ExtraoralExam:        getSection(rec, "ExtraoralExam"),
		IntraoralExam:        getSection(rec, "IntraoralExam"),
		TMJExam:              getSection(rec, "TMJExam"),
		LymphNodesExam:       getSection(rec, "LymphNodesExam"),
		OralMucosaExam:       getSection(rec, "OralMucosaExam"),
		TeethExam:            getSection(rec, "TeethExam"),
		OtherFindings:        getSection(rec, "OtherFindings"),
		ProvisionalDiagnosis: rec["ProvisionalDiagnosis"],
		AdditionalNotes:      rec["AdditionalNotes"],
		VoiceNoteFile:        rec["VoiceNoteFile"],
		CreatedAt:            getTime(rec, "CreatedAt"),
		UpdatedAt:            getTime(rec, "UpdatedAt"),
	}
}

func (r *VisitRepoStore) Upsert(ctx context.Context, v *Visit) error {
	return r.store.Upsert(ctx, TableVisits, "VisitID", visitToRecord(v))
}

func (r *VisitRepoStore) GetByID(ctx context.Context, visitID string) (*Visit, error) {
	recs, err := r.store.Load(ctx, TableVisits)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["VisitID"] == visitID {
			return visitFromRecord(rec), nil
		}
	}
	return nil, ErrVisitNotFound
}

func (r *VisitRepoStore) ListByPatient(ctx context.Context, clinicalID string) ([]*Visit, error) {
	recs, err := r.store.Load(ctx, TableVisits)
	if err != nil {
		return nil, err
	}
	var out []*Visit
	for _, rec := range recs {
		if rec["ClinicalID"] == clinicalID {
			out = append(out, visitFromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitNumber > out[j].VisitNumber })
	return out, nil
}

func (r *VisitRepoStore) Delete(ctx context.Context, visitID string) error {
	n, err := r.store.DeleteWhere(ctx, TableVisits, func(rec tablestore.Record) bool {
		return rec["VisitID"] == visitID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVisitNotFound
	}
	return nil
}

func (r *VisitRepoStore) DeleteByPatient(ctx context.Context, clinicalID string) (int, error) {
	return r.store.DeleteWhere(ctx, TableVisits, func(rec tablestore.Record) bool {
		return rec["ClinicalID"] == clinicalID
	})
}

// ── Images ──

type ImageRepoStore struct {
	store tablestore.Store
}

func NewImageRepoStore(store tablestore.Store) *ImageRepoStore {
	return &ImageRepoStore{store: store}
}

func imageToRecord(img *Image) tablestore.Record {
	rec := tablestore.Record{
		"ImageID":    img.ImageID,
		"ClinicalID": img.ClinicalID,
		"VisitID":    img.VisitID,
		"Category":   img.Category,
		"FileName":   img.FileName,
		"FileType":   img.FileType,
		"Caption":    img.Caption,
		"Notes":      img.Notes,
		"TakenBy":    img.TakenBy,
		"Location":   img.Location,
	}
	rec.SetBool("IsPrimaryLesion", img.IsPrimaryLesion)
	setTime(rec, "CreatedAt", img.CreatedAt)
	setTime(rec, "UpdatedAt", img.UpdatedAt)
	return rec
}

func imageFromRecord(rec tablestore.Record) *Image {
	return &Image{
		ImageID:         rec["ImageID"],
		ClinicalID:      rec["ClinicalID"],
		VisitID:         rec["VisitID"],
		Category:        rec["Category"],
		FileName:        rec["FileName"],
		FileType:        rec["FileType"],
		Caption:         rec["Caption"],
		Notes:           rec["Notes"],
		TakenBy:         rec["TakenBy"],
		Location:        rec["Location"],
		IsPrimaryLesion: rec.Bool("IsPrimaryLesion"),
		CreatedAt:       getTime(rec, "CreatedAt"),
		UpdatedAt:       getTime(rec, "UpdatedAt"),
	}
}

func (r *ImageRepoStore) Add(ctx context.Context, img *Image) error {
	return r.store.Upsert(ctx, TableImages, "ImageID", imageToRecord(img))
}

func (r *ImageRepoStore) GetByID(ctx context.Context, imageID string) (*Image, error) {
	recs, err := r.store.Load(ctx, TableImages)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["ImageID"] == imageID {
			return imageFromRecord(rec), nil
		}
	}
	return nil, ErrImageNotFound
}

func (r *ImageRepoStore) ListByPatient(ctx context.Context, clinicalID string) ([]*Image, error) {
	recs, err := r.store.Load(ctx, TableImages)
	if err != nil {
		return nil, err
	}
	var out []*Image
	for _, rec := range recs {
		if rec["ClinicalID"] == clinicalID {
			out = append(out, imageFromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ImageID > out[j].ImageID
	})
	return out, nil
}

func (r *ImageRepoStore) Delete(ctx context.Context, imageID string) error {
	n, err := r.store.DeleteWhere(ctx, TableImages, func(rec tablestore.Record) bool {
		return rec["ImageID"] == imageID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrImageNotFound
	}
	return nil
}

func (r *ImageRepoStore) DeleteByPatient(ctx context.Context, clinicalID string) (int, error) {
	return r.store.DeleteWhere(ctx, TableImages, func(rec tablestore.Record) bool {
		return rec["ClinicalID"] == clinicalID
	})
}

// ── Treatments ──

type TreatmentRepoStore struct {
	store tablestore.Store
}

func NewTreatmentRepoStore(store tablestore.Store) *TreatmentRepoStore {
	return &TreatmentRepoStore{store: store}
}

func treatmentToRecord(tr *Treatment) tablestore.Record {
	rec := tablestore.Record{
		"TreatmentID":       tr.TreatmentID,
		"ClinicalID":        tr.ClinicalID,
		"VisitID":           tr.VisitID,
		"ProcedureCategory": tr.ProcedureCategory,
		"ToothOrSite":       tr.ToothOrSite,
		"ProcedureDetails":  tr.ProcedureDetails,
		"Provider":          tr.Provider,
		"Location":          tr.Location,
		"Notes":             tr.Notes,
	}
	rec.SetBool("NoTreatmentToday", tr.NoTreatmentToday)
	setTime(rec, "TreatmentDateTime", tr.TreatmentDateTime)
	setTime(rec, "CreatedAt", tr.CreatedAt)
	setTime(rec, "UpdatedAt", tr.UpdatedAt)
	return rec
}

func treatmentFromRecord(rec tablestore.Record) *Treatment {
	return &Treatment{
		TreatmentID:       rec["TreatmentID"],
		ClinicalID:        rec["ClinicalID"],
		VisitID:           rec["VisitID"],
		TreatmentDateTime: getTime(rec, "TreatmentDateTime"),
		ProcedureCategory: rec["ProcedureCategory"],
		ToothOrSite:       rec["ToothOrSite"],
		ProcedureDetails:  rec["ProcedureDetails"],
		Provider:          rec["Provider"],
		Location:          rec["Location"],
		Notes:             rec["Notes"],
		NoTreatmentToday:  rec.Bool("NoTreatmentToday"),
		CreatedAt:         getTime(rec, "CreatedAt"),
		UpdatedAt:         getTime(rec, "UpdatedAt"),
	}
}

func (r *TreatmentRepoStore) Add(ctx context.Context, tr *Treatment) error {
	return r.store.Upsert(ctx, TableTreatments, "TreatmentID", treatmentToRecord(tr))
}

func (r *TreatmentRepoStore) GetByID(ctx context.Context, treatmentID string) (*Treatment, error) {
	recs, err := r.store.Load(ctx, TableTreatments)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["TreatmentID"] == treatmentID {
			return treatmentFromRecord(rec), nil
		}
	}
	return nil, ErrTreatmentNotFound
}

func (r *TreatmentRepoStore) ListByPatient(ctx context.Context, clinicalID string) ([]*Treatment, error) {
	recs, err := r.store.Load(ctx, TableTreatments)
	if err != nil {
		return nil, err
	}
	var out []*Treatment
	for _, rec := range recs {
		if rec["ClinicalID"] == clinicalID {
			out = append(out, treatmentFromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TreatmentDateTime.Equal(out[j].TreatmentDateTime) {
			return out[i].TreatmentDateTime.After(out[j].TreatmentDateTime)
		}
		return out[i].TreatmentID > out[j].TreatmentID
	})
	return out, nil
}

func (r *TreatmentRepoStore) Delete(ctx context.Context, treatmentID string) error {
	n, err := r.store.DeleteWhere(ctx, TableTreatments, func(rec tablestore.Record) bool {
		return rec["TreatmentID"] == treatmentID
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTreatmentNotFound
	}
	return nil
}

func (r *TreatmentRepoStore) DeleteByPatient(ctx context.Context, clinicalID string) (int, error) {
	return r.store.DeleteWhere(ctx, TableTreatments, func(rec tablestore.Record) bool {
		return rec["ClinicalID"] == clinicalID
	})
}
