package clinic

import "time"

// Broad clinical category assigned at registration; the detailed
// diagnosis lives in the visit case history.
var ClinicalCategories = []string{
	"New OSCC / lesion case",
	"Potentially malignant disorder (PMD)",
	"Non-OSCC oral lesion",
	"Routine / non-lesion dental patient",
	"Follow-up visit for known case",
}

var SexOptions = []string{"Female", "Male", "Other"}

// Visit modes. Simple covers the six core sections, Detailed adds the
// five examination sub-sections.
const (
	ModeSimple   = "Simple"
	ModeDetailed = "Detailed"
)

var ImageCategories = []string{
	"Lesion photo (intraoral / extraoral)",
	"Prescription",
	"Pathology / histopathology report",
	"Imaging report (X-ray / CT / MRI / CBCT)",
	"Laboratory test report",
	"Other document",
}

var ProcedureCategories = []string{
	"Biopsy / lesion scraping",
	"Lesion excision / surgery",
	"Extraction",
	"Restorative procedure",
	"Scaling / periodontal therapy",
	"Medication prescribed",
	"Referral (oncology / radiotherapy / surgery)",
	"Review / no active treatment",
	"Other",
}

// Patient is a walk-in clinical patient, independent of the research
// register but optionally linked to it.
type Patient struct {
	ClinicalID       string    `json:"clinical_id"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Sex              string    `json:"sex"`
	Phone            string    `json:"phone,omitempty"`
	MRN              string    `json:"mrn,omitempty"`
	Address          string    `json:"address,omitempty"`
	City             string    `json:"city,omitempty"`
	State            string    `json:"state,omitempty"`
	PIN              string    `json:"pin,omitempty"`
	Email            string    `json:"email,omitempty"`
	ClinicalCategory string    `json:"clinical_category"`
	LinkedResearchID string    `json:"linked_research_id,omitempty"`
	LinkedStudyID    string    `json:"linked_study_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Section is one case-history section: free text plus a "no abnormality
// detected" flag. The two are reconciled on save; text always wins.
type Section struct {
	Text string `json:"text,omitempty"`
	NAD  bool   `json:"nad"`
}

// Visit is one clinical encounter with its full case history.
type Visit struct {
	ClinicalID    string    `json:"clinical_id"`
	VisitID       string    `json:"visit_id"`
	VisitNumber   int       `json:"visit_number"`
	VisitDateTime time.Time `json:"visit_date_time"`
	Mode          string    `json:"mode"`
	ChiefComplaint string   `json:"chief_complaint"`
	HOPI          string    `json:"hopi,omitempty"`

	MedicalHistory  Section `json:"medical_history"`
	DentalHistory   Section `json:"dental_history"`
	PersonalHistory Section `json:"personal_history"`
	FamilyHistory   Section `json:"family_history"`
	ExtraoralExam   Section `json:"extraoral_exam"`
	IntraoralExam   Section `json:"intraoral_exam"`

	// Detailed-mode sections.
	TMJExam       Section `json:"tmj_exam"`
	LymphNodesExam Section `json:"lymph_nodes_exam"`
	OralMucosaExam Section `json:"oral_mucosa_exam"`
	TeethExam     Section `json:"teeth_exam"`
	OtherFindings Section `json:"other_findings"`

	ProvisionalDiagnosis string    `json:"provisional_diagnosis,omitempty"`
	AdditionalNotes      string    `json:"additional_notes,omitempty"`
	VoiceNoteFile        string    `json:"voice_note_file,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Image is one photograph or report file attached to a patient, and
// optionally to a specific visit.
type Image struct {
	ImageID         string    `json:"image_id"`
	ClinicalID      string    `json:"clinical_id"`
	VisitID         string    `json:"visit_id,omitempty"`
	Category        string    `json:"category"`
	FileName        string    `json:"file_name"`
	FileType        string    `json:"file_type,omitempty"`
	Caption         string    `json:"caption,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	TakenBy         string    `json:"taken_by,omitempty"`
	Location        string    `json:"location,omitempty"`
	IsPrimaryLesion bool      `json:"is_primary_lesion"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Treatment is one entry in a patient's treatment log.
type Treatment struct {
	TreatmentID       string    `json:"treatment_id"`
	ClinicalID        string    `json:"clinical_id"`
	VisitID           string    `json:"visit_id,omitempty"`
	TreatmentDateTime time.Time `json:"treatment_date_time"`
	ProcedureCategory string    `json:"procedure_category"`
	ToothOrSite       string    `json:"tooth_or_site,omitempty"`
	ProcedureDetails  string    `json:"procedure_details,omitempty"`
	Provider          string    `json:"provider,omitempty"`
	Location          string    `json:"location,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	NoTreatmentToday  bool      `json:"no_treatment_today"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
