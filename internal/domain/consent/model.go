package consent

import "time"

// Consent languages correspond to the IEC-approved translations on file.
var ValidLanguages = map[string]bool{
	"EN": true,
	"HI": true,
	"KN": true,
	"ML": true,
}

// Consent is one participant's informed-consent record. File fields hold
// blob references; the documents themselves live in the blob store under
// the consent-form and signature categories.
type Consent struct {
	ResearchID         string    `json:"research_id"`
	ConsentDateTime    time.Time `json:"consent_datetime"`
	Language           string    `json:"language"`
	CohortAtConsent    string    `json:"cohort_at_consent"`
	PlannedSampleTypes []string  `json:"planned_sample_types"`
	IncludesScraping   bool      `json:"includes_scraping"`
	ConsentTakenBy     string    `json:"consent_taken_by"`
	ConsentLocation    string    `json:"consent_location"`

	// Pilot addendum fields; meaningful only when CohortAtConsent is PILOT.
	PilotExtraExplained           bool   `json:"pilot_extra_explained"`
	PilotParticipantSignatureFile string `json:"pilot_participant_signature_file,omitempty"`
	PilotClinicianSignatureFile   string `json:"pilot_clinician_signature_file,omitempty"`

	SignedPdfFile string   `json:"signed_pdf_file,omitempty"`
	ExtraFiles    []string `json:"extra_files,omitempty"`
}
