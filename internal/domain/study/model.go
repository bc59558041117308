package study

import "time"

// Study modes select which module the study typically runs in. Research
// studies use the register and sample pages, Clinic studies the OPD pages,
// Hybrid studies both.
const (
	ModeResearch = "Research"
	ModeClinic   = "Clinic"
	ModeHybrid   = "Hybrid"
)

// Study is a registered research study. StudyID is operator-chosen; its
// first underscore-separated token becomes the prefix of every research ID
// generated under the study.
type Study struct {
	StudyID             string    `json:"study_id"`
	StudyName           string    `json:"study_name"`
	Mode                string    `json:"mode"`
	DefaultLabName      string    `json:"default_lab_name,omitempty"`
	DefaultConsentTaker string    `json:"default_consent_taker,omitempty"`
	LinkedStudies       string    `json:"linked_studies,omitempty"`
	Notes               string    `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Lab is a processing or collection laboratory.
type Lab struct {
	LabID         string `json:"lab_id"`
	LabName       string `json:"lab_name"`
	LabType       string `json:"lab_type,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Investigator is a study staff member who can take consent or record data.
type Investigator struct {
	InvestigatorID        string `json:"investigator_id"`
	Name                  string `json:"name"`
	Role                  string `json:"role,omitempty"`
	Affiliation           string `json:"affiliation,omitempty"`
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	IsConsentTakerDefault bool   `json:"is_consent_taker_default"`
}

// CodePrefix returns the research-ID prefix derived from the study ID:
// the first underscore-separated token, or "STUDY" when the ID is blank.
func (s *Study) CodePrefix() string {
	return CodePrefixOf(s.StudyID)
}

// CodePrefixOf derives the research-ID prefix for an arbitrary study ID.
func CodePrefixOf(studyID string) string {
	if studyID == "" {
		return "STUDY"
	}
	for i := 0; i < len(studyID); i++ {
		if studyID[i] == '_' {
			return studyID[:i]
		}
	}
	return studyID
}
