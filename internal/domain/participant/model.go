package participant

import "time"

// Participant groups.
const (
	GroupCase    = "Case"
	GroupControl = "Control"
)

// Participant is a registered research subject. The ResearchID is generated
// at registration time and never changes; every downstream table keys on it.
type Participant struct {
	ResearchID string    `json:"research_id"`
	StudyID    string    `json:"study_id"`
	Name       string    `json:"name"`
	Age        int       `json:"age"`
	Sex        string    `json:"sex"`
	Phone      string    `json:"phone,omitempty"`
	Group      string    `json:"group"`
	Cohort     string    `json:"cohort"`
	CreatedAt  time.Time `json:"created_at"`
}

// Status is the derived pipeline position of a participant, computed from
// the presence of case history, sample, and lab rows rather than stored.
type Status struct {
	ResearchID string `json:"research_id"`
	Main       string `json:"main"`
	Detail     string `json:"detail"`
}
