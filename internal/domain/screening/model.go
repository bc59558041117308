package screening

import "time"

// AuditAnswers are the raw AUDIT questionnaire scores. Q1 to Q8 score 0 to
// 4; Q9 and Q10 score 0, 2, or 4.
type AuditAnswers struct {
	Q1  int `json:"q1"`
	Q2  int `json:"q2"`
	Q3  int `json:"q3"`
	Q4  int `json:"q4"`
	Q5  int `json:"q5"`
	Q6  int `json:"q6"`
	Q7  int `json:"q7"`
	Q8  int `json:"q8"`
	Q9  int `json:"q9"`
	Q10 int `json:"q10"`
}

// CaseCriteria is the inclusion/exclusion checklist for case participants.
type CaseCriteria struct {
	IncOSCCConfirmed            bool `json:"inc_oscc_confirmed"`
	IncAge18Plus                bool `json:"inc_age_18_plus"`
	IncAnyStage                 bool `json:"inc_any_stage"`
	IncConsent                  bool `json:"inc_consent"`
	IncSalivaAdequate           bool `json:"inc_saliva_adequate"`
	ExcOtherMalignancy          bool `json:"exc_other_malignancy"`
	ExcPriorMalignancyTreatment bool `json:"exc_prior_malignancy_treatment"`
	ExcMetastaticOralLesion     bool `json:"exc_metastatic_oral_lesion"`
	ExcPregnancy                bool `json:"exc_pregnancy"`
	ExcSubstanceAbuseNonAlcohol bool `json:"exc_substance_abuse_non_alcohol"`
}

// ControlCriteria is the inclusion/exclusion checklist for controls.
type ControlCriteria struct {
	IncNoMalignancy             bool `json:"inc_no_malignancy"`
	IncAge18Plus                bool `json:"inc_age_18_plus"`
	IncConsent                  bool `json:"inc_consent"`
	IncSalivaAdequate           bool `json:"inc_saliva_adequate"`
	ExcHistoryMalignancy        bool `json:"exc_history_malignancy"`
	ExcPregnancy                bool `json:"exc_pregnancy"`
	ExcSubstanceAbuseNonAlcohol bool `json:"exc_substance_abuse_non_alcohol"`
}

// Screening is one participant's eligibility record. Group, Cohort, and all
// derived fields are filled in at save time; clients submit only the raw
// answers and checklists.
type Screening struct {
	ResearchID string          `json:"research_id"`
	Group      string          `json:"group"`
	Cohort     string          `json:"cohort"`
	Audit      AuditAnswers    `json:"audit"`
	Case       CaseCriteria    `json:"case"`
	Control    ControlCriteria `json:"control"`

	AuditTotal          int       `json:"audit_total"`
	AuditRisk           string    `json:"audit_risk"`
	AlcoholAbuseFlag    bool      `json:"alcohol_abuse_flag"`
	OverallEligible     bool      `json:"overall_eligible"`
	IneligibilityReason string    `json:"ineligibility_reason"`
	UpdatedAt           time.Time `json:"updated_at"`
}
