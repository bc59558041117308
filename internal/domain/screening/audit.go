package screening

import "fmt"

// AuditExclusionThreshold is the IEC cut-off: a total strictly above it
// flags alcohol abuse and makes the participant ineligible.
const AuditExclusionThreshold = 15

// AUDIT risk zones.
const (
	RiskZoneLow        = "Zone I – Low risk"
	RiskZoneHazardous  = "Zone II – Hazardous use"
	RiskZoneHarmful    = "Zone III – Harmful use"
	RiskZoneDependence = "Zone IV – Possible dependence"
)

// AuditQuestion describes one questionnaire item for clients that render
// the form. Options pair a label with its score.
type AuditQuestion struct {
	ID      string        `json:"id"`
	Text    string        `json:"text"`
	Options []AuditOption `json:"options"`
}

type AuditOption struct {
	Label string `json:"label"`
	Score int    `json:"score"`
}

var frequencyOptions = []AuditOption{
	{"Never", 0},
	{"Less than monthly", 1},
	{"Monthly", 2},
	{"Weekly", 3},
	{"Daily or almost daily", 4},
}

var yesNoOptions = []AuditOption{
	{"No", 0},
	{"Yes, but not in the last year", 2},
	{"Yes, during the last year", 4},
}

// AuditQuestions is the WHO AUDIT questionnaire as administered.
var AuditQuestions = []AuditQuestion{
	{"Q1", "How often do you have a drink containing alcohol?", []AuditOption{
		{"Never", 0},
		{"Monthly or less", 1},
		{"2–4 times a month", 2},
		{"2–3 times a week", 3},
		{"4 or more times a week", 4},
	}},
	{"Q2", "How many drinks containing alcohol do you have on a typical day when you are drinking?", []AuditOption{
		{"1–2", 0},
		{"3–4", 1},
		{"5–6", 2},
		{"7–9", 3},
		{"10 or more", 4},
	}},
	{"Q3", "How often do you have six or more drinks on one occasion?", frequencyOptions},
	{"Q4", "How often during the last year have you found that you were not able to stop drinking once you had started?", frequencyOptions},
	{"Q5", "How often during the last year have you failed to do what was normally expected of you because of drinking?", frequencyOptions},
	{"Q6", "How often during the last year have you needed a first drink in the morning to get yourself going after a heavy drinking session?", frequencyOptions},
	{"Q7", "How often during the last year have you had a feeling of guilt or remorse after drinking?", frequencyOptions},
	{"Q8", "How often during the last year have you been unable to remember what happened the night before because of your drinking?", frequencyOptions},
	{"Q9", "Have you or someone else been injured because of your drinking?", yesNoOptions},
	{"Q10", "Has a relative, friend, doctor or other health worker been concerned about your drinking or suggested you cut down?", yesNoOptions},
}

// Validate checks every answer against its question's allowed scores.
func (a AuditAnswers) Validate() error {
	for _, q := range []struct {
		id    string
		score int
	}{
		{"Q1", a.Q1}, {"Q2", a.Q2}, {"Q3", a.Q3}, {"Q4", a.Q4},
		{"Q5", a.Q5}, {"Q6", a.Q6}, {"Q7", a.Q7}, {"Q8", a.Q8},
	} {
		if q.score < 0 || q.score > 4 {
			return fmt.Errorf("audit %s: score %d out of range 0-4", q.id, q.score)
		}
	}
	for _, q := range []struct {
		id    string
		score int
	}{
		{"Q9", a.Q9}, {"Q10", a.Q10},
	} {
		if q.score != 0 && q.score != 2 && q.score != 4 {
			return fmt.Errorf("audit %s: score %d must be 0, 2, or 4", q.id, q.score)
		}
	}
	return nil
}

// Total sums all ten answers.
func (a AuditAnswers) Total() int {
	return a.Q1 + a.Q2 + a.Q3 + a.Q4 + a.Q5 + a.Q6 + a.Q7 + a.Q8 + a.Q9 + a.Q10
}

// RiskZone maps a total score to its AUDIT risk zone.
func RiskZone(total int) string {
	switch {
	case total <= 7:
		return RiskZoneLow
	case total <= 15:
		return RiskZoneHazardous
	case total <= 19:
		return RiskZoneHarmful
	default:
		return RiskZoneDependence
	}
}

// AlcoholAbuse reports whether the total breaches the exclusion threshold.
func AlcoholAbuse(total int) bool {
	return total > AuditExclusionThreshold
}
