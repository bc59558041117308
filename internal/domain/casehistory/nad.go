package casehistory

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/oscc/capture/pkg/nad"
)

// nadSection pairs a history section's NAD flag with the answer keys that
// count as entered findings for it. yesKeys count only when the stored
// answer is the string "Yes"; meds marks the section whose findings include
// the medication grid.
type nadSection struct {
	flag    string
	label   string
	keys    []string
	yesKeys []string
	meds    bool
}

var nadSections = []nadSection{
	{flag: "Family_NAD", label: "Family history",
		keys: []string{"Family_History"}},
	{flag: "PastDental_NAD", label: "Past dental history",
		keys: []string{"PastDental_History"}},
	{flag: "Tobacco_NAD", label: "Tobacco usage",
		keys: []string{
			"Tobacco_TypeSummary",
			"Tob_Smoked_PacksPerDay", "Tob_Smoked_Years",
			"Tob_Smokeless_PacketsPerDay", "Tob_Smokeless_Years",
			"Tob_Pouch_PerDay", "Tob_Pouch_Years",
			"Tob_Other_Name", "Tob_Other_AmountPerDay", "Tob_Other_Years",
			"Tobacco_Notes",
		}},
	{flag: "Alcohol_NAD", label: "Alcohol history",
		keys: []string{"Alcohol_History"}},
	{flag: "MH_Serious_NAD", label: "Serious illnesses",
		keys: []string{"MH_Serious_DiagnosisList", "MH_Serious_Systems", "MH_Serious_Notes"}},
	{flag: "MH_Hosp_NAD", label: "Hospitalisations / surgeries",
		keys: []string{
			"MH_Hosp_Number", "MH_Hosp_LastAdmission_Year",
			"MH_Hosp_LastAdmission_Reason", "MH_Hosp_Surgeries_List", "MH_Hosp_Notes",
		},
		yesKeys: []string{"MH_Hosp_EverAdmitted"}},
	{flag: "MH_Transfusion_NAD", label: "Transfusions",
		keys: []string{
			"MH_Transfusion_Indication", "MH_Transfusion_LastDate",
			"MH_Transfusion_NumberUnits_Total", "MH_Transfusion_Notes",
		},
		yesKeys: []string{"MH_Transfusion_History"}},
	{flag: "MH_Allergy_NAD", label: "Allergies",
		keys: []string{
			"MH_Allergy_Drug_List", "MH_Allergy_Food_List",
			"MH_Allergy_Latex_Details", "MH_Allergy_Other_Details", "MH_Allergy_Notes",
		},
		yesKeys: []string{"MH_Allergy_SevereReactionYN"}},
	{flag: "MH_Meds_NAD", label: "Medications",
		keys: []string{"MH_Meds_OTC_4to6weeks", "MH_Meds_Notes"},
		meds: true},
}

// reconcileNAD clears every section NAD flag in the answers document that
// is contradicted by entered findings, returning the corrected document and
// one warning per cleared flag. medsEntered reports whether the medication
// grid carries rows, which counts as findings for the medications section.
// Sections absent from the document are left untouched.
func reconcileNAD(answers json.RawMessage, medsEntered bool) (json.RawMessage, []string, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(answers, &doc); err != nil {
		return nil, nil, fmt.Errorf("medical history must be a JSON object: %w", err)
	}

	flags := make([]bool, len(nadSections))
	fields := make([]nad.Field, 0, len(nadSections))
	for i, sec := range nadSections {
		if _, present := doc[sec.flag]; !present {
			continue
		}
		flags[i] = truthyAnswer(doc[sec.flag])
		text := sectionFindings(doc, sec)
		if sec.meds && medsEntered && text == "" {
			text = "medication rows entered"
		}
		fields = append(fields, nad.Field{Label: sec.label, Text: text, NAD: &flags[i]})
	}

	corrected := nad.ReconcileAll(fields)
	for i, sec := range nadSections {
		if _, present := doc[sec.flag]; !present {
			continue
		}
		doc[sec.flag] = flags[i]
	}

	warnings := make([]string, 0, len(corrected))
	for _, label := range corrected {
		warnings = append(warnings, fmt.Sprintf("For %s, NAD was ticked but details were entered; saving NAD as false.", label))
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, err
	}
	return out, warnings, nil
}

// sectionFindings joins a section's entered answers into one findings
// string for reconciliation. Blank strings, zero numbers, and empty lists
// do not count as findings.
func sectionFindings(doc map[string]interface{}, sec nadSection) string {
	var parts []string
	for _, k := range sec.keys {
		if s := answerString(doc[k]); strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	for _, k := range sec.yesKeys {
		if strings.TrimSpace(answerString(doc[k])) == "Yes" {
			parts = append(parts, "Yes")
		}
	}
	return strings.Join(parts, " ")
}

// answerString renders a JSON answer value for emptiness checks.
func answerString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return ""
	case []interface{}:
		var parts []string
		for _, e := range t {
			if s := answerString(e); strings.TrimSpace(s) != "" {
				parts = append(parts, strings.TrimSpace(s))
			}
		}
		return strings.Join(parts, " ")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// truthyAnswer interprets a stored NAD flag, tolerating the string and
// numeric encodings older exports carry.
func truthyAnswer(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		}
		return false
	case float64:
		return t != 0
	default:
		return false
	}
}
