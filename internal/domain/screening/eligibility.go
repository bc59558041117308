package screening

import (
	"fmt"
	"strings"
)

// Evaluate applies the IEC inclusion/exclusion rules for the participant's
// group and fills in the derived fields on s. All inclusion boxes must be
// ticked and no exclusion box (including the AUDIT-derived alcohol abuse
// flag) may be ticked. Reasons accumulate in checklist order and are joined
// with "; ".
func Evaluate(s *Screening) {
	s.AuditTotal = s.Audit.Total()
	s.AuditRisk = RiskZone(s.AuditTotal)
	s.AlcoholAbuseFlag = AlcoholAbuse(s.AuditTotal)

	var reasons []string
	var incOK, excAny bool

	if s.Group == "Case" {
		c := s.Case
		incOK = c.IncOSCCConfirmed && c.IncAge18Plus && c.IncAnyStage && c.IncConsent && c.IncSalivaAdequate
		if !c.IncOSCCConfirmed {
			reasons = append(reasons, "Inclusion (cases): OSCC not confirmed / prior therapy present.")
		}
		if !c.IncAge18Plus {
			reasons = append(reasons, "Inclusion: age < 18.")
		}
		if !c.IncAnyStage {
			reasons = append(reasons, "Inclusion: OSCC stage not acceptable.")
		}
		if !c.IncConsent {
			reasons = append(reasons, "Inclusion: consent not obtained.")
		}
		if !c.IncSalivaAdequate {
			reasons = append(reasons, "Inclusion: inadequate saliva sample.")
		}

		excAny = c.ExcOtherMalignancy || c.ExcPriorMalignancyTreatment || c.ExcMetastaticOralLesion ||
			c.ExcPregnancy || c.ExcSubstanceAbuseNonAlcohol || s.AlcoholAbuseFlag
		if c.ExcOtherMalignancy {
			reasons = append(reasons, "Exclusion: malignancy other than OSCC / prior malignancy.")
		}
		if c.ExcPriorMalignancyTreatment {
			reasons = append(reasons, "Exclusion: previously treated for malignancy.")
		}
		if c.ExcMetastaticOralLesion {
			reasons = append(reasons, "Exclusion: metastatic oral lesion.")
		}
		if c.ExcPregnancy {
			reasons = append(reasons, "Exclusion: pregnancy.")
		}
		if c.ExcSubstanceAbuseNonAlcohol {
			reasons = append(reasons, "Exclusion: substance abuse (non-alcohol).")
		}
	} else {
		c := s.Control
		incOK = c.IncNoMalignancy && c.IncAge18Plus && c.IncConsent && c.IncSalivaAdequate
		if !c.IncNoMalignancy {
			reasons = append(reasons, "Inclusion (controls): history of malignancy present.")
		}
		if !c.IncAge18Plus {
			reasons = append(reasons, "Inclusion: age < 18.")
		}
		if !c.IncConsent {
			reasons = append(reasons, "Inclusion: consent not obtained.")
		}
		if !c.IncSalivaAdequate {
			reasons = append(reasons, "Inclusion: inadequate saliva sample.")
		}

		excAny = c.ExcHistoryMalignancy || c.ExcPregnancy || c.ExcSubstanceAbuseNonAlcohol || s.AlcoholAbuseFlag
		if c.ExcHistoryMalignancy {
			reasons = append(reasons, "Exclusion: any history of malignancy.")
		}
		if c.ExcPregnancy {
			reasons = append(reasons, "Exclusion: pregnancy.")
		}
		if c.ExcSubstanceAbuseNonAlcohol {
			reasons = append(reasons, "Exclusion: substance abuse (non-alcohol).")
		}
	}

	if s.AlcoholAbuseFlag {
		reasons = append(reasons, fmt.Sprintf(
			"Exclusion: alcohol abuse – AUDIT total %d > %d.", s.AuditTotal, AuditExclusionThreshold))
	}

	s.OverallEligible = incOK && !excAny
	if s.OverallEligible && len(reasons) == 0 {
		s.IneligibilityReason = ""
	} else {
		s.IneligibilityReason = strings.Join(reasons, "; ")
	}
}
