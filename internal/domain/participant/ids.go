package participant

import (
	"fmt"
	"strconv"
	"strings"
)

// GenerateResearchID builds the next research ID for a study, group, and
// cohort, e.g. OSCC_PilotCA-001 or OSCC_MainCO-016.
//
// The study code is the first underscore-separated token of the study ID
// (OSCC_THESIS yields OSCC), falling back to STUDY when no study is active.
// The serial counter is per group (CA or CO) and runs sequentially across
// Pilot and Main cohorts, so a pilot that ends at 015 continues with 016
// in the main cohort.
func GenerateResearchID(studyID, group, cohort string, existingIDs []string) string {
	grpCode := "CO"
	if group == GroupCase {
		grpCode = "CA"
	}

	studyCode := "STUDY"
	if studyID != "" {
		studyCode = strings.SplitN(studyID, "_", 2)[0]
	}

	cohortTag := "Main"
	if strings.HasPrefix(strings.ToUpper(cohort), "PILOT") {
		cohortTag = "Pilot"
	}

	studyPrefix := studyCode + "_"
	groupFragment := grpCode + "-"

	max := 0
	for _, rid := range existingIDs {
		if !strings.HasPrefix(rid, studyPrefix) {
			continue
		}
		if !strings.Contains(rid, groupFragment) {
			continue
		}
		idx := strings.LastIndex(rid, "-")
		n, err := strconv.Atoi(rid[idx+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}

	return fmt.Sprintf("%s_%s%s-%03d", studyCode, cohortTag, grpCode, max+1)
}
