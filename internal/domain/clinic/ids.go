package clinic

import (
	"fmt"
	"strconv"
	"strings"
)

// NextClinicalID issues the next patient ID in the CLIN-0001 sequence.
// Numbering is 1-based and continues from the highest serial seen, so
// deleted patients never free their numbers.
func NextClinicalID(existingIDs []string) string {
	return nextSerial(existingIDs, "CLIN-", 4)
}

// NextImageID issues the next per-patient image ID, <ClinicalID>-IMG-001.
func NextImageID(existingIDs []string, clinicalID string) string {
	return nextSerial(existingIDs, clinicalID+"-IMG-", 3)
}

// NextTreatmentID issues the next per-patient treatment ID,
// <ClinicalID>-TX-001.
func NextTreatmentID(existingIDs []string, clinicalID string) string {
	return nextSerial(existingIDs, clinicalID+"-TX-", 3)
}

// VisitID builds the visit identifier for a patient and visit number.
func VisitID(clinicalID string, visitNumber int) string {
	return fmt.Sprintf("%s-V%d", clinicalID, visitNumber)
}

func nextSerial(existingIDs []string, prefix string, width int) string {
	max := 0
	for _, id := range existingIDs {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		n, err := strconv.Atoi(id[strings.LastIndex(id, "-")+1:])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s%0*d", prefix, width, max+1)
}
