package sample

import "fmt"

// DefaultSampleID builds <ResearchID>-<SampleType>, suffixing -02, -03 and
// so on when the base ID is already taken.
func DefaultSampleID(researchID, sampleType string, existingIDs []string) string {
	taken := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		taken[id] = true
	}
	base := researchID + "-" + sampleType
	if !taken[base] {
		return base
	}
	for i := 2; ; i++ {
		cand := fmt.Sprintf("%s-%02d", base, i)
		if !taken[cand] {
			return cand
		}
	}
}
