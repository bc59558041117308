package participant

import (
	"strconv"
	"strings"
	"testing"
)

func TestGenerateResearchID_First(t *testing.T) {
	got := GenerateResearchID("OSCC_THESIS", GroupCase, "PILOT", nil)
	if got != "OSCC_PilotCA-001" {
		t.Errorf("expected OSCC_PilotCA-001, got %s", got)
	}
}

func TestGenerateResearchID_GroupCodes(t *testing.T) {
	if got := GenerateResearchID("OSCC_THESIS", GroupControl, "PILOT", nil); got != "OSCC_PilotCO-001" {
		t.Errorf("expected OSCC_PilotCO-001, got %s", got)
	}
}

func TestGenerateResearchID_CohortTag(t *testing.T) {
	cases := []struct {
		cohort string
		want   string
	}{
		{"PILOT", "OSCC_PilotCA-001"},
		{"pilot-phase", "OSCC_PilotCA-001"},
		{"MAIN", "OSCC_MainCA-001"},
		{"OTHER", "OSCC_MainCA-001"},
		{"", "OSCC_MainCA-001"},
	}
	for _, tc := range cases {
		if got := GenerateResearchID("OSCC_THESIS", GroupCase, tc.cohort, nil); got != tc.want {
			t.Errorf("cohort %q: expected %s, got %s", tc.cohort, tc.want, got)
		}
	}
}

func TestGenerateResearchID_NoActiveStudy(t *testing.T) {
	if got := GenerateResearchID("", GroupCase, "MAIN", nil); got != "STUDY_MainCA-001" {
		t.Errorf("expected STUDY_MainCA-001, got %s", got)
	}
}

func TestGenerateResearchID_CounterSharedAcrossCohorts(t *testing.T) {
	existing := []string{
		"OSCC_PilotCA-001",
		"OSCC_PilotCA-014",
		"OSCC_PilotCA-015",
	}
	got := GenerateResearchID("OSCC_THESIS", GroupCase, "MAIN", existing)
	if got != "OSCC_MainCA-016" {
		t.Errorf("expected pilot counter to continue into main, got %s", got)
	}
}

func TestGenerateResearchID_CountersSeparatePerGroup(t *testing.T) {
	existing := []string{
		"OSCC_PilotCA-001",
		"OSCC_PilotCA-002",
		"OSCC_PilotCA-003",
	}
	got := GenerateResearchID("OSCC_THESIS", GroupControl, "PILOT", existing)
	if got != "OSCC_PilotCO-001" {
		t.Errorf("expected control counter independent of cases, got %s", got)
	}
}

func TestGenerateResearchID_IgnoresOtherStudies(t *testing.T) {
	existing := []string{
		"LEUK_MainCA-040",
		"OSCC_MainCA-002",
	}
	got := GenerateResearchID("OSCC_THESIS", GroupCase, "MAIN", existing)
	if got != "OSCC_MainCA-003" {
		t.Errorf("expected other study IDs ignored, got %s", got)
	}
}

func TestGenerateResearchID_SkipsUnparsableSerials(t *testing.T) {
	existing := []string{
		"OSCC_MainCA-002",
		"OSCC_MainCA-garbage",
		"OSCC_MainCA-",
	}
	got := GenerateResearchID("OSCC_THESIS", GroupCase, "MAIN", existing)
	if got != "OSCC_MainCA-003" {
		t.Errorf("expected unparsable serials skipped, got %s", got)
	}
}

func TestGenerateResearchID_Monotonic(t *testing.T) {
	var existing []string
	prev := 0
	for i := 0; i < 25; i++ {
		id := GenerateResearchID("OSCC_THESIS", GroupCase, "MAIN", existing)
		existing = append(existing, id)
		n, err := strconv.Atoi(id[strings.LastIndex(id, "-")+1:])
		if err != nil {
			t.Fatalf("unparsable generated ID %s", id)
		}
		if n != prev+1 {
			t.Fatalf("expected serial %d, got %d (%s)", prev+1, n, id)
		}
		prev = n
	}
}
