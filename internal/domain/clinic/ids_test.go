package clinic

import "testing"

func TestNextClinicalID(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{"empty register", nil, "CLIN-0001"},
		{"sequential", []string{"CLIN-0001", "CLIN-0002"}, "CLIN-0003"},
		{"gap after deletion", []string{"CLIN-0001", "CLIN-0007"}, "CLIN-0008"},
		{"skips unparsable", []string{"CLIN-0002", "CLIN-XYZ"}, "CLIN-0003"},
		{"ignores foreign prefixes", []string{"PAT-0009"}, "CLIN-0001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextClinicalID(tt.existing); got != tt.want {
				t.Errorf("NextClinicalID(%v) = %q, want %q", tt.existing, got, tt.want)
			}
		})
	}
}

func TestNextImageAndTreatmentIDs(t *testing.T) {
	cid := "CLIN-0003"

	if got := NextImageID(nil, cid); got != "CLIN-0003-IMG-001" {
		t.Errorf("first image id = %q", got)
	}
	if got := NextImageID([]string{"CLIN-0003-IMG-001", "CLIN-0003-IMG-002"}, cid); got != "CLIN-0003-IMG-003" {
		t.Errorf("next image id = %q", got)
	}
	// Serials run per patient.
	if got := NextImageID([]string{"CLIN-0001-IMG-005"}, cid); got != "CLIN-0003-IMG-001" {
		t.Errorf("per-patient image id = %q", got)
	}

	if got := NextTreatmentID(nil, cid); got != "CLIN-0003-TX-001" {
		t.Errorf("first treatment id = %q", got)
	}
	if got := NextTreatmentID([]string{"CLIN-0003-TX-009"}, cid); got != "CLIN-0003-TX-010" {
		t.Errorf("next treatment id = %q", got)
	}
}

func TestVisitID(t *testing.T) {
	if got := VisitID("CLIN-0003", 4); got != "CLIN-0003-V4" {
		t.Errorf("VisitID = %q", got)
	}
}
