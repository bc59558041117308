package nad

import "testing"

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		flag        bool
		text        string
		wantFlag    bool
		wantChanged bool
	}{
		{"text with flag set", true, "mild trismus", false, true},
		{"text without flag", false, "mild trismus", false, false},
		{"empty text with flag", true, "", true, false},
		{"empty text without flag", false, "", false, false},
		{"whitespace only counts as empty", true, "   \n\t", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag, changed := Reconcile(tt.flag, tt.text)
			if flag != tt.wantFlag || changed != tt.wantChanged {
				t.Errorf("Reconcile(%v, %q) = (%v, %v), want (%v, %v)",
					tt.flag, tt.text, flag, changed, tt.wantFlag, tt.wantChanged)
			}
		})
	}
}

func TestReconcileAll(t *testing.T) {
	family := true
	tobacco := true
	dental := false

	fields := []Field{
		{Label: "Family history", Text: "father: hypertension", NAD: &family},
		{Label: "Tobacco", Text: "", NAD: &tobacco},
		{Label: "Past dental", Text: "extraction 2019", NAD: &dental},
	}

	corrected := ReconcileAll(fields)

	if len(corrected) != 1 || corrected[0] != "Family history" {
		t.Fatalf("corrected = %v, want [Family history]", corrected)
	}
	if family {
		t.Error("family flag should have been cleared")
	}
	if !tobacco {
		t.Error("tobacco flag should be untouched")
	}
	if dental {
		t.Error("dental flag should remain false")
	}
}

func TestReconcileAll_NilFlag(t *testing.T) {
	corrected := ReconcileAll([]Field{{Label: "Notes", Text: "free text", NAD: nil}})
	if len(corrected) != 0 {
		t.Errorf("corrected = %v, want none", corrected)
	}
}
