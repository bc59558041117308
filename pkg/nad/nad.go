// Package nad reconciles "no abnormality detected" checkboxes with their
// paired free-text findings. A section cannot simultaneously carry findings
// and claim no abnormality; the text wins.
package nad

import "strings"

// Reconcile returns the corrected NAD flag for a section. When the section
// text is non-empty and the flag is set, the flag is cleared and the second
// return value reports that a correction was made.
func Reconcile(flag bool, text string) (bool, bool) {
	if strings.TrimSpace(text) != "" && flag {
		return false, true
	}
	return flag, false
}

// Field pairs a section label with its text and NAD flag for batch
// reconciliation of a multi-section form.
type Field struct {
	Label string
	Text  string
	NAD   *bool
}

// ReconcileAll corrects every field in place and returns the labels of the
// sections whose flags were cleared, in input order.
func ReconcileAll(fields []Field) []string {
	var corrected []string
	for _, f := range fields {
		if f.NAD == nil {
			continue
		}
		flag, changed := Reconcile(*f.NAD, f.Text)
		*f.NAD = flag
		if changed {
			corrected = append(corrected, f.Label)
		}
	}
	return corrected
}
