package participant

import "strings"

// Pipeline status labels, ordered from furthest along to least.
const (
	StatusInLab          = "In lab / analysis"
	StatusInDeepFreezer  = "In deep freezer"
	StatusHistoryTaken   = "History taken"
	StatusSamplesTaken   = "Samples collected"
	StatusRegisteredOnly = "Registered only"
)

// ComputeStatus picks the furthest pipeline stage a participant has reached
// and builds the per-stage detail string shown alongside it.
func ComputeStatus(hasHistory, hasSamples, inDeepFreezer, inLab bool) (main, detail string) {
	switch {
	case inLab:
		main = StatusInLab
	case inDeepFreezer:
		main = StatusInDeepFreezer
	case hasHistory:
		main = StatusHistoryTaken
	case hasSamples:
		main = StatusSamplesTaken
	default:
		main = StatusRegisteredOnly
	}

	flags := []string{
		mark("History", hasHistory),
		mark("Samples", hasSamples),
		mark("Deep freezer", inDeepFreezer),
		mark("Lab", inLab),
	}
	return main, strings.Join(flags, " | ")
}

func mark(label string, ok bool) string {
	if ok {
		return label + " ✓"
	}
	return label + " –"
}
