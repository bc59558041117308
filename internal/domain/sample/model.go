package sample

import "time"

// Sample types. The pilot protocol collects the three saliva fractions;
// the main cohort collects a single sample.
const (
	TypeWS         = "WS"
	TypeWSEC       = "WS+EC"
	TypeEC         = "EC"
	TypeSalivaMain = "SalivaMain"
)

// ValidTypes lists every collectable sample type.
var ValidTypes = map[string]bool{
	TypeWS:         true,
	TypeWSEC:       true,
	TypeEC:         true,
	TypeSalivaMain: true,
}

// defaultVolumeTypes get 5 mL when no volume was entered at end of
// collection.
var defaultVolumeTypes = map[string]bool{
	TypeWS:   true,
	TypeWSEC: true,
	TypeEC:   true,
}

const DefaultVolumeML = 5.0

// Collection events timestamped by the chain-of-custody buttons.
const (
	EventStartCollection = "start"
	EventEndCollection   = "end"
	EventPlacedInCryocan = "cryocan"
	EventLabReceived     = "lab-received"
)

// Severity scales for the observation fields.
var (
	VisibleBloodOptions = []string{"No", "Mild", "Moderate", "Severe"}
	DiscomfortOptions   = []string{"None", "Mild", "Moderate", "Severe"}
)

// Sample is one collected specimen and its clinic-side chain of custody.
// Zero times mean the event has not happened yet.
type Sample struct {
	SampleID        string    `json:"sample_id"`
	ResearchID      string    `json:"research_id"`
	Cohort          string    `json:"cohort"`
	SampleType      string    `json:"sample_type"`
	StudyID         string    `json:"study_id"`
	CollectionStart time.Time `json:"collection_start,omitempty"`
	CollectionEnd   time.Time `json:"collection_end,omitempty"`
	PlacedInCryocan time.Time `json:"placed_in_cryocan,omitempty"`
	VolumeML        float64   `json:"volume_ml"`
	VisibleBlood    string    `json:"visible_blood"`
	Discomfort      string    `json:"discomfort"`
	Notes           string    `json:"notes,omitempty"`
	LabReceived     bool      `json:"lab_received"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PlannedSlot pairs a planned sample type with the sample that fills it,
// if one has been collected.
type PlannedSlot struct {
	SampleType string  `json:"sample_type"`
	SampleID   string  `json:"sample_id"`
	Collected  bool    `json:"collected"`
	Sample     *Sample `json:"sample,omitempty"`
}
