package casehistory

import (
	"encoding/json"
	"time"
)

// History is a participant's medical history. The answers are a free-form
// document; its shape follows the questionnaire in use and is stored as
// JSON rather than columns so revisions to the form never migrate data.
type History struct {
	ResearchID string          `json:"research_id"`
	Answers    json.RawMessage `json:"answers"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Medication is one row of the current-medications grid. Rows are replaced
// wholesale on each save and re-indexed from 1.
type Medication struct {
	ResearchID    string `json:"research_id"`
	MedIndex      int    `json:"med_index"`
	DrugNameInput string `json:"drug_name_input"`
	GenericName   string `json:"generic_name"`
	Strength      string `json:"strength"`
	Dose          string `json:"dose"`
	Indication    string `json:"indication"`
	Duration      string `json:"duration"`
	Notes         string `json:"notes"`
}

// Empty reports whether a medication row carries no identifying content
// and should be dropped on save.
func (m Medication) Empty() bool {
	return m.DrugNameInput == "" && m.GenericName == "" && m.Dose == "" && m.Strength == ""
}

// Document is an uploaded record (prescription, hospital record, report)
// attached to a participant. FileName references a blob.
type Document struct {
	DocumentID string    `json:"document_id"`
	ResearchID string    `json:"research_id"`
	DocType    string    `json:"doc_type"`
	FileName   string    `json:"file_name"`
	FileExt    string    `json:"file_ext"`
	Caption    string    `json:"caption,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
