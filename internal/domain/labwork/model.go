package labwork

import "time"

// LabResult is the micro-lab and external-lab record for one sample:
// custody timestamps, RNA and DNA extraction QC, the 16S bacterial load
// run and the downstream assay summary. One row per sample. Zero times
// mean the step has not happened yet.
type LabResult struct {
	ResearchID string `json:"research_id"`
	SampleID   string `json:"sample_id"`
	SampleType string `json:"sample_type"`
	Cohort     string `json:"cohort"`

	ReceivedAtMicroLab              time.Time `json:"received_at_micro_lab,omitempty"`
	PlacedInMinus80Micro            time.Time `json:"placed_in_minus80_micro,omitempty"`
	RemovedFromMinus80ForExternal   time.Time `json:"removed_from_minus80_for_external,omitempty"`
	LoadedIntoCryocanForExternal    time.Time `json:"loaded_into_cryocan_for_external,omitempty"`
	ArrivedExternalLab              time.Time `json:"arrived_external_lab,omitempty"`
	PlacedInMinus80External         time.Time `json:"placed_in_minus80_external,omitempty"`
	RemovedFromMinus80ForProcessing time.Time `json:"removed_from_minus80_for_processing,omitempty"`

	RNAExtractionDate    time.Time `json:"rna_extraction_date,omitempty"`
	RNAExtractionKit     string    `json:"rna_extraction_kit,omitempty"`
	RNAInputVolumeUL     float64   `json:"rna_input_volume_ul,omitempty"`
	RNAElutionVolumeUL   float64   `json:"rna_elution_volume_ul,omitempty"`
	RNASpikeInUsed       bool      `json:"rna_spike_in_used"`
	RNASpikeInDetails    string    `json:"rna_spike_in_details,omitempty"`
	RNATotalConcNgPerUL  float64   `json:"rna_total_conc_ng_per_ul,omitempty"`
	RNAA260280           float64   `json:"rna_a260_280,omitempty"`
	RNAA260230           float64   `json:"rna_a260_230,omitempty"`
	RNASmallRNAConc      float64   `json:"rna_small_rna_conc,omitempty"`
	RNASmallRNAPercent   float64   `json:"rna_small_rna_percent,omitempty"`
	RNABioanalyzerReport string    `json:"rna_bioanalyzer_report,omitempty"`
	RNAQCNotes           string    `json:"rna_qc_notes,omitempty"`

	DNAExtractionDate  time.Time `json:"dna_extraction_date,omitempty"`
	DNAExtractionKit   string    `json:"dna_extraction_kit,omitempty"`
	DNAInputVolumeUL   float64   `json:"dna_input_volume_ul,omitempty"`
	DNAElutionVolumeUL float64   `json:"dna_elution_volume_ul,omitempty"`

	Bact16SQPCRMeanCq  float64   `json:"bact16s_qpcr_mean_cq,omitempty"`
	Bact16SStdCurveID  string    `json:"bact16s_std_curve_id,omitempty"`
	Bact16SCopiesPerML float64   `json:"bact16s_copies_per_ml,omitempty"`
	Bact16SRunDate     time.Time `json:"bact16s_run_date,omitempty"`
	Bact16SNotes       string    `json:"bact16s_notes,omitempty"`

	AssayType         string    `json:"assay_type,omitempty"`
	AssayName         string    `json:"assay_name,omitempty"`
	LabName           string    `json:"lab_name,omitempty"`
	RunDate           time.Time `json:"run_date,omitempty"`
	ResultSummary     string    `json:"result_summary,omitempty"`
	CtValuesOrMetrics string    `json:"ct_values_or_metrics,omitempty"`
	ReportFileName    string    `json:"report_file_name,omitempty"`

	IsPilotSample string    `json:"is_pilot_sample"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RiskResult records one risk-panel readout for a sample. Scores are
// recorded as reported by the risk tool, never computed here.
type RiskResult struct {
	ResearchID      string    `json:"research_id"`
	SampleID        string    `json:"sample_id"`
	Cohort          string    `json:"cohort"`
	PanelName       string    `json:"panel_name"`
	RiskToolName    string    `json:"risk_tool_name"`
	RiskToolVersion string    `json:"risk_tool_version,omitempty"`
	RiskDateTime    time.Time `json:"risk_date_time"`
	RiskScore       float64   `json:"risk_score"`
	RiskCategory    string    `json:"risk_category,omitempty"`
	RiskThreshold   float64   `json:"risk_threshold,omitempty"`
	RiskNotes       string    `json:"risk_notes,omitempty"`
	RiskReportFile  string    `json:"risk_report_file,omitempty"`
	PanelInputFile  string    `json:"panel_input_file,omitempty"`
}
