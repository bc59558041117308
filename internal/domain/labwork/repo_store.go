package labwork

import (
	"context"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const (
	TableLabResults  = "research_lab_pcr_ngs"
	TableRiskResults = "risk_results"
)

// Schema declares the lab and risk-panel result tables.
var Schema = tablestore.Schema{
	TableLabResults: {
		"ResearchID", "SampleID", "SampleType", "Cohort",
		"ReceivedAtMicroLab", "PlacedInMinus80_Micro",
		"RemovedFromMinus80_ForExternal", "LoadedIntoCryocan_ForExternal",
		"ArrivedExternalLab", "PlacedInMinus80_External",
		"RemovedFromMinus80_ForProcessing",
		"RNA_ExtractionDate", "RNA_ExtractionKit",
		"RNA_InputVolume_uL", "RNA_ElutionVolume_uL",
		"RNA_SpikeIn_Used_YN", "RNA_SpikeIn_Details",
		"RNA_TotalConc_ng_per_uL", "RNA_A260_280", "RNA_A260_230",
		"RNA_SmallRNA_Conc", "RNA_SmallRNA_Percent",
		"RNA_Bioanalyzer_Report", "RNA_QC_Notes",
		"DNA_ExtractionDate", "DNA_ExtractionKit",
		"DNA_InputVolume_uL", "DNA_ElutionVolume_uL",
		"Bact16S_qPCR_MeanCq", "Bact16S_StdCurve_ID",
		"Bact16S_Copies_per_mL", "Bact16S_RunDate", "Bact16S_Notes",
		"AssayType", "AssayName", "LabName", "RunDate",
		"ResultSummary", "CtValuesOrMetrics", "ReportFileName",
		"IsPilotSample", "UpdatedAt",
	},
	TableRiskResults: {
		"ResearchID", "SampleID", "Cohort", "PanelName",
		"RiskToolName", "RiskToolVersion", "RiskDateTime",
		"RiskScore", "RiskCategory", "RiskThreshold",
		"RiskNotes", "RiskReportFile", "PanelInputFile",
	},
}

func setTime(rec tablestore.Record, col string, t time.Time) {
	if !t.IsZero() {
		rec[col] = t.UTC().Format(time.RFC3339)
	}
}

func getTime(rec tablestore.Record, col string) time.Time {
	t, err := time.Parse(time.RFC3339, rec[col])
	if err != nil {
		return time.Time{}
	}
	return t
}

// ── Lab results ──

type LabResultRepoStore struct {
	store tablestore.Store
}

func NewLabResultRepoStore(store tablestore.Store) *LabResultRepoStore {
	return &LabResultRepoStore{store: store}
}

func labToRecord(r *LabResult) tablestore.Record {
	rec := tablestore.Record{
		"ResearchID":             r.ResearchID,
		"SampleID":               r.SampleID,
		"SampleType":             r.SampleType,
		"Cohort":                 r.Cohort,
		"RNA_ExtractionKit":      r.RNAExtractionKit,
		"RNA_SpikeIn_Details":    r.RNASpikeInDetails,
		"RNA_Bioanalyzer_Report": r.RNABioanalyzerReport,
		"RNA_QC_Notes":           r.RNAQCNotes,
		"DNA_ExtractionKit":      r.DNAExtractionKit,
		"Bact16S_StdCurve_ID":    r.Bact16SStdCurveID,
		"Bact16S_Notes":          r.Bact16SNotes,
		"AssayType":              r.AssayType,
		"AssayName":              r.AssayName,
		"LabName":                r.LabName,
		"ResultSummary":          r.ResultSummary,
		"CtValuesOrMetrics":      r.CtValuesOrMetrics,
		"ReportFileName":         r.ReportFileName,
		"IsPilotSample":          r.IsPilotSample,
	}
	setTime(rec, "ReceivedAtMicroLab", r.ReceivedAtMicroLab)
	setTime(rec, "PlacedInMinus80_Micro", r.PlacedInMinus80Micro)
	setTime(rec, "RemovedFromMinus80_ForExternal", r.RemovedFromMinus80ForExternal)
	setTime(rec, "LoadedIntoCryocan_ForExternal", r.LoadedIntoCryocanForExternal)
	setTime(rec, "ArrivedExternalLab", r.ArrivedExternalLab)
	setTime(rec, "PlacedInMinus80_External", r.PlacedInMinus80External)
	setTime(rec, "RemovedFromMinus80_ForProcessing", r.RemovedFromMinus80ForProcessing)
	setTime(rec, "RNA_ExtractionDate", r.RNAExtractionDate)
	setTime(rec, "DNA_ExtractionDate", r.DNAExtractionDate)
	setTime(rec, "Bact16S_RunDate", r.Bact16SRunDate)
	setTime(rec, "RunDate", r.RunDate)
	setTime(rec, "UpdatedAt", r.UpdatedAt)
	rec.SetBool("RNA_SpikeIn_Used_YN", r.RNASpikeInUsed)
	rec.SetFloat("RNA_InputVolume_uL", r.RNAInputVolumeUL)
	rec.SetFloat("RNA_ElutionVolume_uL", r.RNAElutionVolumeUL)
	rec.SetFloat("RNA_TotalConc_ng_per_uL", r.RNATotalConcNgPerUL)
	rec.SetFloat("RNA_A260_280", r.RNAA260280)
	rec.SetFloat("RNA_A260_230", r.RNAA260230)
	rec.SetFloat("RNA_SmallRNA_Conc", r.RNASmallRNAConc)
	rec.SetFloat("RNA_SmallRNA_Percent", r.RNASmallRNAPercent)
	rec.SetFloat("DNA_InputVolume_uL", r.DNAInputVolumeUL)
	rec.SetFloat("DNA_ElutionVolume_uL", r.DNAElutionVolumeUL)
	rec.SetFloat("Bact16S_qPCR_MeanCq", r.Bact16SQPCRMeanCq)
	rec.SetFloat("Bact16S_Copies_per_mL", r.Bact16SCopiesPerML)
	return rec
}

func labFromRecord(rec tablestore.Record) *LabResult {
	return &LabResult{
		ResearchID:                      rec["ResearchID"],
		SampleID:                        rec["SampleID"],
		SampleType:                      rec["SampleType"],
		Cohort:                          rec["Cohort"],
		ReceivedAtMicroLab:              getTime(rec, "ReceivedAtMicroLab"),
		PlacedInMinus80Micro:            getTime(rec, "PlacedInMinus80_Micro"),
		RemovedFromMinus80ForExternal:   getTime(rec, "RemovedFromMinus80_ForExternal"),
		LoadedIntoCryocanForExternal:    getTime(rec, "LoadedIntoCryocan_ForExternal"),
		ArrivedExternalLab:              getTime(rec, "ArrivedExternalLab"),
		PlacedInMinus80External:         getTime(rec, "PlacedInMinus80_External"),
		RemovedFromMinus80ForProcessing: getTime(rec, "RemovedFromMinus80_ForProcessing"),
		RNAExtractionDate:               getTime(rec, "RNA_ExtractionDate"),
		RNAExtractionKit:                rec["RNA_ExtractionKit"],
		RNAInputVolumeUL:                rec.Float("RNA_InputVolume_uL"),
		RNAElutionVolumeUL:              rec.Float("RNA_ElutionVolume_uL"),
		RNASpikeInUsed:                  rec.Bool("RNA_SpikeIn_Used_YN"),
		RNASpikeInDetails:               rec["RNA_SpikeIn_Details"],
		RNATotalConcNgPerUL:             rec.Float("RNA_TotalConc_ng_per_uL"),
		RNAA260280:                      rec.Float("RNA_A260_280"),
		RNAA260230:                      rec.Float("RNA_A260_230"),
		RNASmallRNAConc:                 rec.Float("RNA_SmallRNA_Conc"),
		RNASmallRNAPercent:              rec.Float("RNA_SmallRNA_Percent"),
		RNABioanalyzerReport:            rec["RNA_Bioanalyzer_Report"],
		RNAQCNotes:                      rec["RNA_QC_Notes"],
		DNAExtractionDate:               getTime(rec, "DNA_ExtractionDate"),
		DNAExtractionKit:                rec["DNA_ExtractionKit"],
		DNAInputVolumeUL:                rec.Float("DNA_InputVolume_uL"),
		DNAElutionVolumeUL:              rec.Float("DNA_ElutionVolume_uL"),
		Bact16SQPCRMeanCq:               rec.Float("Bact16S_qPCR_MeanCq"),
		Bact16SStdCurveID:               rec["Bact16S_StdCurve_ID"],
		Bact16SCopiesPerML:              rec.Float("Bact16S_Copies_per_mL"),
		Bact16SRunDate:                  getTime(rec, "Bact16S_RunDate"),
		Bact16SNotes:                    rec["Bact16S_Notes"],
		AssayType:                       rec["AssayType"],
		AssayName:                       rec["AssayName"],
		LabName:                         rec["LabName"],
		RunDate:                         getTime(rec, "RunDate"),
		ResultSummary:                   rec["ResultSummary"],
		CtValuesOrMetrics:               rec["CtValuesOrMetrics"],
		ReportFileName:                  rec["ReportFileName"],
		IsPilotSample:                   rec["IsPilotSample"],
		UpdatedAt:                       getTime(rec, "UpdatedAt"),
	}
}

func (r *LabResultRepoStore) Upsert(ctx context.Context, res *LabResult) error {
	return r.store.Upsert(ctx, TableLabResults, "SampleID", labToRecord(res))
}

func (r *LabResultRepoStore) GetBySampleID(ctx context.Context, sampleID string) (*LabResult, error) {
	recs, err := r.store.Load(ctx, TableLabResults)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["SampleID"] == sampleID {
			return labFromRecord(rec), nil
		}
	}
	return nil, ErrLabResultNotFound
}

func (r *LabResultRepoStore) List(ctx context.Context) ([]*LabResult, error) {
	recs, err := r.store.Load(ctx, TableLabResults)
	if err != nil {
		return nil, err
	}
	out := make([]*LabResult, 0, len(recs))
	for _, rec := range recs {
		out = append(out, labFromRecord(rec))
	}
	return out, nil
}

func (r *LabResultRepoStore) ListByResearchID(ctx context.Context, researchID string) ([]*LabResult, error) {
	recs, err := r.store.Load(ctx, TableLabResults)
	if err != nil {
		return nil, err
	}
	var out []*LabResult
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			out = append(out, labFromRecord(rec))
		}
	}
	return out, nil
}

// ── Risk results ──

type RiskResultRepoStore struct {
	store tablestore.Store
}

func NewRiskResultRepoStore(store tablestore.Store) *RiskResultRepoStore {
	return &RiskResultRepoStore{store: store}
}

func riskToRecord(r *RiskResult) tablestore.Record {
	rec := tablestore.Record{
		"ResearchID":      r.ResearchID,
		"SampleID":        r.SampleID,
		"Cohort":          r.Cohort,
		"PanelName":       r.PanelName,
		"RiskToolName":    r.RiskToolName,
		"RiskToolVersion": r.RiskToolVersion,
		"RiskCategory":    r.RiskCategory,
		"RiskNotes":       r.RiskNotes,
		"RiskReportFile":  r.RiskReportFile,
		"PanelInputFile":  r.PanelInputFile,
	}
	setTime(rec, "RiskDateTime", r.RiskDateTime)
	rec.SetFloat("RiskScore", r.RiskScore)
	rec.SetFloat("RiskThreshold", r.RiskThreshold)
	return rec
}

func riskFromRecord(rec tablestore.Record) *RiskResult {
	return &RiskResult{
		ResearchID:      rec["ResearchID"],
		SampleID:        rec["SampleID"],
		Cohort:          rec["Cohort"],
		PanelName:       rec["PanelName"],
		RiskToolName:    rec["RiskToolName"],
		RiskToolVersion: rec["RiskToolVersion"],
		RiskDateTime:    getTime(rec, "RiskDateTime"),
		RiskScore:       rec.Float("RiskScore"),
		RiskCategory:    rec["RiskCategory"],
		RiskThreshold:   rec.Float("RiskThreshold"),
		RiskNotes:       rec["RiskNotes"],
		RiskReportFile:  rec["RiskReportFile"],
		PanelInputFile:  rec["PanelInputFile"],
	}
}

func (r *RiskResultRepoStore) Upsert(ctx context.Context, res *RiskResult) error {
	return r.store.Upsert(ctx, TableRiskResults, "SampleID", riskToRecord(res))
}

func (r *RiskResultRepoStore) GetBySampleID(ctx context.Context, sampleID string) (*RiskResult, error) {
	recs, err := r.store.Load(ctx, TableRiskResults)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["SampleID"] == sampleID {
			return riskFromRecord(rec), nil
		}
	}
	return nil, ErrRiskResultNotFound
}

func (r *RiskResultRepoStore) List(ctx context.Context) ([]*RiskResult, error) {
	recs, err := r.store.Load(ctx, TableRiskResults)
	if err != nil {
		return nil, err
	}
	out := make([]*RiskResult, 0, len(recs))
	for _, rec := range recs {
		out = append(out, riskFromRecord(rec))
	}
	return out, nil
}

func (r *RiskResultRepoStore) ListByResearchID(ctx context.Context, researchID string) ([]*RiskResult, error) {
	recs, err := r.store.Load(ctx, TableRiskResults)
	if err != nil {
		return nil, err
	}
	var out []*RiskResult
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			out = append(out, riskFromRecord(rec))
		}
	}
	return out, nil
}

// ── Sample register lookup ──

// SampleSourceStore reads the collection register directly; the lab only
// needs the owning participant, type and cohort of a sample.
type SampleSourceStore struct {
	store tablestore.Store
}

func NewSampleSourceStore(store tablestore.Store) *SampleSourceStore {
	return &SampleSourceStore{store: store}
}

func (s *SampleSourceStore) SampleInfo(ctx context.Context, sampleID string) (SampleInfo, error) {
	recs, err := s.store.Load(ctx, "research_samples")
	if err != nil {
		return SampleInfo{}, err
	}
	for _, rec := range recs {
		if rec["SampleID"] == sampleID {
			return SampleInfo{
				ResearchID: rec["ResearchID"],
				SampleType: rec["SampleType"],
				Cohort:     rec["Cohort"],
			}, nil
		}
	}
	return SampleInfo{}, ErrUnknownSample
}
