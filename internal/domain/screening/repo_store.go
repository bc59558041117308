package screening

import (
	"context"
	"time"

	"github.com/oscc/capture/internal/platform/tablestore"
)

const TableEligibility = "research_eligibility"

// Schema declares the eligibility worksheet columns in questionnaire order.
var Schema = tablestore.Schema{
	TableEligibility: {
		"ResearchID", "Group", "Cohort",
		"AUDIT_Q1", "AUDIT_Q2", "AUDIT_Q3", "AUDIT_Q4", "AUDIT_Q5",
		"AUDIT_Q6", "AUDIT_Q7", "AUDIT_Q8", "AUDIT_Q9", "AUDIT_Q10",
		"AUDIT_Total", "AUDIT_Risk", "AUDIT_AlcoholAbuseFlag",
		"Inc_Case_OSCCConfirmed", "Inc_Case_Age18Plus", "Inc_Case_AnyStage",
		"Inc_Case_Consent", "Inc_Case_SalivaAdequate",
		"Exc_Case_OtherMalignancy", "Exc_Case_PriorMalignancyTreatment",
		"Exc_Case_MetastaticOralLesion", "Exc_Case_Pregnancy",
		"Exc_Case_SubstanceAbuseNonAlcohol",
		"Inc_Ctrl_NoMalignancy", "Inc_Ctrl_Age18Plus", "Inc_Ctrl_Consent",
		"Inc_Ctrl_SalivaAdequate",
		"Exc_Ctrl_HistoryMalignancy", "Exc_Ctrl_Pregnancy",
		"Exc_Ctrl_SubstanceAbuseNonAlcohol",
		"OverallEligible", "IneligibilityReason", "UpdatedAt",
	},
}

type RepoStore struct {
	store tablestore.Store
}

func NewRepoStore(store tablestore.Store) *RepoStore {
	return &RepoStore{store: store}
}

func toRecord(s *Screening) tablestore.Record {
	rec := tablestore.Record{
		"ResearchID":          s.ResearchID,
		"Group":               s.Group,
		"Cohort":              s.Cohort,
		"AUDIT_Risk":          s.AuditRisk,
		"IneligibilityReason": s.IneligibilityReason,
	}
	rec.SetInt("AUDIT_Q1", s.Audit.Q1)
	rec.SetInt("AUDIT_Q2", s.Audit.Q2)
	rec.SetInt("AUDIT_Q3", s.Audit.Q3)
	rec.SetInt("AUDIT_Q4", s.Audit.Q4)
	rec.SetInt("AUDIT_Q5", s.Audit.Q5)
	rec.SetInt("AUDIT_Q6", s.Audit.Q6)
	rec.SetInt("AUDIT_Q7", s.Audit.Q7)
	rec.SetInt("AUDIT_Q8", s.Audit.Q8)
	rec.SetInt("AUDIT_Q9", s.Audit.Q9)
	rec.SetInt("AUDIT_Q10", s.Audit.Q10)
	rec.SetInt("AUDIT_Total", s.AuditTotal)
	rec.SetBool("AUDIT_AlcoholAbuseFlag", s.AlcoholAbuseFlag)
	rec.SetBool("Inc_Case_OSCCConfirmed", s.Case.IncOSCCConfirmed)
	rec.SetBool("Inc_Case_Age18Plus", s.Case.IncAge18Plus)
	rec.SetBool("Inc_Case_AnyStage", s.Case.IncAnyStage)
	rec.SetBool("Inc_Case_Consent", s.Case.IncConsent)
	rec.SetBool("Inc_Case_SalivaAdequate", s.Case.IncSalivaAdequate)
	rec.SetBool("Exc_Case_OtherMalignancy", s.Case.ExcOtherMalignancy)
	rec.SetBool("Exc_Case_PriorMalignancyTreatment", s.Case.ExcPriorMalignancyTreatment)
	rec.SetBool("Exc_Case_MetastaticOralLesion", s.Case.ExcMetastaticOralLesion)
	rec.SetBool("Exc_Case_Pregnancy", s.Case.ExcPregnancy)
	rec.SetBool("Exc_Case_SubstanceAbuseNonAlcohol", s.Case.ExcSubstanceAbuseNonAlcohol)
	rec.SetBool("Inc_Ctrl_NoMalignancy", s.Control.IncNoMalignancy)
	rec.SetBool("Inc_Ctrl_Age18Plus", s.Control.IncAge18Plus)
	rec.SetBool("Inc_Ctrl_Consent", s.Control.IncConsent)
	rec.SetBool("Inc_Ctrl_SalivaAdequate", s.Control.IncSalivaAdequate)
	rec.SetBool("Exc_Ctrl_HistoryMalignancy", s.Control.ExcHistoryMalignancy)
	rec.SetBool("Exc_Ctrl_Pregnancy", s.Control.ExcPregnancy)
	rec.SetBool("Exc_Ctrl_SubstanceAbuseNonAlcohol", s.Control.ExcSubstanceAbuseNonAlcohol)
	rec.SetBool("OverallEligible", s.OverallEligible)
	if !s.UpdatedAt.IsZero() {
		rec["UpdatedAt"] = s.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return rec
}

func fromRecord(rec tablestore.Record) *Screening {
	s := &Screening{
		ResearchID: rec["ResearchID"],
		Group:      rec["Group"],
		Cohort:     rec["Cohort"],
		Audit: AuditAnswers{
			Q1: rec.Int("AUDIT_Q1"), Q2: rec.Int("AUDIT_Q2"),
			Q3: rec.Int("AUDIT_Q3"), Q4: rec.Int("AUDIT_Q4"),
			Q5: rec.Int("AUDIT_Q5"), Q6: rec.Int("AUDIT_Q6"),
			Q7: rec.Int("AUDIT_Q7"), Q8: rec.Int("AUDIT_Q8"),
			Q9: rec.Int("AUDIT_Q9"), Q10: rec.Int("AUDIT_Q10"),
		},
		Case: CaseCriteria{
			IncOSCCConfirmed:            rec.Bool("Inc_Case_OSCCConfirmed"),
			IncAge18Plus:                rec.Bool("Inc_Case_Age18Plus"),
			IncAnyStage:                 rec.Bool("Inc_Case_AnyStage"),
			IncConsent:                  rec.Bool("Inc_Case_Consent"),
			IncSalivaAdequate:           rec.Bool("Inc_Case_SalivaAdequate"),
			ExcOtherMalignancy:          rec.Bool("Exc_Case_OtherMalignancy"),
			ExcPriorMalignancyTreatment: rec.Bool("Exc_Case_PriorMalignancyTreatment"),
			ExcMetastaticOralLesion:     rec.Bool("Exc_Case_MetastaticOralLesion"),
			ExcPregnancy:                rec.Bool("Exc_Case_Pregnancy"),
			ExcSubstanceAbuseNonAlcohol: rec.Bool("Exc_Case_SubstanceAbuseNonAlcohol"),
		},
		Control: ControlCriteria{
			IncNoMalignancy:             rec.Bool("Inc_Ctrl_NoMalignancy"),
			IncAge18Plus:                rec.Bool("Inc_Ctrl_Age18Plus"),
			IncConsent:                  rec.Bool("Inc_Ctrl_Consent"),
			IncSalivaAdequate:           rec.Bool("Inc_Ctrl_SalivaAdequate"),
			ExcHistoryMalignancy:        rec.Bool("Exc_Ctrl_HistoryMalignancy"),
			ExcPregnancy:                rec.Bool("Exc_Ctrl_Pregnancy"),
			ExcSubstanceAbuseNonAlcohol: rec.Bool("Exc_Ctrl_SubstanceAbuseNonAlcohol"),
		},
		AuditTotal:          rec.Int("AUDIT_Total"),
		AuditRisk:           rec["AUDIT_Risk"],
		AlcoholAbuseFlag:    rec.Bool("AUDIT_AlcoholAbuseFlag"),
		OverallEligible:     rec.Bool("OverallEligible"),
		IneligibilityReason: rec["IneligibilityReason"],
	}
	if t, err := time.Parse(time.RFC3339, rec["UpdatedAt"]); err == nil {
		s.UpdatedAt = t
	}
	return s
}

func (r *RepoStore) Upsert(ctx context.Context, s *Screening) error {
	return r.store.Upsert(ctx, TableEligibility, "ResearchID", toRecord(s))
}

func (r *RepoStore) GetByResearchID(ctx context.Context, researchID string) (*Screening, error) {
	recs, err := r.store.Load(ctx, TableEligibility)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec["ResearchID"] == researchID {
			return fromRecord(rec), nil
		}
	}
	return nil, ErrScreeningNotFound
}

func (r *RepoStore) List(ctx context.Context) ([]*Screening, error) {
	recs, err := r.store.Load(ctx, TableEligibility)
	if err != nil {
		return nil, err
	}
	out := make([]*Screening, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromRecord(rec))
	}
	return out, nil
}
