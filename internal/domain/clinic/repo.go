package clinic

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound   = errors.New("clinical patient not found")
	ErrVisitNotFound     = errors.New("visit not found")
	ErrImageNotFound     = errors.New("image not found")
	ErrTreatmentNotFound = errors.New("treatment not found")
)

type PatientRepository interface {
	Upsert(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, clinicalID string) (*Patient, error)
	List(ctx context.Context) ([]*Patient, error)
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, clinicalID string) error
}

type VisitRepository interface {
	Upsert(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, visitID string) (*Visit, error)
	ListByPatient(ctx context.Context, clinicalID string) ([]*Visit, error)
	Delete(ctx context.Context, visitID string) error
	DeleteByPatient(ctx context.Context, clinicalID string) (int, error)
}

type ImageRepository interface {
	Add(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, imageID string) (*Image, error)
	ListByPatient(ctx context.Context, clinicalID string) ([]*Image, error)
	Delete(ctx context.Context, imageID string) error
	DeleteByPatient(ctx context.Context, clinicalID string) (int, error)
}

type TreatmentRepository interface {
	Add(ctx context.Context, tr *Treatment) error
	GetByID(ctx context.Context, treatmentID string) (*Treatment, error)
	ListByPatient(ctx context.Context, clinicalID string) ([]*Treatment, error)
	Delete(ctx context.Context, treatmentID string) error
	DeleteByPatient(ctx context.Context, clinicalID string) (int, error)
}
