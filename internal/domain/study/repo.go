package study

import (
	"context"
	"errors"
)

var (
	ErrStudyNotFound        = errors.New("study not found")
	ErrLabNotFound          = errors.New("lab not found")
	ErrInvestigatorNotFound = errors.New("investigator not found")
)

type StudyRepository interface {
	Upsert(ctx context.Context, s *Study) error
	GetByID(ctx context.Context, id string) (*Study, error)
	List(ctx context.Context) ([]*Study, error)
	Delete(ctx context.Context, id string) error
}

type LabRepository interface {
	Upsert(ctx context.Context, l *Lab) error
	GetByID(ctx context.Context, id string) (*Lab, error)
	List(ctx context.Context) ([]*Lab, error)
	Delete(ctx context.Context, id string) error
}

type InvestigatorRepository interface {
	Upsert(ctx context.Context, inv *Investigator) error
	GetByID(ctx context.Context, id string) (*Investigator, error)
	List(ctx context.Context) ([]*Investigator, error)
	Delete(ctx context.Context, id string) error
}
