package storage

import (
	"context"
	"errors"

	"coinforge/internal/model"
)

// Storage defines a sink for built artifacts.
type Storage interface {
	PutTokenArtifacts(ctx context.Context, artifacts []model.TokenArtifact) error
	PutPoolPlans(ctx context.Context, plans []model.PoolPlanRecord) error
}

// Multi fans writes out to every sink and joins their errors.
type Multi []Storage

func (m Multi) PutTokenArtifacts(ctx context.Context, artifacts []model.TokenArtifact) error {
	var errs []error
	for _, s := range m {
		if err := s.PutTokenArtifacts(ctx, artifacts); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) PutPoolPlans(ctx context.Context, plans []model.PoolPlanRecord) error {
	var errs []error
	for _, s := range m {
		if err := s.PutPoolPlans(ctx, plans); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
