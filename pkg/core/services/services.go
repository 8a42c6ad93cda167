// Package services holds the application's use cases. Services validate
// input, enforce ownership and call storage through the ports package.
package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
	"github.com/wadjakorntonsri/artistus/pkg/ports"
)

func requireOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

type noopRevalidator struct{}

func (noopRevalidator) Revalidate(context.Context, uuid.UUID, string) {}

func orNoop(r ports.Revalidator) ports.Revalidator {
	if r == nil {
		return noopRevalidator{}
	}
	return r
}

func orNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
