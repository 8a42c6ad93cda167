package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

// Operations shared by every collection kind.

// DeleteLink hard-deletes one item. Deleting an id the owner does not have
// succeeds without touching anything.
func (s *LinkService) DeleteLink(ctx context.Context, ownerID uuid.UUID, kind domain.LinkKind, id uuid.UUID) error {
	if err := requireKind(ownerID, kind); err != nil {
		return err
	}
	if err := s.repo.DeleteLink(ctx, kind, ownerID, id); err != nil {
		return fmt.Errorf("delete %s link: %w", kind, err)
	}
	s.changed(ctx, ownerID)
	return nil
}

func (s *LinkService) SetVisibility(ctx context.Context, ownerID uuid.UUID, kind domain.LinkKind, id uuid.UUID, visible bool) error {
	if err := requireKind(ownerID, kind); err != nil {
		return err
	}
	if err := s.repo.SetLinkVisibility(ctx, kind, ownerID, id, visible); err != nil {
		return fmt.Errorf("set %s visibility: %w", kind, err)
	}
	s.changed(ctx, ownerID)
	return nil
}

// ReorderLinks gives each id its index as sort order. The batch is applied
// atomically; an id the owner does not have fails all of it.
func (s *LinkService) ReorderLinks(ctx context.Context, ownerID uuid.UUID, kind domain.LinkKind, ids []uuid.UUID) error {
	if err := requireKind(ownerID, kind); err != nil {
		return err
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return domain.Invalid("Each item may appear only once")
		}
		seen[id] = struct{}{}
	}
	if len(ids) == 0 {
		return nil
	}

	if err := s.repo.ReorderLinks(ctx, kind, ownerID, ids); err != nil {
		return fmt.Errorf("reorder %s links: %w", kind, err)
	}
	s.log.Debug("links reordered",
		zap.String("owner_id", ownerID.String()),
		zap.String("kind", string(kind)),
		zap.Int("count", len(ids)))
	s.changed(ctx, ownerID)
	return nil
}

func requireKind(ownerID uuid.UUID, kind domain.LinkKind) error {
	if err := requireOwner(ownerID); err != nil {
		return err
	}
	if !kind.Valid() {
		return domain.Invalid(fmt.Sprintf("Unknown link kind %q", kind))
	}
	return nil
}
