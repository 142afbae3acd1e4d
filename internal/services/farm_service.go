package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
)

// FarmService answers the ownership questions every entry point asks
// before touching farm data.
type FarmService struct {
	farms FarmStore
}

func NewFarmService(farms FarmStore) *FarmService {
	return &FarmService{farms: farms}
}

// AuthorizeFarm loads the farm and confirms the caller owns it.
func (s *FarmService) AuthorizeFarm(ctx context.Context, ownerID string, farmID uuid.UUID) (*models.Farm, error) {
	farm, err := s.farms.GetByID(ctx, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve farm: %w", err)
	}
	if farm == nil {
		return nil, ErrFarmNotFound
	}
	if farm.OwnerID != ownerID {
		slog.Warn("Farm owner mismatch", "farm_id", farmID, "owner_id", farm.OwnerID)
		return nil, ErrNotFarmOwner
	}
	return farm, nil
}

// OwnedFarmIDs lists the ids of every farm the user owns, optionally
// narrowed to one farm.
func (s *FarmService) OwnedFarmIDs(ctx context.Context, ownerID string, farmID *uuid.UUID) ([]uuid.UUID, error) {
	farms, err := s.farms.ListByOwner(ctx, ownerID, farmID)
	if err != nil {
		return nil, fmt.Errorf("failed to list farms: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(farms))
	for _, farm := range farms {
		ids = append(ids, farm.ID)
	}
	return ids, nil
}
