package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sustainai/hazard-risk/internal/models"
)

var (
	ErrNotFound  = errors.New("hazard not found")
	ErrDuplicate = errors.New("hazard already archived")
)

type Filter struct {
	Limit   int
	Offset  int
	Since   *time.Time
	Type    *models.HazardType
	MinRisk *int
	Source  string
}

// HazardRepository archives first-seen hazard records across refresh cycles.
type HazardRepository interface {
	Add(ctx context.Context, r *models.RiskRecord) error
	GetByID(ctx context.Context, id string) (*models.RiskRecord, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, opts Filter) ([]models.RiskRecord, error)
	Count(ctx context.Context) (int64, error)
}
