package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// Repository exposes persistence helpers for fish listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, listing *models.FishListing) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FishListing, error)
	List(ctx context.Context) ([]models.FishListing, error)
	ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]models.FishListing, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ListingStatus) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a catalog repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, listing *models.FishListing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.FishListing, error) {
	var listing models.FishListing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// List returns the whole store in insertion order. The filter runs in memory
// so its results stay order-stable with respect to this query.
func (r *repositoryImpl) List(ctx context.Context) ([]models.FishListing, error) {
	var listings []models.FishListing
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repositoryImpl) ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]models.FishListing, error) {
	var listings []models.FishListing
	if err := r.db.WithContext(ctx).
		Where("fisherman_id = ?", fishermanID).
		Order("created_at ASC, id ASC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ListingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.FishListing{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}
