package catalog

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/SHERATONS/FISHERMEN/internal/media"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
)

// Service defines catalog browse and listing creation operations.
type Service interface {
	List(ctx context.Context, criteria Criteria) ([]ListingDTO, error)
	ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]ListingDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error)
	Create(ctx context.Context, input CreateListingInput) (*ListingDTO, error)
}

type service struct {
	repo  Repository
	media media.Store
}

// CreateListingInput carries the multipart form fields for a new listing.
// Image is optional; when present it is stored and the resulting URL recorded.
type CreateListingInput struct {
	FishermanID uuid.UUID
	FishType    string
	WeightInKg  float64
	Price       decimal.Decimal
	CatchDate   time.Time
	Location    string
	Status      string
	ImageName   string
	Image       io.Reader
}

// NewService wires catalog dependencies. The media store may be nil when
// photo uploads are disabled.
func NewService(repo Repository, mediaStore media.Store) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo, media: mediaStore}, nil
}

func (s *service) List(ctx context.Context, criteria Criteria) ([]ListingDTO, error) {
	listings, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}
	return FromModels(DeriveVisible(listings, criteria)), nil
}

func (s *service) ListByFisherman(ctx context.Context, fishermanID uuid.UUID) ([]ListingDTO, error) {
	if fishermanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fisherman id required")
	}
	listings, err := s.repo.ListByFisherman(ctx, fishermanID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list fisherman listings")
	}
	return FromModels(listings), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing id required")
	}
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return FromModel(listing), nil
}

func (s *service) Create(ctx context.Context, input CreateListingInput) (*ListingDTO, error) {
	if input.FishermanID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fisherman id required")
	}
	fishType := strings.TrimSpace(input.FishType)
	if fishType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fish type required")
	}
	if input.WeightInKg <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.CatchDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catch date required")
	}

	status := enums.ListingStatusAvailable
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := enums.ParseListingStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status = parsed
	}

	var photoURL *string
	if input.Image != nil {
		if s.media == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "photo uploads unavailable")
		}
		url, err := s.media.SaveImage(ctx, input.ImageName, input.Image)
		if err != nil {
			return nil, err
		}
		photoURL = &url
	}

	listing := CreateListingDTO{
		FishermanID: input.FishermanID,
		FishType:    fishType,
		WeightInKg:  input.WeightInKg,
		Price:       input.Price,
		PhotoURL:    photoURL,
		CatchDate:   input.CatchDate,
		Location:    strings.TrimSpace(input.Location),
		Status:      status,
	}.ToModel()

	if err := s.repo.Create(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return FromModel(listing), nil
}
