package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SHERATONS/FISHERMEN/api/middleware"
	"github.com/SHERATONS/FISHERMEN/api/responses"
	"github.com/SHERATONS/FISHERMEN/internal/catalog"
	pkgerrors "github.com/SHERATONS/FISHERMEN/pkg/errors"
	"github.com/SHERATONS/FISHERMEN/pkg/logger"
)

const maxListingImageBytes = 10 << 20

// ListListings returns the catalog filtered by the optional query params.
func ListListings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		criteria := catalog.Criteria{
			SearchTerm: query.Get("searchTerm"),
			Species:    query.Get("species"),
			Status:     query.Get("status"),
			MinPrice:   query.Get("minPrice"),
			MaxPrice:   query.Get("maxPrice"),
		}

		listings, err := svc.List(r.Context(), criteria)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings)
	}
}

// ListFishermanListings returns every listing published by one fisherman.
func ListFishermanListings(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fishermanID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fisherman id"))
			return
		}

		listings, err := svc.ListByFisherman(r.Context(), fishermanID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings)
	}
}

// GetListing returns a single listing by id.
func GetListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid listing id"))
			return
		}

		dto, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// CreateListing accepts a multipart form with the listing fields and an
// optional image part. The fisherman is taken from the authenticated caller.
func CreateListing(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxListingImageBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		fishermanID, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		input := catalog.CreateListingInput{
			FishermanID: fishermanID,
			FishType:    r.FormValue("fishType"),
			Location:    r.FormValue("location"),
			Status:      r.FormValue("status"),
		}

		weight, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("weightInKg")), 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "weightInKg must be a number"))
			return
		}
		input.WeightInKg = weight

		price, err := decimal.NewFromString(strings.TrimSpace(r.FormValue("price")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be a decimal number"))
			return
		}
		input.Price = price

		catchDate, err := parseCatchDate(r.FormValue("catchDate"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.CatchDate = catchDate

		if file, header, err := r.FormFile("image"); err == nil {
			defer file.Close()
			input.ImageName = header.Filename
			input.Image = file
		} else if err != http.ErrMissingFile {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid image upload"))
			return
		}

		dto, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

func parseCatchDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "catchDate is required")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "catchDate must be an RFC 3339 timestamp or YYYY-MM-DD date")
}
