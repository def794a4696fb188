package catalog

import (
	"math"
	"strconv"
	"strings"

	"github.com/SHERATONS/FISHERMEN/pkg/db/models"
	"github.com/SHERATONS/FISHERMEN/pkg/enums"
)

// Criteria holds the optional filter knobs for the catalog browse view.
// Absent or empty values place no constraint.
type Criteria struct {
	SearchTerm string `json:"searchTerm,omitempty"`
	Species    string `json:"species,omitempty"`
	Status     string `json:"status,omitempty"`
	MinPrice   string `json:"minPrice,omitempty"`
	MaxPrice   string `json:"maxPrice,omitempty"`
}

// DeriveVisible applies the criteria conjunctively and preserves the input
// order. Price bounds that fail to parse to a finite non-negative number are
// ignored rather than rejected.
func DeriveVisible(listings []models.FishListing, criteria Criteria) []models.FishListing {
	search := strings.ToLower(strings.TrimSpace(criteria.SearchTerm))
	species := strings.ToLower(strings.TrimSpace(criteria.Species))
	status, hasStatus := parseStatus(criteria.Status)
	minPrice, hasMin := parsePriceBound(criteria.MinPrice)
	maxPrice, hasMax := parsePriceBound(criteria.MaxPrice)

	visible := make([]models.FishListing, 0, len(listings))
	for _, listing := range listings {
		if search != "" && !strings.Contains(strings.ToLower(listing.FishType), search) {
			continue
		}
		if species != "" && strings.ToLower(listing.FishType) != species {
			continue
		}
		if hasStatus && listing.Status != status {
			continue
		}
		price, _ := listing.Price.Float64()
		if hasMin && price < minPrice {
			continue
		}
		if hasMax && price > maxPrice {
			continue
		}
		visible = append(visible, listing)
	}
	return visible
}

func parseStatus(value string) (enums.ListingStatus, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	status, err := enums.ParseListingStatus(trimmed)
	if err != nil {
		return "", false
	}
	return status, true
}

func parsePriceBound(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
