package enums

import "fmt"

// ListingStatus represents the lifecycle of a fish listing in the catalog.
type ListingStatus string

const (
	ListingStatusSentFresh   ListingStatus = "SENT_FRESH"
	ListingStatusSentFrozen  ListingStatus = "SENT_FROZEN"
	ListingStatusUnsentFresh ListingStatus = "UNSENT_FRESH"
	ListingStatusAvailable   ListingStatus = "AVAILABLE"
	ListingStatusSold        ListingStatus = "SOLD"
)

var validListingStatuses = []ListingStatus{
	ListingStatusSentFresh,
	ListingStatusSentFrozen,
	ListingStatusUnsentFresh,
	ListingStatusAvailable,
	ListingStatusSold,
}

// String implements fmt.Stringer.
func (s ListingStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ListingStatus.
func (s ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}
