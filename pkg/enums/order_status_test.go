package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusUnshipped, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusUnshipped, OrderStatusShipped, true},
		{OrderStatusUnshipped, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if !OrderStatusCompleted.IsTerminal() {
		t.Fatal("COMPLETED should be terminal")
	}
	if !OrderStatusCancelled.IsTerminal() {
		t.Fatal("CANCELLED should be terminal")
	}
	if OrderStatusUnshipped.IsTerminal() {
		t.Fatal("UNSHIPPED should not be terminal")
	}
	if OrderStatus("BOGUS").IsTerminal() {
		t.Fatal("unknown status should not report terminal")
	}
}

func TestParseListingStatus(t *testing.T) {
	if _, err := ParseListingStatus("SENT_FRESH"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseListingStatus("SENT FRESH"); err == nil {
		t.Fatal("spaced form is not a canonical listing status")
	}
}
