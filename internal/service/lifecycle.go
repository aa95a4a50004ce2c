package service

import (
	"fmt"

	"github.com/cafe-fusion/api/internal/enum"
)

// allowedTransitions defines the order status state machine. Only pending
// orders move; confirmed, cancelled, and completed are terminal. Offline
// orders are born completed and never enter this table.
var allowedTransitions = map[string][]string{
	enum.OrderStatusPending: {enum.OrderStatusConfirmed, enum.OrderStatusCancelled},
}

// ValidateStatusTransition checks whether current may move to next.
func ValidateStatusTransition(current, next string) error {
	allowed, ok := allowedTransitions[current]
	if !ok {
		return fmt.Errorf("cannot transition from %s", current)
	}
	for _, s := range allowed {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("cannot transition from %s to %s", current, next)
}
