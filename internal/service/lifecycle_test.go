package service

import (
	"testing"

	"github.com/cafe-fusion/api/internal/enum"
)

func TestValidateStatusTransition(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		wantErr bool
	}{
		{"pending to confirmed", enum.OrderStatusPending, enum.OrderStatusConfirmed, false},
		{"pending to cancelled", enum.OrderStatusPending, enum.OrderStatusCancelled, false},
		{"pending to completed", enum.OrderStatusPending, enum.OrderStatusCompleted, true},
		{"confirmed is terminal", enum.OrderStatusConfirmed, enum.OrderStatusCancelled, true},
		{"cancelled is terminal", enum.OrderStatusCancelled, enum.OrderStatusConfirmed, true},
		{"completed is terminal", enum.OrderStatusCompleted, enum.OrderStatusCancelled, true},
		{"no self transition", enum.OrderStatusPending, enum.OrderStatusPending, true},
		{"unknown status", "shipped", enum.OrderStatusConfirmed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusTransition(tt.current, tt.next)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStatusTransition(%s, %s) error = %v, wantErr %v",
					tt.current, tt.next, err, tt.wantErr)
			}
		})
	}
}
