package enum

// ── Order state machine (CHECK constrained in DB) ──
//
// Pending orders are confirmed or cancelled by staff; offline/POS
// orders are created directly as completed. No other transition exists.

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// ── Order channel (mode) ──

const (
	OrderModeOnline  = "online"
	OrderModeOffline = "offline"
	OrderModeDineIn  = "dine-in"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentModeCash = "cash"
	PaymentModeCard = "card"
	PaymentModeUPI  = "upi"
)

const (
	UserRoleCustomer = "customer"
	UserRoleStaff    = "staff"
)
