package enum

// ── Order lifecycle (validated in the order store) ──

const (
	OrderStatusPending       = "PENDING"
	OrderStatusInPreparation = "IN_PREPARATION"
	OrderStatusServed        = "SERVED"
	OrderStatusCancelled     = "CANCELLED"
)

// ── User roles (issued by the auth backend, carried in JWT claims) ──

const (
	UserRoleAdmin  = "ADMIN"
	UserRoleWaiter = "WAITER"
	UserRoleCook   = "COOK"
)

// ── Notification severities ──

const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)
