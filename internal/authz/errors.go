package authz

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden is returned when an authenticated principal may not act
	// on the target.
	ErrForbidden = errors.New("not enough permissions")

	// ErrAdminOnly also matches ErrForbidden.
	ErrAdminOnly = fmt.Errorf("%w: admin role required", ErrForbidden)
)

// Denial is a permission error carrying a client facing reason.
type Denial struct {
	Reason string
	Err    error
}

func (d *Denial) Error() string {
	return d.Reason
}

func (d *Denial) Unwrap() error {
	return d.Err
}

// Violation is a business rule the request would break. It maps to 400.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string {
	return v.Reason
}

var (
	ErrStoreLimitReached          = &Violation{Reason: "Store owners can only have one store"}
	ErrSubscriptionApproved       = &Violation{Reason: "Cannot update approved subscription"}
	ErrApprovedSubscriptionDelete = &Violation{Reason: "Cannot delete approved subscription"}
	ErrSubscriptionNotPending     = &Violation{Reason: "Subscription is not pending"}
)
