package geography

import (
	"fmt"

	"github.com/shipstack/backend/internal/domain/shared"
)

// RouteSide identifies which end of a route failed to resolve
type RouteSide string

const (
	RouteSideOrigin      RouteSide = "origin"
	RouteSideDestination RouteSide = "destination"
)

// UnserviceableRouteError reports a postal code missing from the reference
// index, carrying which side of the route was unresolvable
type UnserviceableRouteError struct {
	Side   RouteSide
	Postal string
}

// Error implements the error interface
func (e *UnserviceableRouteError) Error() string {
	return fmt.Sprintf("%s postal code %s is not serviceable", e.Side, e.Postal)
}

// Code returns the domain error code for this error
func (e *UnserviceableRouteError) Code() string {
	return shared.ErrUnserviceableRoute.Code
}

// Unwrap allows errors.Is checks against the shared sentinel
func (e *UnserviceableRouteError) Unwrap() error {
	return shared.ErrUnserviceableRoute
}

// NewUnserviceableRouteError creates an unserviceable route error
func NewUnserviceableRouteError(side RouteSide, postal string) *UnserviceableRouteError {
	return &UnserviceableRouteError{Side: side, Postal: postal}
}
