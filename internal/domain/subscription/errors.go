package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadySubscribed       = errors.New("user already has an active subscription")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrPlanNotFound            = errors.New("subscription plan not found")
	ErrPlanInactive            = errors.New("subscription plan inactive")
	ErrInvalidPrice            = errors.New("invalid price")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}
