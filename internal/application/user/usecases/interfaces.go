package usecases

import "context"

// IdentityPurger drops cached session identities of a Clerk user.
type IdentityPurger interface {
	Purge(clerkUserID string)
}

// CoachListingInvalidator drops cached coach directory pages.
type CoachListingInvalidator interface {
	Invalidate(ctx context.Context) error
}
