package auth

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/coachhub/coachhub/internal/shared/authorization"
)

const (
	identityCacheSize = 4096
	identityCacheTTL  = time.Minute
)

// ResolvedIdentity is the local user behind a Clerk identity.
type ResolvedIdentity struct {
	UserID string
	Role   authorization.UserRole
}

// IdentityCache keeps recently resolved identities keyed by Clerk user id.
type IdentityCache struct {
	lru *expirable.LRU[string, ResolvedIdentity]
}

func NewIdentityCache() *IdentityCache {
	return NewIdentityCacheWithTTL(identityCacheSize, identityCacheTTL)
}

func NewIdentityCacheWithTTL(size int, ttl time.Duration) *IdentityCache {
	return &IdentityCache{lru: expirable.NewLRU[string, ResolvedIdentity](size, nil, ttl)}
}

func (c *IdentityCache) Get(clerkUserID string) (ResolvedIdentity, bool) {
	return c.lru.Get(clerkUserID)
}

func (c *IdentityCache) Add(clerkUserID string, id ResolvedIdentity) {
	c.lru.Add(clerkUserID, id)
}

// Purge drops a cached identity so the next request reloads the user.
func (c *IdentityCache) Purge(clerkUserID string) {
	c.lru.Remove(clerkUserID)
}
