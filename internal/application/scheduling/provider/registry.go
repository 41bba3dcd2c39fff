package provider

import (
	"fmt"

	"github.com/coachhub/coachhub/internal/domain/integration"
)

// Registry looks up the client for a provider.
type Registry map[integration.Provider]Client

func NewRegistry(clients ...Client) Registry {
	r := make(Registry, len(clients))
	for _, c := range clients {
		r[c.Provider()] = c
	}
	return r
}

func (r Registry) Get(p integration.Provider) (Client, error) {
	c, ok := r[p]
	if !ok {
		return nil, fmt.Errorf("no client registered for provider %s", p)
	}
	return c, nil
}

// Clients returns the registered clients.
func (r Registry) Clients() []Client {
	out := make([]Client, 0, len(r))
	for _, c := range r {
		out = append(out, c)
	}
	return out
}
