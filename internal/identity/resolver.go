// Package identity is the single place customer identity gets resolved.
// Every component that needs a customer record goes through Resolve instead
// of carrying its own phone-then-email lookup chain.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/launchline/concierge/internal/store"
)

type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

func NewResolver(s *store.Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: s, logger: logger}
}

// Resolve maps {phone?, email?} to one customer record. Lookup order is phone
// first, then email. When nothing matches and a phone is available, a stub
// record is created: a lookup miss is a new customer, not an error.
// The second return value reports whether the customer was just created.
func (r *Resolver) Resolve(ctx context.Context, phone, email string) (*store.Customer, bool, error) {
	if phone == "" && email == "" {
		return nil, false, fmt.Errorf("no phone or email to resolve")
	}

	if phone != "" {
		c, err := r.store.GetByPhone(ctx, phone)
		if err == nil {
			return c, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("lookup by phone: %w", err)
		}
	}

	if email != "" {
		c, err := r.store.GetByEmail(ctx, email)
		if err == nil {
			return c, false, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, false, fmt.Errorf("lookup by email: %w", err)
		}
	}

	if phone == "" {
		// Email-only contact with no record. Creating one would mint a row
		// with no routing key, so surface a miss instead.
		return nil, false, store.ErrNotFound
	}

	if err := r.store.CreateStub(ctx, phone, email); err != nil {
		return nil, false, fmt.Errorf("create customer: %w", err)
	}
	c, err := r.store.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, fmt.Errorf("reload created customer: %w", err)
	}

	r.logger.Info("new customer created", "phone", phone)
	return c, true, nil
}
