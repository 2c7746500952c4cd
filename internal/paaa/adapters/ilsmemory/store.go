// Package ilsmemory is an in-memory ILS used for local runs and tests.
package ilsmemory

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"paaa/internal/paaa/models"
	"paaa/internal/paaa/ports"
)

const backendName = "ils-memory"

// Store keeps patron records and their fees keyed by account.
type Store struct {
	mu      sync.RWMutex
	patrons map[string]*models.Patron
	fees    map[string][]models.Fee
	newID   func() string
}

// Option configures a Store.
type Option func(*Store)

// WithFeeIDGenerator replaces the UUID generator used for fee ids.
func WithFeeIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		patrons: make(map[string]*models.Patron),
		fees:    make(map[string][]models.Fee),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Health implements ports.ILS.
func (s *Store) Health(context.Context) map[string]string {
	return map[string]string{"ils": "ok"}
}

// Signup registers a new account.
func (s *Store) Signup(_ context.Context, patron *models.Patron) (*models.Patron, error) {
	return s.create(patron)
}

// NewPatron registers an account created by staff.
func (s *Store) NewPatron(_ context.Context, patron *models.Patron) (*models.Patron, error) {
	return s.create(patron)
}

// UpdatePatron overwrites the non-empty fields of an existing account.
// Blocks are managed through BlockPatron and UnblockPatron only.
func (s *Store) UpdatePatron(_ context.Context, patron *models.Patron) (*models.Patron, error) {
	if patron == nil || patron.Account == "" {
		return nil, ports.NewBackendError(ports.ErrorBadData, backendName, "account is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.patrons[patron.Account]
	if !ok {
		return nil, notFound(patron.Account)
	}
	merge(existing, patron)
	return clone(existing), nil
}

// BlockPatron appends block to the account.
func (s *Store) BlockPatron(_ context.Context, patron *models.Patron, block *models.Block) (*models.Patron, error) {
	if block == nil || block.Key == "" {
		return nil, ports.NewBackendError(ports.ErrorBadData, backendName, "block key is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.patrons[account(patron)]
	if !ok {
		return nil, notFound(account(patron))
	}
	existing.Blocks = append(existing.Blocks, *block)
	return clone(existing), nil
}

// UnblockPatron removes every block with block's key from the account.
func (s *Store) UnblockPatron(_ context.Context, patron *models.Patron, block *models.Block) (*models.Patron, error) {
	if block == nil || block.Key == "" {
		return nil, ports.NewBackendError(ports.ErrorBadData, backendName, "block key is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.patrons[account(patron)]
	if !ok {
		return nil, notFound(account(patron))
	}
	kept := existing.Blocks[:0]
	for _, b := range existing.Blocks {
		if b.Key != block.Key {
			kept = append(kept, b)
		}
	}
	existing.Blocks = kept
	return clone(existing), nil
}

// DeletePatron removes the account and its fees and returns the last record.
func (s *Store) DeletePatron(_ context.Context, patron *models.Patron) (*models.Patron, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.patrons[account(patron)]
	if !ok {
		return nil, notFound(account(patron))
	}
	delete(s.patrons, existing.Account)
	delete(s.fees, existing.Account)
	return clone(existing), nil
}

// NewFee books a fee on the account, assigning a fee id when none is given.
func (s *Store) NewFee(_ context.Context, patron *models.Patron, fee *models.Fee) (*models.Fee, error) {
	if fee == nil {
		return nil, ports.NewBackendError(ports.ErrorBadData, backendName, "fee is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.patrons[account(patron)]; !ok {
		return nil, notFound(account(patron))
	}
	booked := *fee
	if booked.FeeID == "" {
		booked.FeeID = s.newID()
	}
	s.fees[account(patron)] = append(s.fees[account(patron)], booked)
	return &booked, nil
}

// Fees lists the fees booked on account.
func (s *Store) Fees(_ context.Context, account string) []models.Fee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Fee{}, s.fees[account]...)
}

// Get returns a copy of the account, or false when it does not exist.
func (s *Store) Get(_ context.Context, account string) (*models.Patron, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patrons[account]
	if !ok {
		return nil, false
	}
	return clone(p), true
}

func (s *Store) create(patron *models.Patron) (*models.Patron, error) {
	if patron == nil || patron.Account == "" {
		return nil, ports.NewBackendError(ports.ErrorBadData, backendName, "account is required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.patrons[patron.Account]; exists {
		return nil, ports.NewBackendError(ports.ErrorBadData, backendName, "account "+patron.Account+" already exists", nil)
	}
	stored := clone(patron)
	s.patrons[stored.Account] = stored
	return clone(stored), nil
}

func account(p *models.Patron) string {
	if p == nil {
		return ""
	}
	return p.Account
}

func notFound(account string) error {
	return ports.NewBackendError(ports.ErrorNotFound, backendName, "account "+account+" not found", nil)
}

func merge(dst, src *models.Patron) {
	set := func(d *string, v string) {
		if v != "" {
			*d = v
		}
	}
	set(&dst.Name, src.Name)
	set(&dst.Email, src.Email)
	set(&dst.Address, src.Address)
	set(&dst.Status, src.Status)
	set(&dst.Expires, src.Expires)
	set(&dst.Type, src.Type)
	if len(src.Attributes) > 0 {
		if dst.Attributes == nil {
			dst.Attributes = make(models.Attributes, len(src.Attributes))
		}
		maps.Copy(dst.Attributes, src.Attributes)
	}
	if len(src.Extra) > 0 {
		if dst.Extra == nil {
			dst.Extra = make(map[string]json.RawMessage, len(src.Extra))
		}
		maps.Copy(dst.Extra, src.Extra)
	}
	if len(src.ExtraXML) > 0 {
		dst.ExtraXML = slices.Clone(src.ExtraXML)
	}
}

func clone(p *models.Patron) *models.Patron {
	c := *p
	c.Blocks = append([]models.Block(nil), p.Blocks...)
	c.Attributes = maps.Clone(p.Attributes)
	c.Extra = maps.Clone(p.Extra)
	c.ExtraXML = slices.Clone(p.ExtraXML)
	return &c
}
