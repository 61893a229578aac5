// Package app wires the stores together and implements the application
// core: authentication, catalog/membership/staff management, the lending
// lifecycle, pull-request review, and dashboard aggregation.
package app

import (
	"fmt"
	"sync"
	"time"

	"librarydesk/pkg/store"
)

const (
	defaultSessionTTL     = 24 * time.Hour
	defaultLoanPeriodDays = 14
	defaultFinePerDay     = 10.0
)

// Config holds runtime configuration for the application core.
type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	SessionTTL    time.Duration

	// LoanPeriodDays and FinePerDay are pointers so an explicit zero (a
	// zero-fine policy, a same-day loan period) is distinct from unset;
	// nil picks the defaults.
	LoanPeriodDays *int
	FinePerDay     *float64

	// Store and Sessions override the backends chosen from the settings
	// above; used by tests and embedding callers.
	Store    store.Store
	Sessions store.SessionStore

	// Seed, when set, is written into the store before the app is returned.
	Seed *store.Seed

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// App is the application core.
type App struct {
	store    store.Store
	sessions store.SessionStore
	now      func() time.Time

	loanPeriodDays int
	finePerDay     float64

	// lendMu serializes issue/return so their multi-record updates form a
	// single critical section.
	lendMu sync.Mutex
}

// New constructs the application. Without a database URL the store is
// in-memory; without a JWT secret or Redis address sessions are in-memory.
func New(cfg Config) (*App, error) {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	loanPeriodDays := defaultLoanPeriodDays
	if cfg.LoanPeriodDays != nil {
		loanPeriodDays = *cfg.LoanPeriodDays
	}
	finePerDay := defaultFinePerDay
	if cfg.FinePerDay != nil {
		finePerDay = *cfg.FinePerDay
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL != "" {
			gs, err := store.NewGormStore(cfg.DatabaseURL)
			if err != nil {
				return nil, fmt.Errorf("init postgres store: %w", err)
			}
			dataStore = gs
		} else {
			dataStore = store.NewMemoryStore()
		}
	}

	sessionStore := cfg.Sessions
	if sessionStore == nil {
		switch {
		case cfg.JWTSecret != "":
			sessionStore = store.NewJWTSessionStore(cfg.JWTSecret, cfg.SessionTTL)
		case cfg.RedisAddr != "":
			sessionStore = store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		default:
			sessionStore = store.NewMemorySessionStore(cfg.SessionTTL)
		}
	}

	if cfg.Seed != nil {
		if err := cfg.Seed.Apply(dataStore); err != nil {
			return nil, fmt.Errorf("apply seed: %w", err)
		}
	}

	return &App{
		store:          dataStore,
		sessions:       sessionStore,
		now:            cfg.Now,
		loanPeriodDays: loanPeriodDays,
		finePerDay:     finePerDay,
	}, nil
}

// Store exposes the backing store, mainly so callers can register watchers
// when the store supports them.
func (a *App) Store() store.Store {
	return a.store
}
