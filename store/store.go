package store

import (
	"context"
	"time"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/store/cache"
)

// Store provides database access to all raw objects. It is a long-lived
// handle: opened once at process start, injected into every component that
// reads or writes entities, and closed once at shutdown.
type Store struct {
	profile *profile.Profile
	driver  Driver

	cacheConfig cache.Config

	userCache       *cache.Cache // cache for users
	onboardingCache *cache.Cache // cache for onboarding answers + derived profile
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:          driver,
		profile:         profile,
		cacheConfig:     cacheConfig,
		userCache:       cache.New(cacheConfig),
		onboardingCache: cache.New(cacheConfig),
	}
}

// Migrate applies the schema on startup.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.userCache.Close()
	s.onboardingCache.Close()

	return s.driver.Close()
}
