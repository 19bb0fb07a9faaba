// Package db dispatches the store driver by profile.
//
// PostgreSQL is the production driver; SQLite serves development and
// single-binary personal deployments. Both implement the full driver surface.
package db

import (
	"github.com/pkg/errors"

	"github.com/daykeep/daykeep/internal/profile"
	"github.com/daykeep/daykeep/store"
	"github.com/daykeep/daykeep/store/db/postgres"
	"github.com/daykeep/daykeep/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.Errorf("unknown db driver: %s", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
