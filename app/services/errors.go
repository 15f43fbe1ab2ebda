// Package services holds the marketplace use cases. Services talk to the
// repositories, enforce ownership and role rules and return *apperr.Error
// for every failure a client can act on.
package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/marketplace/app/repositories"
	"github.com/shashiranjanraj/marketplace/pkg/apperr"
)

// classify maps repository sentinels to client-facing errors. Unknown
// errors are wrapped with op and stay Internal.
func classify(err error, op, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperr.Wrap(apperr.NotFound, err, "%s", notFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperr.Wrap(apperr.Conflict, err, "%s", "Resource already exists")
	case errors.Is(err, repositories.ErrStale):
		return apperr.Wrap(apperr.Conflict, err, "%s", "Resource was modified concurrently, retry the request")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
