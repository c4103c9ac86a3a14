// Package semantic provides the fallback column matchers used when the
// keyword lists leave canonical fields unresolved.
package semantic

import (
	"context"
	"errors"

	"menu-upload-service/internal/menuimport/model"
)

// ErrUnavailable is returned by matchers that cannot classify headers.
var ErrUnavailable = errors.New("semantic matcher unavailable")

// Noop never resolves anything. It is the default when no model is configured.
type Noop struct{}

func (Noop) MatchColumns(context.Context, []string) (map[string]model.Field, error) {
	return nil, ErrUnavailable
}
