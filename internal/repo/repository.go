package repo

import (
	"context"
	"errors"

	"github.com/hamed0406/statuswatcher/internal/domain"
)

var ErrNotFound = errors.New("target not found")

// TargetStore is the read side of the target registry. Targets are fixed at
// startup so there is no write method.
type TargetStore interface {
	List(ctx context.Context) ([]domain.Target, error)
	Get(ctx context.Context, name string) (domain.Target, error)
}
