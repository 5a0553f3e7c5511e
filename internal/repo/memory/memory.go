package memory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/hamed0406/statuswatcher/internal/domain"
	"github.com/hamed0406/statuswatcher/internal/repo"
)

var _ repo.TargetStore = (*Store)(nil)

// Store holds the immutable target list in registration order.
type Store struct {
	targets []domain.Target
	byName  map[string]int
}

// New validates and copies targets. Names must be non-empty and unique.
func New(targets ...domain.Target) (*Store, error) {
	s := &Store{
		targets: make([]domain.Target, 0, len(targets)),
		byName:  make(map[string]int, len(targets)),
	}
	var err error
	for i, t := range targets {
		if t.Name == "" {
			err = multierr.Append(err, fmt.Errorf("target #%d: empty name", i))
			continue
		}
		if _, dup := s.byName[t.Name]; dup {
			err = multierr.Append(err, fmt.Errorf("target %q: duplicate name", t.Name))
			continue
		}
		s.byName[t.Name] = len(s.targets)
		s.targets = append(s.targets, t)
	}
	if err != nil {
		return nil, err
	}
	if len(s.targets) == 0 {
		return nil, errors.New("no targets configured")
	}
	return s, nil
}

func (s *Store) List(ctx context.Context) ([]domain.Target, error) {
	out := make([]domain.Target, len(s.targets))
	copy(out, s.targets)
	return out, nil
}

func (s *Store) Get(ctx context.Context, name string) (domain.Target, error) {
	i, ok := s.byName[name]
	if !ok {
		return domain.Target{}, fmt.Errorf("%w: %q", repo.ErrNotFound, name)
	}
	return s.targets[i], nil
}
