// Package builtin wires every bundled status source into a registry.
package builtin

import (
	"github.com/hamed0406/statuswatcher/internal/probe"
	"github.com/hamed0406/statuswatcher/internal/source"
	"github.com/hamed0406/statuswatcher/internal/source/openai"
	"github.com/hamed0406/statuswatcher/internal/source/statuspage"
)

// Registry returns a registry holding the openai and statuspage sources, both
// fetching through g.
func Registry(g probe.Getter) (*source.Registry, error) {
	r := source.NewRegistry()
	if err := r.Register(openai.Kind, openai.New(g)); err != nil {
		return nil, err
	}
	if err := r.Register(statuspage.Kind, statuspage.New(g)); err != nil {
		return nil, err
	}
	return r, nil
}
