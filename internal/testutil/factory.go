package testutil

import (
	"fmt"
	"sync"

	"github.com/hupe1980/folio/model"
	"github.com/hupe1980/folio/provider"
)

// Factory is a provider.Factory serving pre-registered models by model ID.
// It records every requested (kind, model) pair in order.
type Factory struct {
	mu     sync.Mutex
	models map[string]model.Model
	calls  []string
}

var _ provider.Factory = (*Factory)(nil)

// NewFactory creates an empty Factory.
func NewFactory() *Factory {
	return &Factory{models: map[string]model.Model{}}
}

// With registers m under modelID (chainable).
func (f *Factory) With(modelID string, m model.Model) *Factory {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.models[modelID] = m
	return f
}

// NewModel implements provider.Factory.
func (f *Factory) NewModel(kind provider.Kind, modelID string) (model.Model, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, string(kind)+"/"+modelID)
	m, ok := f.models[modelID]
	if !ok {
		return nil, fmt.Errorf("testutil: no model registered for %s/%s", kind, modelID)
	}
	return m, nil
}

// Calls returns the requested "kind/model" pairs.
func (f *Factory) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}
