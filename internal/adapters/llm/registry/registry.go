package registry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"voicecat/internal/ports"
)

// Registry holds named Provider implementations and the name of the one used
// for translation and extraction.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]ports.Provider
	active    string
}

func New() *Registry {
	return &Registry{providers: make(map[string]ports.Provider)}
}

// Register adds p under name. The first registered provider becomes active.
func (r *Registry) Register(name string, p ports.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	if r.active == "" {
		r.active = name
	}
}

func (r *Registry) Get(name string) (ports.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// SetActive switches the active provider; unknown names are rejected.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return errors.New("provider not registered: " + name)
	}
	r.active = name
	return nil
}

// Active returns the active provider, or false when none is registered.
func (r *Registry) Active() (string, ports.Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[r.active]
	return r.active, p, ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.providers))
	for n := range r.providers {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// HealthCheck tests all providers concurrently.
func (r *Registry) HealthCheck(ctx context.Context) map[string]error {
	r.mu.RLock()
	snapshot := make(map[string]ports.Provider, len(r.providers))
	for n, p := range r.providers {
		snapshot[n] = p
	}
	r.mu.RUnlock()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		out = make(map[string]error, len(snapshot))
	)
	for name, p := range snapshot {
		if p == nil {
			out[name] = errors.New("nil provider")
			continue
		}
		wg.Add(1)
		go func(name string, p ports.Provider) {
			defer wg.Done()
			err := p.Test(ctx)
			mu.Lock()
			out[name] = err
			mu.Unlock()
		}(name, p)
	}
	wg.Wait()
	return out
}
