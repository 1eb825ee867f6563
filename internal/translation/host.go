package translation

import (
	"context"
	"sync"
)

// Host owns the active provider. Choosing a provider is serialized and the
// swap is atomic, so readers see either the old or the new provider. Calls
// on the active provider run without holding the lock.
type Host struct {
	opts Options

	chooseMu sync.Mutex
	mu       sync.RWMutex
	provider Provider
}

// NewHost creates a host without an active provider
func NewHost(opts Options) *Host {
	return &Host{opts: opts}
}

// SupportAPIs lists the provider names
func (h *Host) SupportAPIs() []string {
	return SupportAPIs()
}

// ChooseAPI bootstraps the named provider and makes it active. On failure
// the previously active provider, if any, stays in place.
func (h *Host) ChooseAPI(ctx context.Context, name, args string) error {
	h.chooseMu.Lock()
	defer h.chooseMu.Unlock()

	p, err := Choose(ctx, name, args, h.opts)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.provider = p
	h.mu.Unlock()
	return nil
}

// Provider returns the active provider
func (h *Host) Provider() (Provider, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.provider == nil {
		return nil, ErrNoProvider
	}
	return h.provider, nil
}

// SupportLang lists the languages of the active provider
func (h *Host) SupportLang() ([]Language, error) {
	p, err := h.Provider()
	if err != nil {
		return nil, err
	}
	return p.SupportLanguages(), nil
}

// Translate translates text with the active provider
func (h *Host) Translate(ctx context.Context, text, from, to string) (string, error) {
	p, err := h.Provider()
	if err != nil {
		return "", err
	}
	return p.Translate(ctx, text, from, to)
}
