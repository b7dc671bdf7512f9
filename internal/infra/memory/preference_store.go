package memory

import (
	"context"
	"sync"
)

// PreferenceStore keeps the mute toggle for the life of the process.
type PreferenceStore struct {
	mu    sync.RWMutex
	muted bool
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{}
}

func (p *PreferenceStore) Muted(context.Context) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.muted, nil
}

func (p *PreferenceStore) SetMuted(_ context.Context, muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	return nil
}
