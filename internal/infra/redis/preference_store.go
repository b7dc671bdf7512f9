package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// MutedKey is where the mute toggle is stored.
const MutedKey = "wisdom_muted"

// PreferenceStore keeps the mute toggle in Redis so it survives restarts.
type PreferenceStore struct {
	client *redis.Client
}

func NewPreferenceStore(client *redis.Client) *PreferenceStore {
	return &PreferenceStore{client: client}
}

func (p *PreferenceStore) Muted(ctx context.Context) (bool, error) {
	v, err := p.client.Get(ctx, MutedKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

func (p *PreferenceStore) SetMuted(ctx context.Context, muted bool) error {
	v := "false"
	if muted {
		v = "true"
	}
	return p.client.Set(ctx, MutedKey, v, 0).Err()
}
