package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/warden-bot/warden/automod/engine"
)

// StaticResolver serves rule configuration loaded from files. Override
// matching (per-channel or per-role rule variants) happens upstream of this
// engine; the static resolver returns the same rules for every event of a
// community.
type StaticResolver struct {
	mu      sync.RWMutex
	configs map[string]*engine.ResolvedConfig
}

var _ engine.ConfigResolver = (*StaticResolver)(nil)

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{configs: make(map[string]*engine.ResolvedConfig)}
}

// SetCommunity installs (or replaces) one community's configuration.
func (r *StaticResolver) SetCommunity(cfg *CommunityConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.CommunityID] = &engine.ResolvedConfig{
		Rules:          cfg.Rules,
		AntiraidLevels: cfg.AntiraidLevels,
	}
}

// LoadDir loads every .yml/.yaml rule file in a directory.
func (r *StaticResolver) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading rules dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		cfg, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		r.SetCommunity(cfg)
	}
	return nil
}

func (r *StaticResolver) ResolveConfig(ctx context.Context, communityID, userID, channelID string) (*engine.ResolvedConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if cfg, ok := r.configs[communityID]; ok {
		return cfg, nil
	}
	// unconfigured communities get an empty rule set, not an error
	return &engine.ResolvedConfig{}, nil
}
