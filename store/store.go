package store

import (
	"context"

	"github.com/sa-bots/workthread/models"
)

// Config holds store configuration.
type Config struct {
	Path string `yaml:"path"`
}

// Store persists the registry of created work-thread channels. Channel
// names remain the authoritative encoding of event dates; the registry is
// a supplementary index.
type Store interface {
	Open(ctx context.Context) error
	Close() error

	RecordWorkThread(ctx context.Context, wt models.WorkThread) error
	DeleteWorkThread(ctx context.Context, channelID string) error
	ListWorkThreads(ctx context.Context, guildID string) ([]models.WorkThread, error)
}
