package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sa-bots/workthread/logger"
	"github.com/sa-bots/workthread/models"
)

var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS work_threads (
	channel_id TEXT PRIMARY KEY,
	guild_id   TEXT NOT NULL,
	event_name TEXT NOT NULL,
	event_date TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_work_threads_guild ON work_threads (guild_id);
`

// eventDateLayout keeps stored dates lexically sortable.
const eventDateLayout = time.DateOnly

type SQLiteStore struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
	db     *sql.DB
}

type Params struct {
	Path   string
	Logger logger.Logger
}

func NewSQLiteStore(p Params) *SQLiteStore {
	log := p.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &SQLiteStore{path: p.Path, logger: log}
}

func (s *SQLiteStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}
	if s.path == "" {
		return errors.New("store path is required")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+s.path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	s.logger.DebugW("store opened", "path", s.path)
	return nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) RecordWorkThread(ctx context.Context, wt models.WorkThread) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO work_threads (channel_id, guild_id, event_name, event_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(channel_id) DO UPDATE SET
			guild_id = excluded.guild_id,
			event_name = excluded.event_name,
			event_date = excluded.event_date`,
		wt.ChannelID, wt.GuildID, wt.EventName,
		wt.EventDate.UTC().Format(eventDateLayout),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record work thread %s: %w", wt.ChannelID, err)
	}
	return nil
}

func (s *SQLiteStore) DeleteWorkThread(ctx context.Context, channelID string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM work_threads WHERE channel_id = ?`, channelID); err != nil {
		return fmt.Errorf("delete work thread %s: %w", channelID, err)
	}
	return nil
}

func (s *SQLiteStore) ListWorkThreads(ctx context.Context, guildID string) ([]models.WorkThread, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT channel_id, guild_id, event_name, event_date
		FROM work_threads
		WHERE guild_id = ?
		ORDER BY event_date, channel_id`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []models.WorkThread
	for rows.Next() {
		var wt models.WorkThread
		var rawDate string
		if err := rows.Scan(&wt.ChannelID, &wt.GuildID, &wt.EventName, &rawDate); err != nil {
			return nil, err
		}
		date, err := time.Parse(eventDateLayout, rawDate)
		if err != nil {
			s.logger.WarnW("skipping row with malformed event date", "channel", wt.ChannelID, "date", rawDate)
			continue
		}
		wt.EventDate = date
		threads = append(threads, wt)
	}
	return threads, rows.Err()
}

func (s *SQLiteStore) handle() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, errors.New("store is not open")
	}
	return s.db, nil
}
