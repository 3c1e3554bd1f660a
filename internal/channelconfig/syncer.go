package channelconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	// DefaultSyncInterval is how often the syncer re-polls the channel config endpoint.
	DefaultSyncInterval = 24 * time.Hour

	// RequestTimeout bounds a single HTTP fetch.
	RequestTimeout = 30 * time.Second

	// MaxRetries for a failed fetch before giving up for this cycle.
	MaxRetries = 3

	// RetryDelay between fetch attempts.
	RetryDelay = 5 * time.Second
)

// SyncerConfig holds configuration for the syncer.
type SyncerConfig struct {
	URL          string        // JSON endpoint publishing the channel table
	SyncInterval time.Duration // How often to sync (default: 24 hours)
	HTTPTimeout  time.Duration // HTTP request timeout (default: 30 seconds)
}

// Syncer periodically fetches a JSON channel table and upserts it into a Store.
type Syncer struct {
	store        *Store
	url          string
	logger       *log.Logger
	syncInterval time.Duration
	httpClient   *http.Client
}

// NewSyncer creates a channel-config syncer with default timing.
func NewSyncer(store *Store, url string, logger *log.Logger) *Syncer {
	return NewSyncerWithConfig(store, logger, SyncerConfig{
		URL:          url,
		SyncInterval: DefaultSyncInterval,
		HTTPTimeout:  RequestTimeout,
	})
}

// NewSyncerWithConfig creates a channel-config syncer with custom timing.
func NewSyncerWithConfig(store *Store, logger *log.Logger, config SyncerConfig) *Syncer {
	if config.SyncInterval <= 0 {
		config.SyncInterval = DefaultSyncInterval
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = RequestTimeout
	}

	return &Syncer{
		store:        store,
		url:          config.URL,
		logger:       logger,
		syncInterval: config.SyncInterval,
		httpClient:   &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Start begins the automatic synchronization process, blocking until ctx is done.
func (s *Syncer) Start(ctx context.Context) {
	if s.logger != nil {
		s.logger.Printf("channel config syncer starting (interval: %v)", s.syncInterval)
	}

	if err := s.SyncNow(ctx); err != nil {
		if s.logger != nil {
			s.logger.Printf("initial channel config sync failed: %v", err)
		}
	}

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Printf("channel config syncer stopping")
			}
			return
		case <-ticker.C:
			if err := s.SyncNow(ctx); err != nil {
				if s.logger != nil {
					s.logger.Printf("channel config sync failed: %v", err)
				}
			}
		}
	}
}

// SyncNow performs an immediate synchronization.
func (s *Syncer) SyncNow(ctx context.Context) error {
	if s.url == "" {
		return fmt.Errorf("channel config syncer has no URL configured")
	}

	startTime := time.Now()
	if s.logger != nil {
		s.logger.Printf("starting channel config sync from %s", s.url)
	}

	var body io.ReadCloser
	var err error

	for attempt := 1; attempt <= MaxRetries; attempt++ {
		body, err = s.fetch(ctx)
		if err == nil {
			break
		}

		if s.logger != nil {
			s.logger.Printf("fetch attempt %d/%d failed: %v", attempt, MaxRetries, err)
		}

		if attempt < MaxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(RetryDelay):
			}
		}
	}

	if err != nil {
		return fmt.Errorf("failed to fetch after %d attempts: %w", MaxRetries, err)
	}
	defer body.Close()

	var entries []FrequencyEntry
	if err := json.NewDecoder(body).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode channel config JSON: %w", err)
	}

	if len(entries) == 0 {
		return fmt.Errorf("no channel entries found in response")
	}

	if err := s.store.UpsertBatch(entries); err != nil {
		return fmt.Errorf("failed to import channel entries: %w", err)
	}

	if s.logger != nil {
		s.logger.Printf("channel config sync completed: %d entries imported in %v", len(entries), time.Since(startTime))
	}

	return nil
}

func (s *Syncer) fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "dmrframerd/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return resp.Body, nil
}
