package channelconfig

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Config holds channel-config store configuration.
type Config struct {
	Path      string // Path to SQLite database file
	CacheSize uint32 // In-memory lookup cache capacity
}

// Store wraps a GORM database of timeslot-to-frequency assignments, mirroring
// the teacher's DB wrapper: WAL pragmas, AutoMigrate, Health, Stats.
type Store struct {
	db    *gorm.DB
	cache map[uint32]FrequencyEntry
	cap   uint32
}

// NewStore opens (or creates) the channel-config database with the pure-Go SQLite driver.
func NewStore(config Config, log *log.Logger) (*Store, error) {
	var gormLog logger.Interface
	if log != nil {
		gormLog = logger.New(log, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	} else {
		gormLog = logger.Default.LogMode(logger.Silent)
	}

	dialector := sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        config.Path,
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := configureSQLite(sqlDB); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&FrequencyEntry{}); err != nil {
		return nil, err
	}

	if log != nil {
		log.Printf("channel config store initialized: %s", config.Path)
	}

	cacheSize := config.CacheSize
	if cacheSize == 0 {
		cacheSize = 1000
	}

	return &Store{
		db:    db,
		cache: make(map[uint32]FrequencyEntry, cacheSize),
		cap:   cacheSize,
	}, nil
}

func configureSQLite(sqlDB *sql.DB) error {
	pragmaSettings := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA cache_size=10000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=memory",
	}

	for _, pragma := range pragmaSettings {
		if _, err := sqlDB.Exec(pragma); err != nil {
			return err
		}
	}

	return nil
}

// Upsert creates or updates a single frequency entry and refreshes the lookup cache.
func (s *Store) Upsert(entry *FrequencyEntry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if !entry.IsValid() {
		return fmt.Errorf("entry is not valid: slot=%d", entry.Slot)
	}

	entry.UpdatedAt = time.Now()
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(entry).Error; err != nil {
		return err
	}

	if _, cached := s.cache[entry.Slot]; cached || len(s.cache) < int(s.cap) {
		s.cache[entry.Slot] = *entry
	}
	return nil
}

// UpsertBatch creates or updates multiple entries in a transaction, clearing the
// cache afterward so the next Lookup repopulates from the freshly written rows.
func (s *Store) UpsertBatch(entries []FrequencyEntry) error {
	if len(entries) == 0 {
		return nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if !entry.IsValid() {
				continue
			}
			entry.UpdatedAt = time.Now()
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch upsert failed: %w", err)
	}

	s.cache = make(map[uint32]FrequencyEntry, s.cap)
	return nil
}

// Lookup resolves a logical timeslot to its frequency assignment, checking the
// in-memory cache before falling back to the database.
func (s *Store) Lookup(slot uint32) (FrequencyEntry, bool) {
	if entry, ok := s.cache[slot]; ok {
		return entry, true
	}

	var entry FrequencyEntry
	if err := s.db.Where("slot = ?", slot).First(&entry).Error; err != nil {
		return FrequencyEntry{}, false
	}

	if len(s.cache) < int(s.cap) {
		s.cache[slot] = entry
	}
	return entry, true
}

// Count returns the total number of frequency entries in the store.
func (s *Store) Count() (int64, error) {
	var count int64
	err := s.db.Model(&FrequencyEntry{}).Count(&count).Error
	return count, err
}

// Health checks if the database connection is healthy.
func (s *Store) Health() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Stats returns database connection statistics.
func (s *Store) Stats() sql.DBStats {
	sqlDB, _ := s.db.DB()
	return sqlDB.Stats()
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
