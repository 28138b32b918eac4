package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/rich-dobbs-13440/astutus-sub000/pkg/errors"
	"github.com/rich-dobbs-13440/astutus-sub000/pkg/logging"
)

const keyPrefix = "record:"

// Store holds classification records keyed by device path
type Store interface {
	// Get returns the record for key or an ErrCacheMiss error
	Get(ctx context.Context, key string) (map[string]string, error)
	// Set overwrites the record for key; it expires after ttl
	Set(ctx context.Context, key string, record map[string]string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Clear drops every record
	Clear(ctx context.Context) error
	Close() error
}

// Config selects the badger backend
type Config struct {
	// Path is the database directory, ignored when InMemory is set
	Path     string
	InMemory bool
	// SyncWrites fsyncs every write on the disk backend
	SyncWrites bool
}

// BadgerStore is a Store on badger
type BadgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
}

// badgerLogger routes badger's internal logging to zerolog
type badgerLogger struct {
	logger zerolog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Trace().Msgf(format, args...)
}

// Open opens a badger store
func Open(cfg Config) (*BadgerStore, error) {
	logger := logging.GetLogger("cache.badger")

	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New(errors.ErrConfiguration, "cache path is required for the disk backend")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to create cache directory %s", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{logger: logger})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to open cache")
	}

	logger.Debug().
		Bool("inMemory", cfg.InMemory).
		Str("path", cfg.Path).
		Msg("Opened record cache")

	return &BadgerStore{db: db, logger: logger}, nil
}

// OpenInMemory opens a process private store
func OpenInMemory() (*BadgerStore, error) {
	return Open(Config{InMemory: true})
}

// Get implements Store
func (s *BadgerStore) Get(ctx context.Context, key string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var record map[string]string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.Newf(errors.ErrCacheMiss, "no record for %s", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInternal, "failed to read record for %s", key)
	}
	return record, nil
}

// Set implements Store
func (s *BadgerStore) Set(ctx context.Context, key string, record map[string]string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to encode record for %s", key)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(keyPrefix+key), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to write record for %s", key)
	}

	s.logger.Trace().
		Str("key", key).
		Int("fields", len(record)).
		Dur("ttl", ttl).
		Msg("Stored record")
	return nil
}

// Delete implements Store
func (s *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + key))
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to delete record for %s", key)
	}
	return nil
}

// Clear implements Store
func (s *BadgerStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.DropPrefix([]byte(keyPrefix)); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to clear records")
	}
	return nil
}

// Len counts the live records
func (s *BadgerStore) Len() (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// Close implements Store
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
