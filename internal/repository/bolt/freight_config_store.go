// Package boltrepo stores the freight configuration in an embedded BoltDB file
// for single-node deployments.
package boltrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/paulobrigidofilho/orbishistorymaps-sub001/internal/domain"

	bolt "github.com/boltdb/bolt"
	"github.com/goccy/go-json"
)

var (
	bucketName = []byte("freight")
	configKey  = []byte("config")
)

// Store implements domain.FreightConfigRepository on a BoltDB file.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures the bucket exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database file lock.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) GetFreightConfig(ctx context.Context) (*domain.FreightConfig, error) {
	var cfg domain.FreightConfig
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get(configKey)
		if v == nil {
			return domain.ErrFreightConfigNotFound
		}
		return json.Unmarshal(v, &cfg)
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveFreightConfig replaces the stored configuration if its version equals
// expectedVersion. Bolt allows one writer at a time, so the check and the
// write happen atomically inside db.Update.
func (s *Store) SaveFreightConfig(ctx context.Context, cfg *domain.FreightConfig, expectedVersion int64) (*domain.FreightConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	saved := cfg.Clone()
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)

		var current int64
		if existing := b.Get(configKey); existing != nil {
			var stored domain.FreightConfig
			if err := json.Unmarshal(existing, &stored); err != nil {
				return fmt.Errorf("decode stored config: %w", err)
			}
			current = stored.Version
		}
		if current != expectedVersion {
			return fmt.Errorf("%w: stored version %d, expected %d", domain.ErrVersionConflict, current, expectedVersion)
		}

		saved.Version = current + 1
		if saved.UpdatedAt.IsZero() {
			saved.UpdatedAt = time.Now().UTC()
		}

		data, err := json.Marshal(saved)
		if err != nil {
			return err
		}
		return b.Put(configKey, data)
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
