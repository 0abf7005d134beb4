package backend

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketRecords = []byte("records")

// BoltStore is the web-class persistent store: a single file, no directory
// tree, suitable where the general store's on-disk layout is unavailable.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens or creates the store file at path.
// The parent directory is created if it does not exist.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("bolt: create directory: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("bolt: open db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bolt: create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Name identifies the backend.
func (s *BoltStore) Name() string { return "bolt" }

// Get retrieves a record value.
func (s *BoltStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get([]byte(key))
		if data == nil {
			return ErrKeyNotFound
		}
		value = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Set stores a record.
func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(key), []byte(value))
	})
}

// Delete removes a record. Absent records are not an error.
func (s *BoltStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).Delete([]byte(key))
	})
}

// Scan iterates records whose names start with prefix.
func (s *BoltStore) Scan(ctx context.Context, prefix string, fn func(key, value string) bool) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRecords).Cursor()
		p := []byte(prefix)
		for k, v := c.Seek(p); k != nil && bytes.HasPrefix(k, p); k, v = c.Next() {
			if !fn(string(k), string(v)) {
				break
			}
		}
		return nil
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }
