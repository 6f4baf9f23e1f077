package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/aweris/locker/internal/compression"
)

// Bolt implements Store on a bbolt database, one bucket per namespace.
type Bolt struct {
	db         *bolt.DB
	bucket     []byte
	compressor *compression.Compressor
}

// NewBolt opens the database at path. The compressor is borrowed.
func NewBolt(path, namespace string, compressor *compression.Compressor) (*Bolt, error) {
	if namespace == "" {
		namespace = "default"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %s: %w", path, err)
	}

	b := &Bolt{db: db, bucket: []byte(namespace), compressor: compressor}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(b.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", namespace, err)
	}
	return b, nil
}

func (b *Bolt) Get(key string) (string, bool, error) {
	var raw []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		// Bytes returned by bbolt are only valid inside the transaction.
		if v := tx.Bucket(b.bucket).Get([]byte(key)); v != nil {
			raw = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	if raw == nil {
		return "", false, nil
	}

	data, err := b.compressor.Decompress(raw)
	if err != nil {
		return "", false, fmt.Errorf("failed to decompress key %s: %w", key, err)
	}
	return string(data), true, nil
}

func (b *Bolt) Set(key, value string) error {
	data := b.compressor.Compress([]byte(value))
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

func (b *Bolt) Remove(key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(b.bucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
