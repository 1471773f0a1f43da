package kb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// samplesBucket holds one record per sample, keyed by a big-endian sequence
// number so bucket iteration order equals insertion order. Values are the
// same JSON record form the file backend uses.
var samplesBucket = []byte("samples")

// BoltRepository persists the knowledge base in a bbolt database.
//
// Save replaces the samples bucket inside a single read-write transaction,
// which bbolt applies atomically: readers either see the old collection or
// the new one, never a mix, and a crash mid-save rolls back to the old one.
type BoltRepository struct {
	db *bolt.DB
}

// OpenBolt opens (creating if necessary) a bbolt-backed repository at path.
// The caller owns the returned repository and must Close it.
func OpenBolt(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return &BoltRepository{db: db}, nil
}

// Close releases the underlying database file.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

// Load returns all samples in insertion order. A database that has never
// been saved returns an empty collection.
func (r *BoltRepository) Load() ([]Sample, error) {
	var samples []Sample
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(samplesBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var s Sample
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("failed to parse sample record: %w", err)
			}
			samples = append(samples, s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if samples == nil {
		samples = []Sample{}
	}
	return samples, nil
}

// Save atomically replaces the stored collection.
func (r *BoltRepository) Save(samples []Sample) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(samplesBucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return fmt.Errorf("failed to clear knowledge base: %w", err)
		}
		b, err := tx.CreateBucket(samplesBucket)
		if err != nil {
			return fmt.Errorf("failed to create knowledge base bucket: %w", err)
		}

		key := make([]byte, 8)
		for i, s := range samples {
			data, err := json.Marshal(s)
			if err != nil {
				return fmt.Errorf("failed to encode sample %d: %w", i, err)
			}
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := b.Put(append([]byte(nil), key...), data); err != nil {
				return fmt.Errorf("failed to store sample %d: %w", i, err)
			}
		}
		return nil
	})
}
