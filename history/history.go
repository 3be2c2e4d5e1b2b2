package history

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

var ErrBucket = errors.New("history bucket not found")

var bucketName = []byte("history")

// Store keeps the lines entered at the interactive prompt. Lines are stored
// under increasing keys so that iteration order is insertion order.
type Store struct {
	db    *bolt.DB
	limit int
}

// Open opens or creates the history database at file. When limit is
// positive, only the limit most recent lines are kept.
func Open(file string, limit int) (*Store, error) {
	db, err := bolt.Open(file, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", file, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init %s: %w", file, err)
	}
	s := Store{
		db:    db,
		limit: limit,
	}
	return &s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append records line. Blank lines are ignored.
func (s *Store) Append(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return ErrBucket
		}
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(itob(id), []byte(line)); err != nil {
			return err
		}
		if s.limit <= 0 || id <= uint64(s.limit) {
			return nil
		}
		return trim(b, id-uint64(s.limit))
	})
}

// Lines returns at most n lines, oldest first. All lines are returned when n
// is not positive.
func (s *Store) Lines(n int) ([]string, error) {
	var list []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return ErrBucket
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if n > 0 && len(list) >= n {
				break
			}
			list = append(list, string(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

// trim removes every key lower or equal to last.
func trim(b *bolt.Bucket, last uint64) error {
	var keys [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil && btoi(k) <= last; k, _ = c.Next() {
		keys = append(keys, k)
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func btoi(b []byte) uint64 {
	return binary.BigEndian.Uint64(b)
}
