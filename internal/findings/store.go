// Package findings persists fuzzing sessions in a bbolt database.
package findings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/calvinalkan/argfuzz/internal/runner"
)

var (
	// ErrNotFound is returned when no stored session matches an id.
	ErrNotFound = errors.New("session not found")

	// ErrAmbiguous is returned when an id prefix matches several sessions.
	ErrAmbiguous = errors.New("session id is ambiguous")

	// ErrEmptyID is returned for an empty id or prefix.
	ErrEmptyID = errors.New("session id is empty")
)

var sessionsBucket = []byte("sessions")

// openTimeout bounds how long Open waits for another process holding the
// database lock.
const openTimeout = 2 * time.Second

// Store holds sessions keyed by their run ID.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the database at path, creating parent directories
// as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create findings dir: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open findings db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)

		return err
	})
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("init findings db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores sess, replacing any session with the same ID.
func (s *Store) Put(sess *runner.Session) error {
	value, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(sess.ID.String()), value)
	})
}

// Get returns the session whose ID equals id or, failing that, the only
// session whose ID starts with id.
func (s *Store) Get(id string) (*runner.Session, error) {
	if id == "" {
		return nil, ErrEmptyID
	}

	var sess *runner.Session

	err := s.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(sessionsBucket)

		if v := bkt.Get([]byte(id)); v != nil {
			return decode(v, &sess)
		}

		var match []byte

		c := bkt.Cursor()
		for k, v := c.Seek([]byte(id)); k != nil && strings.HasPrefix(string(k), id); k, v = c.Next() {
			if match != nil {
				return fmt.Errorf("%w: %s", ErrAmbiguous, id)
			}

			match = v
		}

		if match == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		return decode(match, &sess)
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// List returns all sessions, newest first by start time.
func (s *Store) List() ([]*runner.Session, error) {
	var out []*runner.Session

	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).ForEach(func(_, v []byte) error {
			var sess *runner.Session
			if err := decode(v, &sess); err != nil {
				return err
			}

			out = append(out, sess)

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(out, func(a, b *runner.Session) int {
		return b.StartedAt.Compare(a.StartedAt)
	})

	return out, nil
}

// Delete removes the session matched by id as [Store.Get] resolves it and
// returns the full ID removed.
func (s *Store) Delete(id string) (string, error) {
	sess, err := s.Get(id)
	if err != nil {
		return "", err
	}

	full := sess.ID.String()

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(full))
	})
	if err != nil {
		return "", err
	}

	return full, nil
}

// decode unmarshals v into a new session. v is only valid inside the
// transaction; json.Unmarshal does not retain it.
func decode(v []byte, out **runner.Session) error {
	sess := &runner.Session{}
	if err := json.Unmarshal(v, sess); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}

	*out = sess

	return nil
}
