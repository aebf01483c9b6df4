// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package store persists named circuits in a BadgerDB database.
//
// Each circuit is stored under the key circuit/<name> as a JSON document
// holding a Record and the circuit's serialized form.
//
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/db47h/logicsim"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const prefix = "circuit/"

// ErrNotFound is returned when a named circuit does not exist.
//
var ErrNotFound = errors.New("circuit not found")

// Config holds the store configuration.
//
type Config struct {
	// Path is the database directory. Ignored when InMemory is true.
	Path string
	// InMemory disables persistence.
	InMemory bool
	// SyncWrites syncs every write to disk.
	SyncWrites bool
	// GCInterval is the value log GC period. 0 disables GC.
	GCInterval time.Duration
	// GCDiscardRatio is the value log GC discard ratio.
	GCDiscardRatio float64
	// Logger receives badger's own log output. nil disables it.
	Logger *slog.Logger
}

// InMemory returns a configuration for a throwaway in-memory store.
//
func InMemory() Config {
	return Config{InMemory: true}
}

// A Record describes a stored circuit.
//
type Record struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	SavedAt  time.Time `json:"saved_at"`
	Elements int       `json:"elements"`
	Wires    int       `json:"wires"`
}

type entry struct {
	Record  Record             `json:"record"`
	Circuit *logicsim.Snapshot `json:"circuit"`
}

type badgerLogger struct {
	l *slog.Logger
}

func (l badgerLogger) Errorf(f string, args ...interface{})   { l.l.Error(fmt.Sprintf(f, args...)) }
func (l badgerLogger) Warningf(f string, args ...interface{}) { l.l.Warn(fmt.Sprintf(f, args...)) }
func (l badgerLogger) Infof(f string, args ...interface{})    { l.l.Info(fmt.Sprintf(f, args...)) }
func (l badgerLogger) Debugf(f string, args ...interface{})   { l.l.Debug(fmt.Sprintf(f, args...)) }

// Store is a circuit store. It is safe for concurrent use.
//
type Store struct {
	db   *badger.DB
	log  *slog.Logger
	stop chan struct{}
	done chan struct{}
}

// Open opens or creates a store.
//
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("store path required")
		}
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, errors.Wrap(err, "create store directory")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}

	s := &Store{db: db, log: cfg.Logger}
	if s.log == nil {
		s.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		ratio := cfg.GCDiscardRatio
		if ratio <= 0 || ratio >= 1 {
			ratio = 0.5
		}
		s.stop, s.done = make(chan struct{}), make(chan struct{})
		go s.gc(cfg.GCInterval, ratio)
	}
	return s, nil
}

func (s *Store) gc(interval time.Duration, ratio float64) {
	defer close(s.done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			if err := s.db.RunValueLogGC(ratio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				s.log.Warn("value log GC", "error", err)
			}
		}
	}
}

// Close closes the store.
//
func (s *Store) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
	}
	return s.db.Close()
}

func key(name string) []byte { return []byte(prefix + name) }

func checkName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("empty circuit name")
	}
	return nil
}

// Save stores c under the given name, replacing any circuit with the same
// name. The record id is kept across replacements.
//
func (s *Store) Save(ctx context.Context, name string, c *logicsim.Circuit) (Record, error) {
	if err := checkName(name); err != nil {
		return Record{}, err
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	e := entry{
		Record: Record{
			ID:       uuid.New(),
			Name:     name,
			SavedAt:  time.Now().UTC(),
			Elements: c.Len(),
			Wires:    len(c.Wires()),
		},
		Circuit: c.Snapshot(),
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		if old, err := get(txn, name); err == nil {
			e.Record.ID = old.Record.ID
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		b, err := json.Marshal(&e)
		if err != nil {
			return err
		}
		return txn.Set(key(name), b)
	})
	if err != nil {
		return Record{}, errors.Wrapf(err, "save %s", name)
	}
	s.log.Debug("circuit saved", "name", name, "id", e.Record.ID)
	return e.Record, nil
}

func get(txn *badger.Txn, name string) (*entry, error) {
	item, err := txn.Get(key(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	if err != nil {
		return nil, err
	}
	var e entry
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &e)
	})
	return &e, err
}

// Load returns the circuit stored under the given name.
//
func (s *Store) Load(ctx context.Context, name string) (*logicsim.Circuit, Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, Record{}, err
	}
	var e *entry
	err := s.db.View(func(txn *badger.Txn) (err error) {
		e, err = get(txn, name)
		return err
	})
	if err != nil {
		return nil, Record{}, err
	}
	if e.Circuit == nil {
		return nil, Record{}, errors.Wrapf(logicsim.ErrInvalidCircuit, "%q: no circuit data", name)
	}
	c, err := logicsim.FromSnapshot(e.Circuit)
	if err != nil {
		return nil, Record{}, errors.Wrapf(err, "load %s", name)
	}
	return c, e.Record, nil
}

// List returns the records of all stored circuits, sorted by name.
//
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var e entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return errors.Wrapf(err, "decode %s", it.Item().Key())
			}
			out = append(out, e.Record)
		}
		return nil
	})
	return out, err
}

// Delete removes the named circuit.
//
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(name)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return errors.Wrapf(ErrNotFound, "%q", name)
			}
			return err
		}
		return txn.Delete(key(name))
	})
}
