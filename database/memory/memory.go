// Package memory is an in-process stand-in for the MongoDB repositories.
// Documents are stored BSON-encoded, so callers get the same copy semantics
// they would get from the driver, and WithTransaction rolls every collection
// back when its callback fails.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// DB holds every collection of one test database.
type DB struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	collections map[string]map[string][]byte
	counters    map[string]int64
}

func New() *DB {
	return &DB{
		collections: map[string]map[string][]byte{},
		counters:    map[string]int64{},
	}
}

func (db *DB) coll(name string) map[string][]byte {
	c, ok := db.collections[name]
	if !ok {
		c = map[string][]byte{}
		db.collections[name] = c
	}
	return c
}

func (db *DB) get(name, id string, out interface{}) (bool, error) {
	db.mu.Lock()
	raw, ok := db.coll(name)[id]
	db.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, bson.Unmarshal(raw, out)
}

func (db *DB) put(name, id string, doc interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", name, id, err)
	}
	db.mu.Lock()
	db.coll(name)[id] = raw
	db.mu.Unlock()
	return nil
}

func (db *DB) has(name, id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	_, ok := db.coll(name)[id]
	return ok
}

func (db *DB) remove(name, id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := db.coll(name)
	if _, ok := c[id]; !ok {
		return false
	}
	delete(c, id)
	return true
}

// ids returns the collection's keys in sorted order.
func (db *DB) ids(name string) []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := db.coll(name)
	out := make([]string, 0, len(c))
	for id := range c {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (db *DB) next(counter string) int64 {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.counters[counter]++
	return db.counters[counter]
}

func (db *DB) snapshot() (map[string]map[string][]byte, map[string]int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	colls := make(map[string]map[string][]byte, len(db.collections))
	for name, c := range db.collections {
		cp := make(map[string][]byte, len(c))
		for id, raw := range c {
			cp[id] = raw
		}
		colls[name] = cp
	}
	counters := make(map[string]int64, len(db.counters))
	for k, v := range db.counters {
		counters[k] = v
	}
	return colls, counters
}

func (db *DB) restore(colls map[string]map[string][]byte, counters map[string]int64) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.collections = colls
	db.counters = counters
}

// Transactor serializes transactions and restores the pre-transaction state on error.
type Transactor struct {
	db *DB
}

func (db *DB) Transactor() *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	colls, counters := t.db.snapshot()
	if err := fn(ctx); err != nil {
		t.db.restore(colls, counters)
		return err
	}
	return nil
}
