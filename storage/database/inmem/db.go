// Package inmemdb is the default storage for the dev stub backend: one
// mutex-guarded table per collection, insertion-ordered.
package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/resource"
)

type (
	DB struct {
		mutex  sync.RWMutex
		tables map[string]*table
	}

	table struct {
		t     map[string]*resource.Resource
		order []string
	}
)

func Open() (*DB, error) {
	return &DB{tables: make(map[string]*table)}, nil
}

// table returns the collection's table, creating it on first use. Callers
// must hold the write lock.
func (db *DB) table(collection string) *table {
	tbl, ok := db.tables[collection]
	if !ok {
		tbl = &table{t: make(map[string]*resource.Resource)}
		db.tables[collection] = tbl
	}
	return tbl
}

// lookup never inserts, so it is safe under the read lock. A collection no
// write has touched yet simply does not exist.
func (db *DB) lookup(collection string) (*table, bool) {
	tbl, ok := db.tables[collection]
	return tbl, ok
}
