package kvio

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v2"
	"github.com/gnames/gnsys"
	"github.com/humandbs/humcat/internal/ent/kv"
)

// kvio implements kv.KeyVal on top of badger. Writes are buffered in
// memory and committed as one snapshot on Close: the caches it backs are
// shared by concurrent workers that read freely, while mutation follows a
// single-writer discipline.
type kvio struct {
	dir string
	kv  *badger.DB

	mu  sync.Mutex
	buf map[string][]byte
}

// New returns a new instance of kvio. The store directory is created when
// missing but its content is kept: the whole point of the cache is to
// survive between runs.
func New(dir string) (kv.KeyVal, error) {
	res := kvio{
		dir: dir,
		buf: make(map[string][]byte),
	}

	err := gnsys.MakeDir(dir)
	if err != nil {
		slog.Error("Cannot create directory", "error", err, "dir", dir)
		return nil, err
	}

	return &res, nil
}

// Open opens the store. An unreadable store is soft state: it gets wiped
// and rebuilt from empty instead of failing the run.
func (k *kvio) Open() error {
	if k.kv != nil {
		slog.Warn("key-value store is not nil")
	}
	options := badger.DefaultOptions(k.dir)
	options.Logger = nil

	bdb, err := badger.Open(options)
	if err != nil {
		slog.Warn("Cache store unreadable, rebuilding from empty",
			"dir", k.dir, "error", err)
		if err = gnsys.CleanDir(k.dir); err != nil {
			slog.Error("Cannot clean cache directory", "error", err, "dir", k.dir)
			return err
		}
		bdb, err = badger.Open(options)
		if err != nil {
			slog.Error("Cannot recreate cache store", "error", err, "dir", k.dir)
			return err
		}
	}
	k.kv = bdb
	return nil
}

// Close commits the buffered writes in one batch and closes the store.
func (k *kvio) Close() error {
	if k.kv == nil {
		slog.Warn("key-value store is nil")
		return nil
	}
	err := k.flush()
	if err != nil {
		slog.Error("Cannot flush cache", "error", err, "dir", k.dir)
	}
	err = k.kv.Close()
	k.kv = nil
	return err
}

// Get returns a value for a given key, nil when absent. Buffered writes
// from the current run are visible.
func (k *kvio) Get(key string) ([]byte, error) {
	k.mu.Lock()
	if val, ok := k.buf[key]; ok {
		k.mu.Unlock()
		return val, nil
	}
	k.mu.Unlock()

	if k.kv == nil {
		return nil, errors.New("key-value store is not open")
	}
	txn := k.kv.NewTransaction(false)
	defer txn.Discard()
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var res []byte
	return item.ValueCopy(res)
}

// Set buffers a key-value pair for the end-of-run flush.
func (k *kvio) Set(key string, val []byte) {
	k.mu.Lock()
	k.buf[key] = val
	k.mu.Unlock()
}

func (k *kvio) flush() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.buf) == 0 {
		return nil
	}

	txn := k.kv.NewTransaction(true)
	for key, val := range k.buf {
		err := txn.Set([]byte(key), val)
		if err == badger.ErrTxnTooBig {
			if err = txn.Commit(); err != nil {
				return err
			}
			txn = k.kv.NewTransaction(true)
			if err = txn.Set([]byte(key), val); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	k.buf = make(map[string][]byte)
	return nil
}
