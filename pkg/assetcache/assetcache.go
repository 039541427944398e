// Package assetcache is a badger-backed byte cache for downloaded assets
// (dataset, geometry overlays) and computed artifacts like force-layout
// positions, so restarts come up warm without re-fetching or re-solving.
package assetcache

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

type Cache struct {
	db      *badger.DB
	memory  sync.Map // read-through copy of hot keys
	fetchFn func(url string) ([]byte, error)
}

func Open(dir string) (*Cache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open asset cache: %w", err)
	}
	return &Cache{db: db, fetchFn: httpGet}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Get returns the cached bytes for key, or nil if absent.
func (c *Cache) Get(key string) ([]byte, error) {
	if v, ok := c.memory.Load(key); ok {
		return v.([]byte), nil
	}
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.memory.Store(key, val)
	return val, nil
}

func (c *Cache) Put(key string, val []byte) error {
	c.memory.Store(key, val)
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

// Fetch returns the body for url, downloading it once and serving every
// later call from the cache.
func (c *Cache) Fetch(url, logPrefix string) ([]byte, error) {
	if cached, err := c.Get(url); err == nil && cached != nil {
		log.Printf("%s Using cached copy of %s", logPrefix, url)
		return cached, nil
	}
	log.Printf("%s Downloading %s", logPrefix, url)
	body, err := c.fetchFn(url)
	if err != nil {
		return nil, err
	}
	if err := c.Put(url, body); err != nil {
		log.Printf("%s Failed to cache %s: %v", logPrefix, url, err)
	}
	return body, nil
}

func httpGet(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing response body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
