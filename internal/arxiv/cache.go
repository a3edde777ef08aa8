package arxiv

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// cacheTTL bounds how long a cached search stays valid. arXiv relevance
// for a fixed title query barely moves, so a month is plenty.
const cacheTTL = 30 * 24 * time.Hour

// Cache is a BadgerDB-backed query cache for arXiv searches.
type Cache struct {
	db  *badger.DB
	log logrus.FieldLogger
}

// OpenCache opens (or creates) the cache at the given path.
func OpenCache(path string, logger logrus.FieldLogger) (*Cache, error) {
	log := logger.WithField("component", "arxiv_cache")
	opts := badger.DefaultOptions(path)
	opts.Logger = &badgerLogger{log.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open arxiv cache at %s: %w", path, err)
	}
	return &Cache{db: db, log: log}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		c.log.WithError(err).Error("Error closing arxiv cache")
		return err
	}
	return nil
}

func cacheKey(query string) []byte {
	return []byte("arxiv:q:" + query)
}

// Get returns the cached results for a query, if present and fresh.
// Read errors are logged and reported as a miss; the cache is an
// optimization, never a failure source.
func (c *Cache) Get(query string) ([]Result, bool) {
	var results []Result
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(query))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &results)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.log.WithError(err).WithField("query", query).Warn("Cache read failed")
		}
		return nil, false
	}
	return results, true
}

// Put stores the results for a query with the cache TTL.
func (c *Cache) Put(query string, results []Result) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(cacheKey(query), data).WithTTL(cacheTTL)
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{})   { l.logger.Errorf(f, v...) }
func (l *badgerLogger) Warningf(f string, v ...interface{}) { l.logger.Warningf(f, v...) }
func (l *badgerLogger) Infof(f string, v ...interface{})    { l.logger.Debugf(f, v...) }
func (l *badgerLogger) Debugf(f string, v ...interface{})   { l.logger.Debugf(f, v...) }
