// Package iocache persists run history and caches linter results.
package iocache

import (
	"sync"

	"github.com/huangsam/commitscore/internal/contract"
)

// StoreManager holds the history store and the lint cache.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	history      contract.HistoryStore
	cache        contract.CacheStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetHistoryStore returns the HistoryStore.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}

// GetCacheStore returns the lint CacheStore.
func (mgr *StoreManager) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}
