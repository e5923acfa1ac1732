// Package iostore is for durable run and document storage.
package iostore

import (
	"sync"

	"github.com/huangsam/devpulse/internal/contract"
)

// StoreManagerImpl manages the run and document store handles.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	runs         contract.RunStore
	docs         contract.DocStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetRunStore returns the run store, or nil when tracking is disabled.
func (mgr *StoreManagerImpl) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// GetDocStore returns the document store, or nil when tracking is disabled.
func (mgr *StoreManagerImpl) GetDocStore() contract.DocStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.docs
}
