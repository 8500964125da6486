package services

import "sync"

// KeyedMutex serializes work per (portfolio, asset) key. Position updates
// are read-modify-write over quantity and cost basis, so two writers racing
// on the same key would lose updates; different keys stay independent.
//
// One instance must be shared by every service that touches positions:
// recording an event and recalculating the same key from history are not
// safe to interleave, even in separate database transactions.
type KeyedMutex struct {
	locks sync.Map
}

// NewKeyedMutex creates the lock table shared across position writers.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for key and returns its unlock func.
func (k *KeyedMutex) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func positionKey(portfolioID, assetID string) string {
	return portfolioID + "/" + assetID
}
