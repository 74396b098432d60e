// Package store implements the concurrently shared backing map pair
// (flat key/value and key/field/value) behind the command layer. State
// that many goroutines touch is partitioned so unrelated keys never
// contend on the same lock: instead of one sync.Mutex guarding the whole
// store, a key hashes into one of N shards, each independently locked.
package store

import (
	"hash/fnv"
	"sync"

	"respkv/internal/frame"
)

// DefaultShards is used when a caller configures zero or a negative shard
// count.
const DefaultShards = 32

type shard struct {
	mu   sync.RWMutex
	kv   map[string]frame.Frame
	hmap map[string]map[string]frame.Frame
}

// Store is the sharded backend. A zero Store is not usable; construct one
// with New.
type Store struct {
	shards []*shard
}

// New builds a Store with n shards. n <= 0 is treated as DefaultShards.
func New(n int) *Store {
	if n <= 0 {
		n = DefaultShards
	}
	shards := make([]*shard, n)
	for i := range shards {
		shards[i] = &shard{
			kv:   make(map[string]frame.Frame),
			hmap: make(map[string]map[string]frame.Frame),
		}
	}
	return &Store{shards: shards}
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// Get returns the value stored at key and whether it was present. A key
// holding a hash (via HSet) is not visible to Get — the two namespaces
// never alias.
func (s *Store) Get(key string) (frame.Frame, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	v, ok := sh.kv[key]
	return v, ok
}

// Set stores value at key, overwriting any previous value, and removes any
// hash previously stored at the same key so the two namespaces stay
// disjoint.
func (s *Store) Set(key string, value frame.Frame) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.kv[key] = value
	delete(sh.hmap, key)
}

// HGet returns the field value of the hash at key and whether it was
// present (whether the key holds a hash at all, or holds the field).
func (s *Store) HGet(key, field string) (frame.Frame, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	h, ok := sh.hmap[key]
	if !ok {
		return frame.Frame{}, false
	}
	v, ok := h[field]
	return v, ok
}

// HSet stores value at field within the hash at key, creating the hash if
// necessary, and reports whether field was newly created (true) or
// overwritten (false) — the usual HSET return-value convention. Any flat
// value previously stored at key by Set is removed.
func (s *Store) HSet(key, field string, value frame.Frame) (created bool) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.kv, key)
	h, ok := sh.hmap[key]
	if !ok {
		h = make(map[string]frame.Frame)
		sh.hmap[key] = h
	}
	_, existed := h[field]
	h[field] = value
	return !existed
}

// HGetAll returns every field/value pair of the hash at key, in the order
// given by sort (sort=true sorts fields lexicographically so the response
// is deterministic across runs; sort=false returns Go's randomized map
// iteration order). The bool reports whether key holds a hash at all.
func (s *Store) HGetAll(key string, sort bool) ([]FieldValue, bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	h, ok := sh.hmap[key]
	if !ok {
		return nil, false
	}
	entries := make([]FieldValue, 0, len(h))
	for field, v := range h {
		entries = append(entries, FieldValue{Field: field, Value: v})
	}
	if sort {
		sortEntries(entries)
	}
	return entries, true
}

// FieldValue is one field/value pair of a hash, as returned by HGetAll.
type FieldValue struct {
	Field string
	Value frame.Frame
}

func sortEntries(entries []FieldValue) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Field < entries[j-1].Field; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// Del removes key from both namespaces and reports whether anything was
// actually present. Atomic with respect to concurrent Get/Set/HGet/HSet
// on the same key, since both namespaces are removed under one shard lock.
func (s *Store) Del(key string) bool {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	_, inKV := sh.kv[key]
	_, inHMap := sh.hmap[key]
	delete(sh.kv, key)
	delete(sh.hmap, key)
	return inKV || inHMap
}

// Exists reports whether key is present in either namespace.
func (s *Store) Exists(key string) bool {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	_, inKV := sh.kv[key]
	_, inHMap := sh.hmap[key]
	return inKV || inHMap
}

// Stats reports counts used by the debug endpoint: total flat keys and
// total hash keys across all shards.
type Stats struct {
	Keys   int
	Hashes int
}

func (s *Store) Stats() Stats {
	var st Stats
	for _, sh := range s.shards {
		sh.mu.RLock()
		st.Keys += len(sh.kv)
		st.Hashes += len(sh.hmap)
		sh.mu.RUnlock()
	}
	return st
}
