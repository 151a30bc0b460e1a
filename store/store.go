// Package store implements the insert-once, range-queryable transaction
// log that backs voteflow's election state: every signed transaction is
// addressed by its Identifier and the store exposes ordered range scans
// over it.
package store

import (
	"slices"
	"sync"

	"github.com/wikiocracy/voteflow/errs"
	"github.com/wikiocracy/voteflow/transaction"
	"github.com/wikiocracy/voteflow/types"
)

// Store is the abstract contract every backend (in-memory or otherwise)
// implements.
type Store interface {
	// Get performs an exact lookup, returning (nil, false) if absent.
	Get(id types.Identifier) (transaction.Envelope, bool)
	// Range returns every transaction whose Identifier falls within
	// [start, end] inclusive, in ascending Identifier order.
	Range(start, end types.Identifier) []transaction.Envelope
	// GetMultiple is a convenience equal to
	// Range(Start(electionID, txType, nil), End(electionID, txType, nil)).
	GetMultiple(electionID types.Identifier, txType types.TransactionType) []transaction.Envelope
	// Set inserts tx. Replacing an existing id is backend-defined; the
	// in-memory reference implementation overwrites for test convenience.
	Set(tx transaction.Envelope)
}

// MemStore is the in-memory reference Store: an ordered map keyed by the
// canonical hex string form of each transaction's Identifier, scanned by
// sorting keys on every range query. Not intended for production scale,
// only as the one backend this package guarantees.
type MemStore struct {
	mu   sync.RWMutex
	data map[string]transaction.Envelope
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string]transaction.Envelope)}
}

func (s *MemStore) Get(id types.Identifier) (transaction.Envelope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tx, ok := s.data[id.String()]
	return tx, ok
}

// GetTyped performs an exact lookup and projects the result onto T,
// failing with errs.NotFound if the id is absent or the stored
// transaction is a different variant.
func GetTyped[T transaction.Signable](s Store, id types.Identifier) (transaction.SignedTransaction[T], error) {
	var zero T
	env, ok := s.Get(id)
	if !ok {
		return transaction.SignedTransaction[T]{}, &errs.NotFound{ID: id, ExpectedType: zero.ID().Type()}
	}
	typed, ok := env.(transaction.SignedTransaction[T])
	if !ok {
		return transaction.SignedTransaction[T]{}, &errs.NotFound{ID: id, ExpectedType: zero.ID().Type()}
	}
	return typed, nil
}

func (s *MemStore) Range(start, end types.Identifier) []transaction.Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	startStr, endStr := start.String(), end.String()
	for k := range s.data {
		if k >= startStr && k <= endStr {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	out := make([]transaction.Envelope, 0, len(keys))
	for _, k := range keys {
		out = append(out, s.data[k])
	}
	return out
}

func (s *MemStore) GetMultiple(electionID types.Identifier, txType types.TransactionType) []transaction.Envelope {
	start := types.Start(electionID, txType, nil)
	end := types.End(electionID, txType, nil)
	return s.Range(start, end)
}

func (s *MemStore) Set(tx transaction.Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tx.ID().String()] = tx
}
