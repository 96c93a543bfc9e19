// Package storefront holds the client-state synchronizers: in-memory copies
// of server-owned state (cart, user type, orders, profile) mutated
// optimistically and reconciled with, or rolled back to, the server's
// answer.
package storefront

import "github.com/google/uuid"

// MutationState tracks one optimistic mutation through its lifecycle.
type MutationState int

const (
	MutationPending MutationState = iota
	MutationReconciled
	MutationRolledBack
)

func (s MutationState) String() string {
	switch s {
	case MutationReconciled:
		return "reconciled"
	case MutationRolledBack:
		return "rolled_back"
	default:
		return "pending"
	}
}

// Mutation is the record of a single optimistic change. Synchronizers keep
// the last one around so the reconcile/rollback path is observable.
type Mutation struct {
	ID    string
	State MutationState
}

func newMutation() *Mutation {
	return &Mutation{ID: uuid.NewString(), State: MutationPending}
}
