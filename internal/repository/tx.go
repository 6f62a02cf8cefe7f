package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Transactor runs fn atomically. Repository calls made with the ctx handed
// to fn join the transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

type txState struct {
	tx *gorm.DB

	mu          sync.Mutex
	afterCommit []func()
}

type gormTransactor struct {
	db *gorm.DB
}

// NewTransactor returns a Transactor over db.
func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

// InTx commits when fn returns nil and rolls back otherwise. A call nested
// in an open transaction joins it. Hooks registered with AfterCommit run
// once the outermost transaction commits.
func (t *gormTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return err
	}

	for _, hook := range state.afterCommit {
		hook()
	}
	return nil
}

// AfterCommit defers fn until the transaction carried by ctx commits. It is
// dropped on rollback. Outside a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		fn()
		return
	}
	state.mu.Lock()
	state.afterCommit = append(state.afterCommit, fn)
	state.mu.Unlock()
}

// NoTx runs fn directly, for callers without a database.
type NoTx struct{}

func (NoTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// conn returns the handle repository calls should use: the open transaction
// if ctx carries one, db otherwise.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok && state.tx != nil {
		return state.tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
