package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds every write transaction, including
	// the row locks a review holds on its group.
	DefaultTransactionTimeout = 10 * time.Second

	// statementBuildTimeout bounds one shared statement build.
	statementBuildTimeout = 30 * time.Second

	// IdempotencyPending marks a key whose first request is still running.
	IdempotencyPending = "processing"

	defaultListLimit = 20
	maxListLimit     = 100
)
