package commands

import (
	"errors"

	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// MaxExpiryBatchSize bounds the quotes converged per sweep.
const MaxExpiryBatchSize = 1000

var ErrExpireQuotesCommandIsNotConstructed = errors.New(
	"ExpireQuotesCommand must be created via NewExpireQuotesCommand constructor",
)

// ExpireQuotesCommand converges the stored status of overdue quotes with their
// computed status.
type ExpireQuotesCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireQuotesCommand(batchSize int) (ExpireQuotesCommand, error) {
	if batchSize <= 0 || batchSize > MaxExpiryBatchSize {
		return ExpireQuotesCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, MaxExpiryBatchSize)
	}
	return ExpireQuotesCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c ExpireQuotesCommand) Validate() error {
	return c.guard.Validate(ErrExpireQuotesCommandIsNotConstructed)
}

func (c ExpireQuotesCommand) BatchSize() int { return c.batchSize }
