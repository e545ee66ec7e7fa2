package operator

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-ledger/internal/ledger"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 10 * time.Millisecond
	maxRetryDelay      = time.Second
)

// Operator runs actions as atomic units against storage, retrying units that
// were aborted by concurrent writers.
type Operator struct {
	storage     storage.Storage
	maxAttempts int
	baseDelay   time.Duration
	logger      *logrus.Logger
}

type Option func(*Operator)

func WithMaxAttempts(n int) Option {
	return func(o *Operator) {
		if n > 0 {
			o.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the first backoff interval. Zero disables waiting.
func WithBaseDelay(d time.Duration) Option {
	return func(o *Operator) {
		if d >= 0 {
			o.baseDelay = d
		}
	}
}

func WithLogger(logger *logrus.Logger) Option {
	return func(o *Operator) {
		o.logger = logger
	}
}

func NewOperator(s storage.Storage, opts ...Option) *Operator {
	o := &Operator{
		storage:     s,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		logger:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process performs action inside one atomic unit and commits it.
//
// Domain errors returned by the action are returned unchanged and never
// retried. Retryable store failures are retried with exponential backoff; once
// attempts are exhausted, or on any other store failure, a *ledger.CommitError
// is returned. A nil return means the unit committed exactly once.
func (o *Operator) Process(ctx context.Context, action actions.IAction) error {
	if o.logger.IsLevelEnabled(logrus.DebugLevel) {
		o.logger.WithField("action", spew.Sdump(action)).Debug("Operator.Process.perform")
	}

	logData := logging.GetLogData(ctx)
	attempts := 0
	run := func() error {
		attempts++
		if logData != nil {
			logData.AddData("unitAttempts", attempts)
			defer logData.AddToExistingTiming("unitMs")()
		}
		err := o.attempt(ctx, action)
		if err == nil {
			return nil
		}
		if ledger.IsDomainError(err) || !storage.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		o.logger.WithError(err).WithFields(logrus.Fields{
			"attempt":     attempts,
			"maxAttempts": o.maxAttempts,
		}).Warn("Operator.Process.retry")
		return err
	}

	err := backoff.Retry(run, backoff.WithContext(o.newBackOff(), ctx))
	if err == nil {
		return nil
	}
	if ledger.IsDomainError(err) {
		return err
	}

	o.logger.WithError(err).WithField("attempts", attempts).Error("Operator.Process.failed")
	return &ledger.CommitError{Attempts: attempts, Err: err}
}

func (o *Operator) attempt(ctx context.Context, action actions.IAction) error {
	writer, err := o.storage.Write(ctx)
	if err != nil {
		return err
	}

	err = action.Perform(ctx, writer)
	if err != nil {
		_ = writer.Rollback(ctx)
		return err
	}

	return writer.Commit(ctx)
}

func (o *Operator) newBackOff() backoff.BackOff {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = o.baseDelay
	expo.MaxInterval = maxRetryDelay
	expo.MaxElapsedTime = 0
	expo.Reset()
	return backoff.WithMaxRetries(expo, uint64(o.maxAttempts-1))
}
