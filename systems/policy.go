package systems

import (
	"errors"
	"log/slog"

	"github.com/pthm-cable/tankarena/config"
)

// QueryPolicy decides what happens when a spatial query fails.
type QueryPolicy struct {
	Ignore bool
	Logger *slog.Logger
}

// NewQueryPolicy reads the policy from the collision config.
func NewQueryPolicy(c config.CollisionConfig, logger *slog.Logger) QueryPolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return QueryPolicy{Ignore: c.OnQueryError == config.PolicyIgnore, Logger: logger}
}

// Handle logs a failed query and returns the error to propagate, or nil when
// the failure is ignored. Invariant violations are never ignored.
func (p QueryPolicy) Handle(op string, err error) error {
	if err == nil {
		return nil
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if p.Ignore && !errors.Is(err, ErrInvariant) {
		logger.Warn("spatial query failed", "op", op, "policy", config.PolicyIgnore, "error", err)
		return nil
	}
	logger.Error("spatial query failed", "op", op, "policy", config.PolicyAbort, "error", err)
	return err
}
