// Package services implements the storefront's transactional operations
// on top of gorm. Every multi-row write runs in one database transaction;
// events are published only after commit.
package services

import (
	"context"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mohibbulwara/orjon/config"
	"github.com/mohibbulwara/orjon/events"
	"github.com/mohibbulwara/orjon/logger"
	"github.com/mohibbulwara/orjon/metrics"
	"github.com/mohibbulwara/orjon/models"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxTxAttempts = 3

var tracer = otel.Tracer("github.com/mohibbulwara/orjon/services")

type Service struct {
	db      *gorm.DB
	pricing config.Pricing
	events  events.Publisher
	now     func() time.Time
}

func New(db *gorm.DB, pricing config.Pricing, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Nop
	}
	return &Service{
		db:      db,
		pricing: pricing,
		events:  pub,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Pricing() config.Pricing { return s.pricing }

// transaction runs fn in a database transaction, retrying serialization
// failures and deadlocks. fn must not keep state across attempts.
func (s *Service) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == maxTxAttempts {
			break
		}
		metrics.TxRetries.Inc()
		logger.Ctx(ctx).Warn().Err(err).Int("attempt", attempt).Msg("transaction conflict, retrying")

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "transaction aborted")
		case <-time.After(time.Duration(attempt*25) * time.Millisecond):
		}
	}
	logger.Ctx(ctx).Error().Err(err).Int("attempts", maxTxAttempts).Msg("transaction retries exhausted")
	return errors.WithStack(&Error{Kind: ErrConflict, Msg: "the store is busy, please retry"})
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// serialization_failure, deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		// ER_LOCK_DEADLOCK, ER_LOCK_WAIT_TIMEOUT
		return myErr.Number == 1213 || myErr.Number == 1205
	}
	return false
}

// publish is best effort; the transaction has already committed.
func (s *Service) publish(ctx context.Context, evt events.Event) {
	if evt.At.IsZero() {
		evt.At = s.now()
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("kind", string(evt.Kind)).Msg("event publish failed")
	}
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

func (s *Service) loadUser(tx *gorm.DB, id string) (*models.User, error) {
	var u models.User
	if err := tx.First(&u, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &u, nil
}

func (s *Service) lockUser(tx *gorm.DB, id string) (*models.User, error) {
	var u models.User
	if err := tx.Clauses(forUpdate).First(&u, "id = ?", id).Error; err != nil {
		return nil, lookupErr(err, "user")
	}
	return &u, nil
}

func (s *Service) newNotification(userID string, kind models.NotificationType, msg string) models.Notification {
	return models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Message:   msg,
		CreatedAt: s.now(),
	}
}

func strPtr(v string) *string { return &v }
