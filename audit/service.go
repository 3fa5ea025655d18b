// api/audit/service.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logger "github.com/argus-admin/argus/api/logging"
)

type Service interface {
	Record(ctx context.Context, entry Entry) error
	Query(ctx context.Context, from, to time.Time, username, entity string) ([]Entry, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return s.repo.Record(ctx, entry)
}

func (s *service) Query(ctx context.Context, from, to time.Time, username, entity string) ([]Entry, error) {
	return s.repo.Query(ctx, from, to, username, entity)
}

// NoopRepository drops entries after logging them. Used when no
// Elasticsearch endpoint is configured.
type NoopRepository struct{}

func (NoopRepository) Record(_ context.Context, entry Entry) error {
	logger.Debug("Audit entry (noop sink)",
		zap.String("action", entry.Action),
		zap.String("entity", entry.Entity),
		zap.Int("entityID", entry.EntityID))
	return nil
}

func (NoopRepository) Query(context.Context, time.Time, time.Time, string, string) ([]Entry, error) {
	return nil, nil
}
