package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// AuditService appends and queries the immutable audit trail.
type AuditService struct {
	repo   ports.AuditRepository
	logger zerolog.Logger
}

func NewAuditService(repo ports.AuditRepository, logger zerolog.Logger) *AuditService {
	return &AuditService{repo: repo, logger: logger}
}

// Record appends one entry. Failures are logged and swallowed: audit
// completeness is best-effort and must never abort the triggering
// business operation.
func (s *AuditService) Record(ctx context.Context, e domain.AuditEntry) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if err := s.repo.Insert(ctx, &e); err != nil {
		s.logger.Error().Err(err).
			Str("actor_id", e.ActorID).
			Str("action", e.Action).
			Str("entity_type", e.EntityType).
			Msg("failed to write audit entry")
	}
}

// Query returns entries matching all populated filter fields, newest-first.
func (s *AuditService) Query(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	entries, err := s.repo.Query(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	return entries, nil
}

// ExportCSV writes the filtered entries as delimited text. It is purely a
// projection of Query; no new filtering semantics.
func (s *AuditService) ExportCSV(ctx context.Context, f domain.AuditFilter, w io.Writer) error {
	entries, err := s.Query(ctx, f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"id", "actor_id", "action", "entity_type", "entity_id", "changes", "ip_address", "created_at"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("audit: export: %w", err)
	}

	for _, e := range entries {
		changes, err := json.Marshal(e.Changes)
		if err != nil {
			changes = []byte("{}")
		}
		row := []string{
			e.ID,
			e.ActorID,
			e.Action,
			e.EntityType,
			e.EntityID,
			string(changes),
			e.IPAddress,
			e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("audit: export: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
