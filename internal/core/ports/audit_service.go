package ports

import (
	"context"
	"io"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// AuditService appends and queries the audit trail.
type AuditService interface {
	// Record is best-effort: a failed write is logged and swallowed so it
	// can never abort the business operation that triggered it.
	Record(ctx context.Context, e domain.AuditEntry)
	Query(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditEntry, error)
	// ExportCSV streams the filtered entries as CSV rows to w.
	ExportCSV(ctx context.Context, f domain.AuditFilter, w io.Writer) error
}
