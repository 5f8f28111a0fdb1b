package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/communitycore/membership-system/internal/core/domain"
)

type stubAuditRepo struct {
	entries   []*domain.AuditEntry
	insertErr error
}

func (r *stubAuditRepo) Insert(_ context.Context, e *domain.AuditEntry) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	clone := *e
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *stubAuditRepo) Query(_ context.Context, f domain.AuditFilter) ([]*domain.AuditEntry, error) {
	var out []*domain.AuditEntry
	for _, e := range r.entries {
		if f.ActorID != "" && e.ActorID != f.ActorID {
			continue
		}
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != "" && e.EntityID != f.EntityID {
			continue
		}
		if !f.From.IsZero() && e.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && e.CreatedAt.After(f.To) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func seedAudit(t *testing.T, svc *AuditService) {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.Record(context.Background(), domain.AuditEntry{
		ID: "e1", ActorID: "alice", Action: "update", EntityType: "settings",
		EntityID: "catalogue", CreatedAt: base,
	})
	svc.Record(context.Background(), domain.AuditEntry{
		ID: "e2", ActorID: "bob", Action: "update", EntityType: "member",
		EntityID: "m1", CreatedAt: base.Add(time.Hour),
	})
	svc.Record(context.Background(), domain.AuditEntry{
		ID: "e3", ActorID: "alice", Action: "create", EntityType: "member",
		EntityID: "m2", CreatedAt: base.Add(2 * time.Hour),
	})
}

func TestAuditService_QueryByActor(t *testing.T) {
	svc := NewAuditService(&stubAuditRepo{}, zerolog.Nop())
	seedAudit(t, svc)

	got, err := svc.Query(context.Background(), domain.AuditFilter{ActorID: "alice"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for alice, got %d", len(got))
	}
	// Newest-first ordering.
	if got[0].ID != "e3" || got[1].ID != "e1" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestAuditService_QueryUnfiltered(t *testing.T) {
	svc := NewAuditService(&stubAuditRepo{}, zerolog.Nop())
	seedAudit(t, svc)

	got, err := svc.Query(context.Background(), domain.AuditFilter{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected full log, got %d entries", len(got))
	}
	if got[0].ID != "e3" {
		t.Fatalf("expected newest entry first, got %s", got[0].ID)
	}
}

func TestAuditService_QueryComposedFilters(t *testing.T) {
	svc := NewAuditService(&stubAuditRepo{}, zerolog.Nop())
	seedAudit(t, svc)

	got, err := svc.Query(context.Background(), domain.AuditFilter{
		ActorID:    "alice",
		EntityType: "member",
	})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "e3" {
		t.Fatalf("AND semantics violated: %+v", got)
	}
}

func TestAuditService_RecordSwallowsFailure(t *testing.T) {
	repo := &stubAuditRepo{insertErr: errors.New("disk full")}
	svc := NewAuditService(repo, zerolog.Nop())

	// Must not panic or surface the error in any way.
	svc.Record(context.Background(), domain.AuditEntry{ActorID: "alice", Action: "update", EntityType: "settings"})

	if len(repo.entries) != 0 {
		t.Fatalf("expected no entries persisted")
	}
}

func TestAuditService_RecordStampsTime(t *testing.T) {
	repo := &stubAuditRepo{}
	svc := NewAuditService(repo, zerolog.Nop())

	svc.Record(context.Background(), domain.AuditEntry{ActorID: "alice", Action: "update", EntityType: "settings"})

	if len(repo.entries) != 1 || repo.entries[0].CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp to be stamped")
	}
}

func TestAuditService_ExportCSV(t *testing.T) {
	svc := NewAuditService(&stubAuditRepo{}, zerolog.Nop())
	seedAudit(t, svc)

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), domain.AuditFilter{ActorID: "bob"}, &buf); err != nil {
		t.Fatalf("ExportCSV returned error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "id" || rows[0][7] != "created_at" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "bob" || rows[1][3] != "member" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}
