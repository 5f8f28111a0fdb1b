package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/communitycore/membership-system/internal/core/domain"
)

func auditFixture(t *testing.T) (*AuditRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewAuditRepository(db), mock
}

func TestAuditRepository_InsertMintsID(t *testing.T) {
	repo, mock := auditFixture(t)

	mock.ExpectExec("insert into audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &domain.AuditEntry{
		ActorID:    "alice",
		Action:     "update",
		EntityType: "settings",
		EntityID:   "catalogue",
		Changes:    map[string]any{"app_name": "Grace Chapel"},
		CreatedAt:  time.Now().UTC(),
	}
	if err := repo.Insert(context.Background(), e); err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected minted id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_QueryComposesFilters(t *testing.T) {
	repo, mock := auditFixture(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`where actor_id = \$1 and entity_type = \$2 order by created_at desc`).
		WithArgs("alice", "member").
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "action", "entity_type", "entity_id", "changes", "ip_address", "created_at"}).
			AddRow("e1", "alice", "update", "member", "m1", []byte(`{"phone":{"from":"","to":"555"}}`), "", now))

	entries, err := repo.Query(context.Background(), domain.AuditFilter{ActorID: "alice", EntityType: "member"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "e1" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if entries[0].Changes == nil {
		t.Fatalf("expected decoded changes")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditRepository_QueryUnfiltered(t *testing.T) {
	repo, mock := auditFixture(t)

	mock.ExpectQuery(`from audit_logs order by created_at desc`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "action", "entity_type", "entity_id", "changes", "ip_address", "created_at"}))

	entries, err := repo.Query(context.Background(), domain.AuditFilter{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
