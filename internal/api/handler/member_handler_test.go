package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/communitycore/membership-system/internal/api/middleware"
	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// stubGate resolves subjects from a fixed map; self-ownership wins over role.
type stubGate struct {
	members map[string]*domain.Member
}

func (g *stubGate) Authorize(_ context.Context, subjectID string, allowed ...domain.Role) (*domain.Member, error) {
	m, ok := g.members[subjectID]
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	for _, r := range allowed {
		if m.Role == r {
			return m, nil
		}
	}
	return nil, &domain.AccessDeniedError{Required: allowed, Actual: m.Role}
}

func (g *stubGate) AuthorizeSelfOrRole(ctx context.Context, subjectID, ownerID string, allowed ...domain.Role) (*domain.Member, error) {
	if m, ok := g.members[subjectID]; ok && m.ID == ownerID {
		return m, nil
	}
	return g.Authorize(ctx, subjectID, allowed...)
}

func TestMemberHandler_UpdateOwnProfile(t *testing.T) {
	e := newTestEcho()
	gate := &stubGate{members: map[string]*domain.Member{
		"cred-1": {ID: "m1", CredentialID: "cred-1", Role: domain.RoleMember},
	}}
	svc := &stubMemberService{
		updateProfileFn: func(_ context.Context, actor *domain.Member, memberID string, in ports.UpdateProfileInput) (*domain.Member, error) {
			if actor.ID != "m1" || memberID != "m1" {
				t.Fatalf("unexpected actor/target: %s %s", actor.ID, memberID)
			}
			if in.Phone == nil || *in.Phone != "555-0100" {
				t.Fatalf("phone not carried")
			}
			return &domain.Member{ID: memberID, Phone: *in.Phone}, nil
		},
	}
	h := NewMemberHandler(gate, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/members/m1", `{"phone":"555-0100"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("m1")
	c.Set(middleware.SubjectKey, "cred-1")

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMemberHandler_UpdateOtherProfileForbidden(t *testing.T) {
	e := newTestEcho()
	gate := &stubGate{members: map[string]*domain.Member{
		"cred-1": {ID: "m1", CredentialID: "cred-1", Role: domain.RoleMember},
	}}
	svc := &stubMemberService{
		updateProfileFn: func(context.Context, *domain.Member, string, ports.UpdateProfileInput) (*domain.Member, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewMemberHandler(gate, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/members/m2", `{"phone":"555-0100"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("m2")
	c.Set(middleware.SubjectKey, "cred-1")

	if err := h.UpdateProfile(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMemberHandler_AdminUpdatesRole(t *testing.T) {
	e := newTestEcho()
	gate := &stubGate{members: map[string]*domain.Member{
		"cred-9": {ID: "admin-1", CredentialID: "cred-9", Role: domain.RoleAdmin},
	}}
	svc := &stubMemberService{
		updateProfileFn: func(_ context.Context, actor *domain.Member, memberID string, in ports.UpdateProfileInput) (*domain.Member, error) {
			if in.Role == nil || *in.Role != domain.RoleWelfareAdmin {
				t.Fatalf("role not carried")
			}
			return &domain.Member{ID: memberID, Role: *in.Role}, nil
		},
	}
	h := NewMemberHandler(gate, svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/members/m2", `{"role":"welfare_admin"}`), rec)
	c.SetParamNames("id")
	c.SetParamValues("m2")
	c.Set(middleware.SubjectKey, "cred-9")

	if err := h.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
