package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/communitycore/membership-system/internal/api/middleware"
	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

type stubSettingsService struct {
	getFn    func(ctx context.Context) (domain.Settings, error)
	updateFn func(ctx context.Context, actorID, actorIP string, patch ports.SettingsPatch) (domain.Settings, error)
}

func (s *stubSettingsService) GetAll(ctx context.Context) (domain.Settings, error) {
	return s.getFn(ctx)
}

func (s *stubSettingsService) Update(ctx context.Context, actorID, actorIP string, patch ports.SettingsPatch) (domain.Settings, error) {
	return s.updateFn(ctx, actorID, actorIP, patch)
}

func TestSettingsHandler_Get(t *testing.T) {
	e := newTestEcho()
	stub := &stubSettingsService{
		getFn: func(context.Context) (domain.Settings, error) {
			s := domain.DefaultSettings()
			s.AppName = "Grace Chapel"
			return s, nil
		},
	}
	h := NewSettingsHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/settings", nil), rec)

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["appName"] != "Grace Chapel" {
		t.Fatalf("expected camelCase appName, got %+v", resp)
	}
	colors, ok := resp["themeColors"].(map[string]any)
	if !ok || colors["primary"] != "#0066cc" {
		t.Fatalf("unexpected theme colors: %+v", resp["themeColors"])
	}
}

func TestSettingsHandler_Update_PartialPatch(t *testing.T) {
	e := newTestEcho()
	stub := &stubSettingsService{
		updateFn: func(_ context.Context, actorID, _ string, patch ports.SettingsPatch) (domain.Settings, error) {
			if actorID != "m1" {
				t.Fatalf("unexpected actor: %s", actorID)
			}
			if patch.AppName == nil || *patch.AppName != "Grace Chapel" {
				t.Fatalf("appName not carried in patch")
			}
			if patch.EnableWelfare == nil || *patch.EnableWelfare {
				t.Fatalf("enableWelfare not carried in patch")
			}
			if patch.DateFormat != nil {
				t.Fatalf("absent field must stay nil")
			}
			s := domain.DefaultSettings()
			s.AppName = "Grace Chapel"
			s.EnableWelfare = false
			return s, nil
		},
	}
	h := NewSettingsHandler(stub)

	body := `{"appName":"Grace Chapel","enableWelfare":false}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/settings", body), rec)
	c.Set(middleware.MemberKey, &domain.Member{ID: "m1", Role: domain.RoleAdmin})

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["appName"] != "Grace Chapel" || resp["enableWelfare"] != false {
		t.Fatalf("unexpected merged catalogue: %+v", resp)
	}
}

func TestSettingsHandler_Update_BadDocumentAccess(t *testing.T) {
	e := newTestEcho()
	stub := &stubSettingsService{
		updateFn: func(context.Context, string, string, ports.SettingsPatch) (domain.Settings, error) {
			t.Fatalf("should not be called")
			return domain.Settings{}, nil
		},
	}
	h := NewSettingsHandler(stub)

	body := `{"defaultDocumentAccess":"everyone"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/settings", body), rec)
	c.Set(middleware.MemberKey, &domain.Member{ID: "m1", Role: domain.RoleAdmin})

	if code := httpStatus(t, h.Update(c)); code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}

func TestSettingsHandler_Update_MissingMember(t *testing.T) {
	e := newTestEcho()
	h := NewSettingsHandler(&stubSettingsService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/settings", `{}`), rec)

	if code := httpStatus(t, h.Update(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestSettingsHandler_Update_ServiceError(t *testing.T) {
	e := newTestEcho()
	wantErr := errors.New("store down")
	stub := &stubSettingsService{
		updateFn: func(context.Context, string, string, ports.SettingsPatch) (domain.Settings, error) {
			return domain.Settings{}, wantErr
		},
	}
	h := NewSettingsHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPut, "/v1/settings", `{"appName":"x"}`), rec)
	c.Set(middleware.MemberKey, &domain.Member{ID: "m1", Role: domain.RoleAdmin})

	if err := h.Update(c); !errors.Is(err, wantErr) {
		t.Fatalf("expected service error to propagate, got %v", err)
	}
}
