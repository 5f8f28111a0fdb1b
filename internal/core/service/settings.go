package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

// SettingsCache abstracts the optional read-through cache (Redis). A nil
// cache disables caching entirely.
type SettingsCache interface {
	// Get returns the cached catalogue, or (nil, nil) on a miss.
	Get(ctx context.Context) (*domain.Settings, error)
	Set(ctx context.Context, s domain.Settings) error
	Invalidate(ctx context.Context) error
}

// SettingsService is the read/write path for the configuration catalogue.
// Role enforcement happens at the route; this layer is persistence plus the
// per-key codec driven by domain.SettingSchema.
type SettingsService struct {
	repo   ports.SettingsRepository
	audit  ports.AuditService
	cache  SettingsCache
	logger zerolog.Logger
}

func NewSettingsService(repo ports.SettingsRepository, audit ports.AuditService, cache SettingsCache, logger zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, audit: audit, cache: cache, logger: logger}
}

// GetAll reads the full catalogue, decodes each row per the schema, and
// merges onto the hardcoded defaults. Missing keys never surface an error.
func (s *SettingsService) GetAll(ctx context.Context) (domain.Settings, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("settings cache read failed, falling back to store")
		} else if cached != nil {
			return *cached, nil
		}
	}

	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("settings: read catalogue: %w", err)
	}

	settings := mergeOntoDefaults(entries, s.logger)

	if s.cache != nil {
		if err := s.cache.Set(ctx, settings); err != nil {
			s.logger.Warn().Err(err).Msg("settings cache write failed")
		}
	}
	return settings, nil
}

// Update encodes every provided key, upserts them in one transaction,
// invalidates the cache before returning, records an audit entry, and
// returns the merged catalogue.
func (s *SettingsService) Update(ctx context.Context, actorID, actorIP string, patch ports.SettingsPatch) (domain.Settings, error) {
	now := time.Now().UTC()
	entries, changes, err := encodePatch(patch, actorID, now)
	if err != nil {
		return domain.Settings{}, err
	}

	if len(entries) > 0 {
		if err := s.repo.UpsertAll(ctx, entries); err != nil {
			return domain.Settings{}, fmt.Errorf("settings: upsert: %w", err)
		}
	}

	// The cache must be gone before this call returns so no reader can
	// observe the pre-update catalogue after a successful update.
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("settings cache invalidation failed")
		}
	}

	if s.audit != nil && len(changes) > 0 {
		s.audit.Record(ctx, domain.AuditEntry{
			ActorID:    actorID,
			Action:     "update",
			EntityType: "settings",
			EntityID:   "catalogue",
			Changes:    changes,
			IPAddress:  actorIP,
		})
	}

	return s.GetAll(ctx)
}

// encodePatch turns the non-nil patch fields into persisted entries plus the
// audit changes snapshot.
func encodePatch(patch ports.SettingsPatch, actorID string, now time.Time) ([]domain.SettingEntry, map[string]any, error) {
	var entries []domain.SettingEntry
	changes := make(map[string]any)

	add := func(key string, value any) error {
		spec, ok := domain.SettingSchema[key]
		if !ok {
			return fmt.Errorf("settings: %w: unknown key %q", domain.ErrValidation, key)
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("settings: encode %s: %w", key, err)
		}
		entries = append(entries, domain.SettingEntry{
			Key:       key,
			Value:     string(encoded),
			Category:  spec.Category,
			UpdatedBy: actorID,
			UpdatedAt: now,
		})
		changes[key] = value
		return nil
	}

	type field struct {
		key   string
		value any
		set   bool
	}
	fields := []field{
		{domain.KeyAppName, deref(patch.AppName), patch.AppName != nil},
		{domain.KeyThemeColors, derefColors(patch.ThemeColors), patch.ThemeColors != nil},
		{domain.KeyDateFormat, deref(patch.DateFormat), patch.DateFormat != nil},
		{domain.KeyCurrencyFormat, deref(patch.CurrencyFormat), patch.CurrencyFormat != nil},
		{domain.KeyEnableNotifications, derefBool(patch.EnableNotifications), patch.EnableNotifications != nil},
		{domain.KeyEnableWelfare, derefBool(patch.EnableWelfare), patch.EnableWelfare != nil},
		{domain.KeyEnableFamilyUnits, derefBool(patch.EnableFamilyUnits), patch.EnableFamilyUnits != nil},
		{domain.KeyEnableDocumentSharing, derefBool(patch.EnableDocumentSharing), patch.EnableDocumentSharing != nil},
		{domain.KeyEnableVersionControl, derefBool(patch.EnableVersionControl), patch.EnableVersionControl != nil},
		{domain.KeyDefaultDocumentAccess, deref(patch.DefaultDocumentAccess), patch.DefaultDocumentAccess != nil},
		{domain.KeyLogoURL, deref(patch.LogoURL), patch.LogoURL != nil},
	}
	for _, f := range fields {
		if !f.set {
			continue
		}
		if err := add(f.key, f.value); err != nil {
			return nil, nil, err
		}
	}

	return entries, changes, nil
}

// mergeOntoDefaults decodes each stored entry per its schema kind and lays
// it over the default catalogue. Undecodable rows are logged and skipped so
// corrupt data degrades to defaults instead of failing the read.
func mergeOntoDefaults(entries []domain.SettingEntry, logger zerolog.Logger) domain.Settings {
	settings := domain.DefaultSettings()

	for _, e := range entries {
		spec, ok := domain.SettingSchema[e.Key]
		if !ok {
			continue
		}

		switch spec.Kind {
		case domain.KindString:
			// Stored as a JSON-encoded string; decode once to a plain
			// string. A raw legacy value without quotes is used verbatim.
			var v string
			if err := json.Unmarshal([]byte(e.Value), &v); err != nil {
				v = e.Value
			}
			applyString(&settings, e.Key, v)
		case domain.KindJSON:
			if err := applyJSON(&settings, e.Key, e.Value); err != nil {
				logger.Warn().Err(err).Str("key", e.Key).Msg("skipping undecodable setting")
			}
		}
	}

	return settings
}

func applyString(s *domain.Settings, key, v string) {
	switch key {
	case domain.KeyAppName:
		s.AppName = v
	case domain.KeyDateFormat:
		s.DateFormat = v
	case domain.KeyCurrencyFormat:
		s.CurrencyFormat = v
	case domain.KeyDefaultDocumentAccess:
		s.DefaultDocumentAccess = v
	case domain.KeyLogoURL:
		s.LogoURL = v
	}
}

func applyJSON(s *domain.Settings, key, raw string) error {
	switch key {
	case domain.KeyThemeColors:
		return json.Unmarshal([]byte(raw), &s.ThemeColors)
	case domain.KeyEnableNotifications:
		return json.Unmarshal([]byte(raw), &s.EnableNotifications)
	case domain.KeyEnableWelfare:
		return json.Unmarshal([]byte(raw), &s.EnableWelfare)
	case domain.KeyEnableFamilyUnits:
		return json.Unmarshal([]byte(raw), &s.EnableFamilyUnits)
	case domain.KeyEnableDocumentSharing:
		return json.Unmarshal([]byte(raw), &s.EnableDocumentSharing)
	case domain.KeyEnableVersionControl:
		return json.Unmarshal([]byte(raw), &s.EnableVersionControl)
	}
	return nil
}

func deref(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func derefColors(p *domain.ThemeColors) any {
	if p == nil {
		return nil
	}
	return *p
}
