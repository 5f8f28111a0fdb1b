package ports

import (
	"context"

	"github.com/communitycore/membership-system/internal/core/domain"
)

// SettingsPatch is a partial settings update. Nil fields are left untouched;
// non-nil fields are encoded per the setting schema and upserted.
type SettingsPatch struct {
	AppName               *string
	ThemeColors           *domain.ThemeColors
	DateFormat            *string
	CurrencyFormat        *string
	EnableNotifications   *bool
	EnableWelfare         *bool
	EnableFamilyUnits     *bool
	EnableDocumentSharing *bool
	EnableVersionControl  *bool
	DefaultDocumentAccess *string
	LogoURL               *string
}

// SettingsService reads and updates the configuration catalogue. Role
// enforcement is the caller's responsibility; the service is pure
// persistence logic plus the per-key codec.
type SettingsService interface {
	// GetAll never fails on missing rows; it degrades to defaults.
	GetAll(ctx context.Context) (domain.Settings, error)
	// Update upserts all provided keys atomically, stamps the actor, and
	// returns the merged catalogue as GetAll would.
	Update(ctx context.Context, actorID, actorIP string, patch SettingsPatch) (domain.Settings, error)
}
