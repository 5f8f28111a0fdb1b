package domain

import "time"

// ThemeColors is the colour palette stored under the theme_colors key.
type ThemeColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Settings is the flat configuration catalogue exposed to callers. It is
// always complete: missing persisted keys fall back to DefaultSettings.
type Settings struct {
	AppName               string
	ThemeColors           ThemeColors
	DateFormat            string
	CurrencyFormat        string
	EnableNotifications   bool
	EnableWelfare         bool
	EnableFamilyUnits     bool
	EnableDocumentSharing bool
	EnableVersionControl  bool
	DefaultDocumentAccess string
	LogoURL               string
}

// SettingEntry is one persisted row of the settings catalogue. Value holds
// the raw stored text; encoding and decoding follow the schema below.
type SettingEntry struct {
	Key         string
	Value       string
	Category    string
	Description string
	UpdatedBy   string
	UpdatedAt   time.Time
}

// SettingKind selects how a setting value is (de)serialized.
type SettingKind int

const (
	// KindString values decode to a plain string, never a nested JSON value.
	KindString SettingKind = iota
	// KindJSON values use their natural JSON encoding (booleans, objects).
	KindJSON
)

// SettingSpec describes one catalogue key.
type SettingSpec struct {
	Category string
	Kind     SettingKind
}

// Persisted setting keys. The wire representation is camelCase; these
// snake_case names are the storage contract.
const (
	KeyAppName               = "app_name"
	KeyThemeColors           = "theme_colors"
	KeyDateFormat            = "date_format"
	KeyCurrencyFormat        = "currency_format"
	KeyEnableNotifications   = "enable_notifications"
	KeyEnableWelfare         = "enable_welfare"
	KeyEnableFamilyUnits     = "enable_family_units"
	KeyEnableDocumentSharing = "enable_document_sharing"
	KeyEnableVersionControl  = "enable_version_control"
	KeyDefaultDocumentAccess = "default_document_access"
	KeyLogoURL               = "logo_url"
)

// SettingSchema is the single source of truth for key grouping and value
// kind, consulted by both the encode and decode paths.
var SettingSchema = map[string]SettingSpec{
	KeyAppName:               {Category: "general", Kind: KindString},
	KeyThemeColors:           {Category: "theme", Kind: KindJSON},
	KeyDateFormat:            {Category: "general", Kind: KindString},
	KeyCurrencyFormat:        {Category: "general", Kind: KindString},
	KeyEnableNotifications:   {Category: "features", Kind: KindJSON},
	KeyEnableWelfare:         {Category: "features", Kind: KindJSON},
	KeyEnableFamilyUnits:     {Category: "features", Kind: KindJSON},
	KeyEnableDocumentSharing: {Category: "features", Kind: KindJSON},
	KeyEnableVersionControl:  {Category: "features", Kind: KindJSON},
	KeyDefaultDocumentAccess: {Category: "features", Kind: KindString},
	KeyLogoURL:               {Category: "general", Kind: KindString},
}

// DefaultSettings returns the hardcoded fallback catalogue. GetAll merges
// persisted rows onto this value, so partial data never surfaces an error.
func DefaultSettings() Settings {
	return Settings{
		AppName: "Community Management System",
		ThemeColors: ThemeColors{
			Primary:   "#0066cc",
			Secondary: "#4b5563",
			Accent:    "#10b981",
		},
		DateFormat:            "MM/dd/yyyy",
		CurrencyFormat:        "USD",
		EnableNotifications:   true,
		EnableWelfare:         true,
		EnableFamilyUnits:     true,
		EnableDocumentSharing: true,
		EnableVersionControl:  true,
		DefaultDocumentAccess: "members",
		LogoURL:               "",
	}
}
