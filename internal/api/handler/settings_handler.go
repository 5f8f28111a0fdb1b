package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communitycore/membership-system/internal/api/metrics"
	"github.com/communitycore/membership-system/internal/core/domain"
	"github.com/communitycore/membership-system/internal/core/ports"
)

type SettingsHandler struct {
	settingsService ports.SettingsService
}

func NewSettingsHandler(settingsService ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// themeColorsPayload is the wire form of the colour palette.
type themeColorsPayload struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// settingsResponse is the camelCase wire form of the catalogue.
type settingsResponse struct {
	AppName               string             `json:"appName"`
	ThemeColors           themeColorsPayload `json:"themeColors"`
	DateFormat            string             `json:"dateFormat"`
	CurrencyFormat        string             `json:"currencyFormat"`
	EnableNotifications   bool               `json:"enableNotifications"`
	EnableWelfare         bool               `json:"enableWelfare"`
	EnableFamilyUnits     bool               `json:"enableFamilyUnits"`
	EnableDocumentSharing bool               `json:"enableDocumentSharing"`
	EnableVersionControl  bool               `json:"enableVersionControl"`
	DefaultDocumentAccess string             `json:"defaultDocumentAccess"`
	LogoURL               string             `json:"logoUrl"`
}

// settingsUpdateRequest is a partial update; absent fields stay untouched.
type settingsUpdateRequest struct {
	AppName               *string             `json:"appName"`
	ThemeColors           *themeColorsPayload `json:"themeColors"`
	DateFormat            *string             `json:"dateFormat"`
	CurrencyFormat        *string             `json:"currencyFormat"`
	EnableNotifications   *bool               `json:"enableNotifications"`
	EnableWelfare         *bool               `json:"enableWelfare"`
	EnableFamilyUnits     *bool               `json:"enableFamilyUnits"`
	EnableDocumentSharing *bool               `json:"enableDocumentSharing"`
	EnableVersionControl  *bool               `json:"enableVersionControl"`
	DefaultDocumentAccess *string             `json:"defaultDocumentAccess" validate:"omitempty,oneof=members admins private"`
	LogoURL               *string             `json:"logoUrl"`
}

func settingsToWire(s domain.Settings) settingsResponse {
	return settingsResponse{
		AppName: s.AppName,
		ThemeColors: themeColorsPayload{
			Primary:   s.ThemeColors.Primary,
			Secondary: s.ThemeColors.Secondary,
			Accent:    s.ThemeColors.Accent,
		},
		DateFormat:            s.DateFormat,
		CurrencyFormat:        s.CurrencyFormat,
		EnableNotifications:   s.EnableNotifications,
		EnableWelfare:         s.EnableWelfare,
		EnableFamilyUnits:     s.EnableFamilyUnits,
		EnableDocumentSharing: s.EnableDocumentSharing,
		EnableVersionControl:  s.EnableVersionControl,
		DefaultDocumentAccess: s.DefaultDocumentAccess,
		LogoURL:               s.LogoURL,
	}
}

// Get returns the full settings catalogue.
//
// @Summary      Read settings
// @Tags         settings
// @Produce      json
// @Success      200  {object}  settingsResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.settingsService.GetAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settingsToWire(settings))
}

// Update applies a partial settings update and returns the merged catalogue.
//
// @Summary      Update settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      settingsUpdateRequest  true  "Fields to change"
// @Success      200   {object}  settingsResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/settings [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	actor, err := ctxMember(c)
	if err != nil {
		return err
	}

	var req settingsUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	patch := ports.SettingsPatch{
		AppName:               req.AppName,
		DateFormat:            req.DateFormat,
		CurrencyFormat:        req.CurrencyFormat,
		EnableNotifications:   req.EnableNotifications,
		EnableWelfare:         req.EnableWelfare,
		EnableFamilyUnits:     req.EnableFamilyUnits,
		EnableDocumentSharing: req.EnableDocumentSharing,
		EnableVersionControl:  req.EnableVersionControl,
		DefaultDocumentAccess: req.DefaultDocumentAccess,
		LogoURL:               req.LogoURL,
	}
	if req.ThemeColors != nil {
		patch.ThemeColors = &domain.ThemeColors{
			Primary:   req.ThemeColors.Primary,
			Secondary: req.ThemeColors.Secondary,
			Accent:    req.ThemeColors.Accent,
		}
	}

	settings, err := h.settingsService.Update(c.Request().Context(), actor.ID, c.RealIP(), patch)
	if err != nil {
		return err
	}

	metrics.SettingsUpdatesTotal.Inc()
	return c.JSON(http.StatusOK, settingsToWire(settings))
}
