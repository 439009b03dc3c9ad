package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spectech/internal/cache"
	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/database"
	"github.com/example/spectech/internal/models"
	"github.com/example/spectech/internal/utils"
)

const settingsCacheTTL = 10 * time.Minute

// SettingsHandler manages the site-wide settings singleton.
type SettingsHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(db *gorm.DB, cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{db: db, cfg: cfg}
}

type settingsSnapshot struct {
	SiteTitle       string `json:"site_title"`
	LogoFile        string `json:"logo_file"`
	WhatsappEnabled bool   `json:"whatsapp_enabled"`
	CallsEnabled    bool   `json:"calls_enabled"`
}

// GetSettings returns the public settings snapshot consumed by every page
// render. The snapshot is cached when Redis is configured.
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	if data, ok := cache.GetCached(c.Context(), cache.SettingsKey); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	}

	settings, err := loadSiteSettings(h.db)
	if err != nil {
		return err
	}

	snapshot := settingsSnapshot{
		SiteTitle:       settings.SiteTitle,
		LogoFile:        settings.LogoFile,
		WhatsappEnabled: settings.WhatsappEnabled,
		CallsEnabled:    settings.CallsEnabled,
	}

	body, err := json.Marshal(fiber.Map{"success": true, "data": snapshot})
	if err != nil {
		return err
	}
	cache.SetCached(c.Context(), cache.SettingsKey, body, settingsCacheTTL)

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// UpdateSettings replaces the settings from a multipart form. Toggle fields
// follow checkbox semantics (absent means disabled); the logo is replaced
// only when a valid new file is uploaded.
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	settings, err := loadSiteSettings(h.db)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(c.FormValue("site_title"))
	if title == "" {
		title = database.DefaultSiteTitle
	}

	settings.SiteTitle = title
	settings.WhatsappEnabled = formCheckbox(c.FormValue("whatsapp_enabled"))
	settings.CallsEnabled = formCheckbox(c.FormValue("calls_enabled"))

	logo, err := utils.SaveImage(c, "logo", h.cfg.LogoDir)
	if err != nil {
		return err
	}
	if logo != "" {
		settings.LogoFile = logo
	}

	if err := h.db.Save(&settings).Error; err != nil {
		return err
	}

	cache.InvalidateKeys(c.Context(), cache.SettingsKey)

	return c.JSON(fiber.Map{"success": true, "data": settings})
}

// loadSiteSettings returns the singleton settings row, creating it with
// defaults when missing.
func loadSiteSettings(db *gorm.DB) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := db.Order("id asc").First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = models.SiteSettings{
			SiteTitle:       database.DefaultSiteTitle,
			LogoFile:        "logo.png",
			WhatsappEnabled: true,
			CallsEnabled:    true,
		}
		if err := db.Create(&settings).Error; err != nil {
			return settings, err
		}
		return settings, nil
	}
	return settings, err
}
