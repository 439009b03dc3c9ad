package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/models"
	"github.com/example/spectech/internal/utils"
)

// MarketingHandler manages the two promotional banner slots.
type MarketingHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewMarketingHandler constructs MarketingHandler.
func NewMarketingHandler(db *gorm.DB, cfg *config.Config) *MarketingHandler {
	return &MarketingHandler{db: db, cfg: cfg}
}

// GetBanners returns the active row for each slot. Only the first row per
// position is ever read; stray duplicates are ignored.
func (h *MarketingHandler) GetBanners(c *fiber.Ctx) error {
	data := fiber.Map{}
	for _, pos := range []string{models.BannerTop, models.BannerBottom} {
		banner, err := h.firstBanner(pos)
		if err != nil {
			return err
		}
		data[pos] = banner
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// UpdateBanner upserts the banner for a position from a multipart form. The
// image is replaced only when a valid new file is supplied.
func (h *MarketingHandler) UpdateBanner(c *fiber.Ctx) error {
	position := strings.ToLower(c.Params("position"))
	if position != models.BannerTop && position != models.BannerBottom {
		return fiber.NewError(fiber.StatusBadRequest, "unknown banner position")
	}

	image, err := utils.SaveImage(c, "image", h.cfg.BannerDir)
	if err != nil {
		return err
	}

	banner, err := h.firstBanner(position)
	if err != nil {
		return err
	}
	if banner == nil {
		banner = &models.Banner{Position: position}
	}

	banner.Enabled = formCheckbox(c.FormValue("enabled"))
	banner.URL = strings.TrimSpace(c.FormValue("url"))
	if image != "" {
		banner.Image = image
	}

	if err := h.db.Save(banner).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": banner})
}

func (h *MarketingHandler) firstBanner(position string) (*models.Banner, error) {
	var banner models.Banner
	err := h.db.Where("position = ?", position).Order("id asc").First(&banner).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &banner, nil
}
