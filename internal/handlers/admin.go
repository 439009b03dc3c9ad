package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/models"
	"github.com/example/spectech/internal/utils"
)

// AdminHandler manages the fixed-credential admin session and the moderation
// endpoints behind it. The admin identity is configured, not a user row.
type AdminHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

type adminLoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login checks the configured admin credentials and issues an admin token.
// When ADMIN_PASSWORD_HASH is set the password is checked against the bcrypt
// hash; otherwise a constant-time plaintext comparison is used.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req adminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if !utils.CheckSecret(h.cfg.AdminLogin, req.Login) || !h.checkPassword(req.Password) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := utils.GenerateAdminToken(h.cfg.JWTSecret, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{"success": true, "token": token})
}

func (h *AdminHandler) checkPassword(password string) bool {
	if h.cfg.AdminPasswordHash != "" {
		return utils.CheckSecretHash(h.cfg.AdminPasswordHash, password)
	}
	return utils.CheckSecret(h.cfg.AdminPassword, password)
}

// DashboardStats returns aggregate counts for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	stats := fiber.Map{}
	counts := []struct {
		name  string
		model interface{}
	}{
		{"users", &models.User{}},
		{"listings", &models.Listing{}},
		{"brands", &models.Brand{}},
		{"categories", &models.Category{}},
		{"banners", &models.Banner{}},
	}

	for _, entry := range counts {
		var total int64
		if err := h.db.Model(entry.model).Count(&total).Error; err != nil {
			return err
		}
		stats[entry.name] = total
	}

	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// ListListings returns recent listings for moderation, paginated.
func (h *AdminHandler) ListListings(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Listing{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var listings []models.Listing
	if err := query.Preload("Brand").Preload("Category").Preload("User").
		Order("id desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&listings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    listings,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListUsers returns registered users with pagination and search.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR phone LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("id desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// BlockUser marks an account blocked; blocked accounts are refused login codes.
func (h *AdminHandler) BlockUser(c *fiber.Ctx) error {
	return h.setBlocked(c, true)
}

// UnblockUser clears the block flag.
func (h *AdminHandler) UnblockUser(c *fiber.Ctx) error {
	return h.setBlocked(c, false)
}

func (h *AdminHandler) setBlocked(c *fiber.Ctx, blocked bool) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := h.db.Model(&user).Update("is_blocked", blocked).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}
