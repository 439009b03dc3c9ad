package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/middleware"
	"github.com/example/spectech/internal/models"
	"github.com/example/spectech/internal/services"
	"github.com/example/spectech/internal/utils"
)

// placeholderImage is substituted when a listing is created without a usable
// image upload.
const placeholderImage = "placeholder.png"

// ListingHandler manages the listing catalog and seller CRUD.
type ListingHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	telegram *services.TelegramService
}

// NewListingHandler constructs ListingHandler.
func NewListingHandler(db *gorm.DB, cfg *config.Config, telegram *services.TelegramService) *ListingHandler {
	return &ListingHandler{db: db, cfg: cfg, telegram: telegram}
}

// ListListings returns the filtered catalog, newest first. The free-text
// filter is a plain substring match against title or description; all filters
// are conjunctive. The full result set is returned in one response.
func (h *ListingHandler) ListListings(c *fiber.Ctx) error {
	query := h.db.Model(&models.Listing{})

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	if v := c.Query("brand_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			query = query.Where("brand_id = ?", uint(id))
		}
	}

	if v := c.Query("category_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			query = query.Where("category_id = ?", uint(id))
		}
	}

	var listings []models.Listing
	if err := query.Preload("Brand").Preload("Category").Preload("User").
		Order("id desc").
		Find(&listings).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    listings,
	})
}

// GetListing loads a listing with relations and the effective contact-channel
// visibility: a channel shows only when the site-wide toggle, the per-listing
// toggle and a non-empty contact value all line up.
func (h *ListingHandler) GetListing(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var listing models.Listing
	if err := h.db.Preload("Brand").Preload("Category").Preload("User").
		First(&listing, "id = ?", uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return err
	}

	settings, err := loadSiteSettings(h.db)
	if err != nil {
		return err
	}

	sellerWhatsapp := ""
	if listing.User != nil {
		sellerWhatsapp = listing.User.Whatsapp
	}

	whatsappVisible := settings.WhatsappEnabled && listing.WhatsappEnabled && sellerWhatsapp != ""
	callVisible := settings.CallsEnabled && listing.CallEnabled && listing.SellerPhone != ""

	return c.JSON(fiber.Map{
		"success": true,
		"data":    listing,
		"contact": fiber.Map{
			"whatsapp_visible": whatsappVisible,
			"whatsapp":         sellerWhatsapp,
			"call_visible":     callVisible,
			"phone":            listing.SellerPhone,
		},
	})
}

// CreateListing persists a listing owned by the caller. Submitted as a
// multipart form so the image rides along with the fields.
func (h *ListingHandler) CreateListing(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	image, err := utils.SaveImage(c, "image", h.cfg.UploadDir)
	if err != nil {
		return err
	}
	if image == "" {
		image = placeholderImage
	}

	listing := models.Listing{
		Title:           title,
		Description:     strings.TrimSpace(c.FormValue("description")),
		BrandID:         parseOptionalID(c.FormValue("brand_id")),
		CategoryID:      parseOptionalID(c.FormValue("category_id")),
		Price:           parsePrice(c.FormValue("price")),
		Image:           image,
		UserID:          userID,
		SellerPhone:     strings.TrimSpace(c.FormValue("seller_phone")),
		WhatsappEnabled: formCheckbox(c.FormValue("whatsapp_enabled")),
		CallEnabled:     formCheckbox(c.FormValue("call_enabled")),
	}

	if err := h.db.Create(&listing).Error; err != nil {
		return err
	}

	h.notifyNewListing(listing)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": listing})
}

// UpdateListing overwrites all listing fields from the submitted form. The
// image is the one exception: it is replaced only when a new valid file is
// supplied.
func (h *ListingHandler) UpdateListing(c *fiber.Ctx) error {
	listing, err := h.loadAuthorizedListing(c)
	if err != nil {
		return err
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	newImage, err := utils.SaveImage(c, "image", h.cfg.UploadDir)
	if err != nil {
		return err
	}
	if newImage != "" {
		listing.Image = newImage
	}

	listing.Title = title
	listing.Description = strings.TrimSpace(c.FormValue("description"))
	listing.BrandID = parseOptionalID(c.FormValue("brand_id"))
	listing.CategoryID = parseOptionalID(c.FormValue("category_id"))
	listing.Price = parsePrice(c.FormValue("price"))
	listing.SellerPhone = strings.TrimSpace(c.FormValue("seller_phone"))
	listing.WhatsappEnabled = formCheckbox(c.FormValue("whatsapp_enabled"))
	listing.CallEnabled = formCheckbox(c.FormValue("call_enabled"))

	if err := h.db.Save(&listing).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": listing})
}

// DeleteListing removes a listing. Allowed for the owner or an admin.
func (h *ListingHandler) DeleteListing(c *fiber.Ctx) error {
	listing, err := h.loadAuthorizedListing(c)
	if err != nil {
		return err
	}

	if err := h.db.Delete(&listing).Error; err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// loadAuthorizedListing fetches the listing and enforces the mutation policy:
// admin token, or user token matching the owning user.
func (h *ListingHandler) loadAuthorizedListing(c *fiber.Ctx) (models.Listing, error) {
	var listing models.Listing

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return listing, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.First(&listing, "id = ?", uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return listing, fiber.NewError(fiber.StatusNotFound, "listing not found")
		}
		return listing, err
	}

	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return listing, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	if !claims.IsAdmin() && claims.UserID != listing.UserID {
		return listing, fiber.NewError(fiber.StatusForbidden, "not allowed")
	}

	return listing, nil
}

func (h *ListingHandler) notifyNewListing(listing models.Listing) {
	if h.telegram == nil {
		return
	}

	notification := services.ListingNotification{
		ID:          listing.ID,
		Title:       listing.Title,
		Price:       listing.Price,
		SellerPhone: listing.SellerPhone,
	}

	var owner models.User
	if err := h.db.First(&owner, "id = ?", listing.UserID).Error; err == nil {
		notification.SellerName = owner.Name
	}
	if listing.BrandID != nil {
		var brand models.Brand
		if err := h.db.First(&brand, "id = ?", *listing.BrandID).Error; err == nil {
			notification.Brand = brand.Name
		}
	}
	if listing.CategoryID != nil {
		var category models.Category
		if err := h.db.First(&category, "id = ?", *listing.CategoryID).Error; err == nil {
			notification.Category = category.Name
		}
	}

	// Fire and forget; delivery failures are logged by the service.
	go func() {
		_ = h.telegram.NotifyNewListing(notification)
	}()
}

// parsePrice coerces form input to a non-negative price. Unparsable or
// negative input becomes zero rather than a validation failure.
func parsePrice(value string) float64 {
	price, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || price < 0 {
		return 0
	}
	return price
}

// parseOptionalID turns an optional numeric form field into a nullable FK.
func parseOptionalID(value string) *uint {
	parsed, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil || parsed == 0 {
		return nil
	}
	id := uint(parsed)
	return &id
}

// formCheckbox reports whether an HTML checkbox field was submitted checked.
// Absence means disabled, not unspecified.
func formCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "1", "true":
		return true
	}
	return false
}
