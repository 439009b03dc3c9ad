package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/spectech/internal/models"
)

// CatalogHandler manages the brand and category reference tables. Both are
// add-only: listings hold nullable FKs, so without deletion there is no
// orphan handling to worry about.
type CatalogHandler struct {
	db *gorm.DB
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

// ListBrands returns all brands ordered by name, for filter dropdowns.
func (h *CatalogHandler) ListBrands(c *fiber.Ctx) error {
	var brands []models.Brand
	if err := h.db.Order("name asc").Find(&brands).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": brands})
}

// ListCategories returns all categories ordered by name.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := h.db.Order("name asc").Find(&categories).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": categories})
}

type nameRequest struct {
	Name string `json:"name"`
}

// CreateBrand adds a brand. Adding an existing name is a no-op returning the
// existing row.
func (h *CatalogHandler) CreateBrand(c *fiber.Ctx) error {
	var brand models.Brand
	return h.createNamed(c, &brand, func(name string) { brand.Name = name })
}

// CreateCategory adds a category, same semantics as CreateBrand.
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var category models.Category
	return h.createNamed(c, &category, func(name string) { category.Name = name })
}

func (h *CatalogHandler) createNamed(c *fiber.Ctx, model interface{}, setName func(string)) error {
	var req nameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	setName(name)
	if err := h.db.Where("name = ?", name).FirstOrCreate(model).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": model})
}

// RenameBrand updates a brand name.
func (h *CatalogHandler) RenameBrand(c *fiber.Ctx) error {
	var brand models.Brand
	return h.renameNamed(c, &brand)
}

// RenameCategory updates a category name.
func (h *CatalogHandler) RenameCategory(c *fiber.Ctx) error {
	var category models.Category
	return h.renameNamed(c, &category)
}

func (h *CatalogHandler) renameNamed(c *fiber.Ctx, model interface{}) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.db.First(model, "id = ?", uint(id)).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "resource not found")
		}
		return err
	}

	var req nameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	if err := h.db.Model(model).Update("name", name).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": model})
}
