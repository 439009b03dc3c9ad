package handlers_test

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/example/spectech/internal/models"
)

func seedListing(t *testing.T, db *gorm.DB, owner models.User, title, description string) models.Listing {
	t.Helper()
	listing := models.Listing{
		Title:       title,
		Description: description,
		Price:       100,
		Image:       "seed.png",
		UserID:      owner.ID,
		SellerPhone: owner.Phone,
	}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("seed listing: %v", err)
	}
	return listing
}

func listingIDs(t *testing.T, payload map[string]interface{}) []uint {
	t.Helper()
	rows, ok := payload["data"].([]interface{})
	if !ok {
		t.Fatalf("unexpected data shape: %#v", payload["data"])
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		entry := row.(map[string]interface{})
		ids = append(ids, uint(entry["id"].(float64)))
	}
	return ids
}

func TestListListingsFreeTextFilter(t *testing.T) {
	app, db, _ := setupApp(t)
	owner := createUser(t, db, "+992910000001", "")

	inTitle := seedListing(t, db, owner, "Shacman F3000 headlight", "original part")
	inDescription := seedListing(t, db, owner, "Brake pads", "fits Shacman trucks")
	seedListing(t, db, owner, "Howo mirror", "left side")

	resp := doJSON(t, app, http.MethodGet, "/api/listings?q=Shacman", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	ids := listingIDs(t, decodeBody(t, resp))
	want := []uint{inDescription.ID, inTitle.ID} // newest first
	if len(ids) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}
}

func TestListListingsConjunctiveFilters(t *testing.T) {
	app, db, _ := setupApp(t)
	owner := createUser(t, db, "+992910000002", "")

	brand := models.Brand{Name: "Shacman"}
	other := models.Brand{Name: "Howo"}
	category := models.Category{Name: "Brakes"}
	for _, m := range []interface{}{&brand, &other, &category} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed reference: %v", err)
		}
	}

	match := seedListing(t, db, owner, "Pads", "")
	db.Model(&match).Updates(map[string]interface{}{"brand_id": brand.ID, "category_id": category.ID})

	wrongBrand := seedListing(t, db, owner, "Pads", "")
	db.Model(&wrongBrand).Updates(map[string]interface{}{"brand_id": other.ID, "category_id": category.ID})

	path := fmt.Sprintf("/api/listings?brand_id=%d&category_id=%d", brand.ID, category.ID)
	ids := listingIDs(t, decodeBody(t, doJSON(t, app, http.MethodGet, path, nil, "")))
	if len(ids) != 1 || ids[0] != match.ID {
		t.Fatalf("expected only listing %d, got %v", match.ID, ids)
	}
}

func TestCreateListingEmptyTitle(t *testing.T) {
	app, db, cfg := setupApp(t)
	owner := createUser(t, db, "+992910000003", "")
	token := userToken(t, cfg, owner.ID)

	resp := doForm(t, app, http.MethodPost, "/api/listings", map[string]string{"title": "   "}, nil, token)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Listing{}).Count(&count)
	if count != 0 {
		t.Fatalf("no row must be persisted, found %d", count)
	}
}

func TestCreateListingTolerantDefaults(t *testing.T) {
	app, db, cfg := setupApp(t)
	owner := createUser(t, db, "+992910000004", "")
	token := userToken(t, cfg, owner.ID)

	resp := doForm(t, app, http.MethodPost, "/api/listings", map[string]string{
		"title": "Oil filter",
		"price": "not-a-number",
	}, nil, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var listing models.Listing
	if err := db.First(&listing).Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	if listing.Price != 0 {
		t.Fatalf("unparsable price must coerce to 0, got %v", listing.Price)
	}
	if listing.Image != "placeholder.png" {
		t.Fatalf("missing upload must substitute placeholder, got %q", listing.Image)
	}
	if listing.WhatsappEnabled || listing.CallEnabled {
		t.Fatal("absent checkboxes must store disabled toggles")
	}
	if listing.UserID != owner.ID {
		t.Fatalf("owner must be the caller, got %d", listing.UserID)
	}
}

func TestCreateListingStoresValidImage(t *testing.T) {
	app, db, cfg := setupApp(t)
	owner := createUser(t, db, "+992910000005", "")
	token := userToken(t, cfg, owner.ID)

	file := &formFile{field: "image", filename: "photo.PNG", content: []byte("fake png bytes")}
	resp := doForm(t, app, http.MethodPost, "/api/listings", map[string]string{
		"title":            "Headlight",
		"price":            "1450",
		"whatsapp_enabled": "on",
	}, file, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var listing models.Listing
	if err := db.First(&listing).Error; err != nil {
		t.Fatalf("load listing: %v", err)
	}
	if !strings.HasSuffix(listing.Image, ".png") {
		t.Fatalf("stored name must keep extension, got %q", listing.Image)
	}
	if listing.Image == "photo.PNG" {
		t.Fatal("stored name must not reuse the original filename")
	}
	if _, err := os.Stat(filepath.Join(cfg.UploadDir, listing.Image)); err != nil {
		t.Fatalf("uploaded file missing on disk: %v", err)
	}
	if !listing.WhatsappEnabled {
		t.Fatal("checked checkbox must enable toggle")
	}
	if listing.Price != 1450 {
		t.Fatalf("expected price 1450, got %v", listing.Price)
	}
}

func TestUpdateListingImageSemantics(t *testing.T) {
	app, db, cfg := setupApp(t)
	owner := createUser(t, db, "+992910000006", "")
	token := userToken(t, cfg, owner.ID)
	listing := seedListing(t, db, owner, "Mirror", "left side")
	path := fmt.Sprintf("/api/listings/%d", listing.ID)

	// No new file: previous image retained.
	resp := doForm(t, app, http.MethodPut, path, map[string]string{"title": "Mirror v2"}, nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var updated models.Listing
	db.First(&updated, listing.ID)
	if updated.Image != "seed.png" {
		t.Fatalf("image must be retained, got %q", updated.Image)
	}
	if updated.Title != "Mirror v2" {
		t.Fatalf("title must be overwritten, got %q", updated.Title)
	}

	// Disallowed extension: silently ignored, previous image retained.
	bad := &formFile{field: "image", filename: "anim.gif", content: []byte("gif")}
	doForm(t, app, http.MethodPut, path, map[string]string{"title": "Mirror v3"}, bad, token)
	db.First(&updated, listing.ID)
	if updated.Image != "seed.png" {
		t.Fatalf("rejected upload must keep prior image, got %q", updated.Image)
	}

	// Valid file: replaced.
	good := &formFile{field: "image", filename: "new.jpg", content: []byte("jpg")}
	doForm(t, app, http.MethodPut, path, map[string]string{"title": "Mirror v4"}, good, token)
	db.First(&updated, listing.ID)
	if updated.Image == "seed.png" || !strings.HasSuffix(updated.Image, ".jpg") {
		t.Fatalf("valid upload must replace image, got %q", updated.Image)
	}
}

func TestListingMutationAuthorization(t *testing.T) {
	app, db, cfg := setupApp(t)
	owner := createUser(t, db, "+992910000007", "")
	stranger := createUser(t, db, "+992910000008", "")
	listing := seedListing(t, db, owner, "Filter", "")
	path := fmt.Sprintf("/api/listings/%d", listing.ID)

	strangerTok := userToken(t, cfg, stranger.ID)
	if resp := doForm(t, app, http.MethodPut, path, map[string]string{"title": "Hijack"}, nil, strangerTok); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner update must be 403, got %d", resp.StatusCode)
	}
	if resp := doJSON(t, app, http.MethodDelete, path, nil, strangerTok); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner delete must be 403, got %d", resp.StatusCode)
	}

	if resp := doForm(t, app, http.MethodPut, path, map[string]string{"title": "Hijack"}, nil, ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous update must be 401, got %d", resp.StatusCode)
	}

	ownerTok := userToken(t, cfg, owner.ID)
	if resp := doForm(t, app, http.MethodPut, path, map[string]string{"title": "Renamed"}, nil, ownerTok); resp.StatusCode != http.StatusOK {
		t.Fatalf("owner update must succeed, got %d", resp.StatusCode)
	}

	adminTok := adminToken(t, cfg)
	if resp := doJSON(t, app, http.MethodDelete, path, nil, adminTok); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("admin delete must succeed, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Listing{}).Where("id = ?", listing.ID).Count(&count)
	if count != 0 {
		t.Fatal("listing must be gone after delete")
	}
}

func TestGetListingNotFound(t *testing.T) {
	app, _, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/listings/9999", nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestContactVisibilityTruthTable(t *testing.T) {
	app, db, _ := setupApp(t)

	for i := 0; i < 8; i++ {
		globalOn := i&1 != 0
		listingOn := i&2 != 0
		hasWhatsapp := i&4 != 0

		name := fmt.Sprintf("global=%v listing=%v value=%v", globalOn, listingOn, hasWhatsapp)
		t.Run(name, func(t *testing.T) {
			whatsapp := ""
			if hasWhatsapp {
				whatsapp = "+99290000" + fmt.Sprint(1000+i)
			}
			owner := createUser(t, db, fmt.Sprintf("+99292000%04d", i), whatsapp)
			listing := seedListing(t, db, owner, "Part "+name, "")
			db.Model(&listing).Update("whatsapp_enabled", listingOn)

			if err := db.Exec("DELETE FROM site_settings").Error; err != nil {
				t.Fatalf("reset settings: %v", err)
			}
			row := models.SiteSettings{SiteTitle: "T", LogoFile: "logo.png", WhatsappEnabled: globalOn, CallsEnabled: true}
			if err := db.Create(&row).Error; err != nil {
				t.Fatalf("seed settings: %v", err)
			}

			payload := decodeBody(t, doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/listings/%d", listing.ID), nil, ""))
			contact := payload["contact"].(map[string]interface{})
			visible := contact["whatsapp_visible"].(bool)

			want := globalOn && listingOn && hasWhatsapp
			if visible != want {
				t.Fatalf("whatsapp_visible = %v, want %v", visible, want)
			}
		})
	}
}

func TestCallVisibilityRequiresSellerPhone(t *testing.T) {
	app, db, _ := setupApp(t)
	owner := createUser(t, db, "+992930000001", "")

	listing := seedListing(t, db, owner, "Pump", "")
	db.Model(&listing).Updates(map[string]interface{}{"call_enabled": true, "seller_phone": ""})

	payload := decodeBody(t, doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/listings/%d", listing.ID), nil, ""))
	contact := payload["contact"].(map[string]interface{})
	if contact["call_visible"].(bool) {
		t.Fatal("call channel must hide without a seller phone")
	}

	db.Model(&listing).Update("seller_phone", owner.Phone)
	payload = decodeBody(t, doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/listings/%d", listing.ID), nil, ""))
	contact = payload["contact"].(map[string]interface{})
	if !contact["call_visible"].(bool) {
		t.Fatal("call channel must show when all three conditions hold")
	}
}
