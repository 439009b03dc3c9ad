package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/spectech/internal/config"
	"github.com/example/spectech/internal/database"
	"github.com/example/spectech/internal/models"
	"github.com/example/spectech/internal/routes"
	"github.com/example/spectech/internal/utils"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenExpires:  time.Hour,
		AdminLogin:    "admin",
		AdminPassword: "admin123",
		UploadDir:     filepath.Join(dir, "uploads"),
		BannerDir:     filepath.Join(dir, "banners"),
		LogoDir:       filepath.Join(dir, "logo"),
		OTPOutboxFile: filepath.Join(dir, "last_otp.txt"),
	}

	app := fiber.New()
	routes.Register(app, db, cfg)

	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, phone, whatsapp string) models.User {
	t.Helper()
	user := models.User{Phone: phone, Name: "Seller " + phone, Whatsapp: whatsapp, IsVerified: true}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func userToken(t *testing.T, cfg *config.Config, userID uint) string {
	t.Helper()
	token, err := utils.GenerateUserToken(cfg.JWTSecret, userID, cfg.TokenExpires)
	if err != nil {
		t.Fatalf("generate user token: %v", err)
	}
	return token
}

func adminToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := utils.GenerateAdminToken(cfg.JWTSecret, cfg.TokenExpires)
	if err != nil {
		t.Fatalf("generate admin token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// formFile attaches file content under the given multipart field and filename.
type formFile struct {
	field    string
	filename string
	content  []byte
}

func doForm(t *testing.T, app *fiber.App, method, path string, fields map[string]string, file *formFile, token string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if file != nil {
		part, err := writer.CreateFormFile(file.field, file.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(file.content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

// lastSentCode reads the most recent code from the demo SMS outbox file.
func lastSentCode(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read outbox: %v", err)
	}

	fields := strings.Fields(string(data))
	// "[DEMO SMS] Code <code> for <phone>"
	if len(fields) < 4 {
		t.Fatalf("unexpected outbox content: %q", string(data))
	}
	return fields[3]
}
