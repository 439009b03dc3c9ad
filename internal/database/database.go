package database

import (
	"database/sql"
	"log"
	"net/url"
	"strings"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/spectech/internal/models"
)

var db *gorm.DB

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) *gorm.DB {
	if db != nil {
		return db
	}

	if err := ensureDatabase(dsn); err != nil {
		log.Fatalf("failed to ensure database: %v", err)
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	if err := Seed(conn); err != nil {
		log.Fatalf("database seeding failed: %v", err)
	}

	db = conn
	return db
}

// DB exposes the initialized gorm.DB instance.
func DB() *gorm.DB {
	return db
}

// Migrate applies the schema for all models.
func Migrate(conn *gorm.DB) error {
	migrations := []interface{}{
		&models.User{},
		&models.OTPCode{},
		&models.Category{},
		&models.Brand{},
		&models.Listing{},
		&models.Banner{},
		&models.SiteSettings{},
	}

	for _, migration := range migrations {
		if err := conn.AutoMigrate(migration); err != nil {
			return err
		}
	}

	return nil
}

const DefaultSiteTitle = "SpecTech"

var (
	seedBrands     = []string{"Shacman", "Howo", "Sinotruk", "XCMG", "Foton", "DongFeng"}
	seedCategories = []string{"Chassis", "Lift", "Seat", "Engine", "Brakes"}
)

// Seed inserts default settings, reference data and demo content. Reference
// rows use name-keyed upserts; demo users and listings are created only when
// the corresponding tables are empty.
func Seed(conn *gorm.DB) error {
	var settingsCount int64
	if err := conn.Model(&models.SiteSettings{}).Count(&settingsCount).Error; err != nil {
		return err
	}
	if settingsCount == 0 {
		settings := models.SiteSettings{
			SiteTitle:       DefaultSiteTitle,
			LogoFile:        "logo.png",
			WhatsappEnabled: true,
			CallsEnabled:    true,
		}
		if err := conn.Create(&settings).Error; err != nil {
			return err
		}
	}

	for _, name := range seedCategories {
		category := models.Category{Name: name}
		if err := conn.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
			return err
		}
	}
	for _, name := range seedBrands {
		brand := models.Brand{Name: name}
		if err := conn.Where("name = ?", name).FirstOrCreate(&brand).Error; err != nil {
			return err
		}
	}

	var userCount int64
	if err := conn.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		admin := models.User{
			Phone:      "+992900000000",
			Name:       "Admin",
			Whatsapp:   "+992900000000",
			IsVerified: true,
			IsAdmin:    true,
		}
		seller := models.User{
			Phone:      "+992911111111",
			Name:       "Seller",
			Whatsapp:   "+992911111111",
			IsVerified: true,
		}
		if err := conn.Create(&admin).Error; err != nil {
			return err
		}
		if err := conn.Create(&seller).Error; err != nil {
			return err
		}
	}

	var listingCount int64
	if err := conn.Model(&models.Listing{}).Count(&listingCount).Error; err != nil {
		return err
	}
	if listingCount == 0 {
		if err := seedListings(conn); err != nil {
			return err
		}
		for _, pos := range []string{models.BannerTop, models.BannerBottom} {
			banner := models.Banner{Position: pos, Enabled: true, Image: pos + "_demo.png", URL: "https://example.com"}
			if err := conn.Create(&banner).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedListings(conn *gorm.DB) error {
	var seller models.User
	if err := conn.Where("phone = ?", "+992911111111").First(&seller).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	brandID := func(name string) *uint {
		var brand models.Brand
		if err := conn.Where("name = ?", name).First(&brand).Error; err != nil {
			return nil
		}
		return &brand.ID
	}
	categoryID := func(name string) *uint {
		var category models.Category
		if err := conn.Where("name = ?", name).First(&category).Error; err != nil {
			return nil
		}
		return &category.ID
	}

	demo := []models.Listing{
		{
			Title:       "Shacman F3000 headlight",
			Description: "Original part, 6 month warranty.",
			BrandID:     brandID("Shacman"),
			CategoryID:  categoryID("Chassis"),
			Price:       1450,
			Image:       "sample1.png",
		},
		{
			Title:       "Howo brake pads",
			Description: "Set of 4.",
			BrandID:     brandID("Howo"),
			CategoryID:  categoryID("Brakes"),
			Price:       380,
			Image:       "sample2.png",
		},
		{
			Title:       "Sinotruk oil filter",
			Description: "High quality.",
			BrandID:     brandID("Sinotruk"),
			CategoryID:  categoryID("Engine"),
			Price:       120,
			Image:       "sample3.png",
		},
	}

	for i := range demo {
		demo[i].UserID = seller.ID
		demo[i].SellerPhone = seller.Phone
		demo[i].WhatsappEnabled = true
		demo[i].CallEnabled = true
		if err := conn.Create(&demo[i]).Error; err != nil {
			return err
		}
	}

	return nil
}

func ensureDatabase(dsn string) error {
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return err
	}

	dbName := strings.TrimPrefix(parsed.Path, "/")
	if dbName == "" {
		return nil
	}

	parsed.Path = "/postgres"
	masterDSN := parsed.String()

	sqlDB, err := sql.Open("postgres", masterDSN)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return err
	}

	var exists bool
	if err := sqlDB.QueryRow("SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", dbName).Scan(&exists); err != nil {
		return err
	}

	if exists {
		return nil
	}

	_, err = sqlDB.Exec("CREATE DATABASE " + pq.QuoteIdentifier(dbName))
	return err
}
