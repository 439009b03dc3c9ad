package models

// Listing is a seller-submitted product record. SellerPhone is kept separate
// from the owner's account phone so a listing can advertise a different
// contact number.
type Listing struct {
	BaseModel
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BrandID         *uint     `gorm:"index" json:"brand_id"`
	Brand           *Brand    `json:"brand,omitempty"`
	CategoryID      *uint     `gorm:"index" json:"category_id"`
	Category        *Category `json:"category,omitempty"`
	Price           float64   `json:"price"`
	Image           string    `json:"image"`
	UserID          uint      `gorm:"index" json:"user_id"`
	User            *User     `json:"user,omitempty"`
	SellerPhone     string    `json:"seller_phone"`
	WhatsappEnabled bool      `json:"whatsapp_enabled"`
	CallEnabled     bool      `json:"call_enabled"`
}
