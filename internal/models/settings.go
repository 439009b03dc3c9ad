package models

// SiteSettings stores site-wide configuration managed via the admin panel.
// There should be only one row (singleton pattern). The feature toggles gate
// the per-listing contact toggles globally.
type SiteSettings struct {
	BaseModel
	SiteTitle       string `json:"site_title"`
	LogoFile        string `json:"logo_file"`
	WhatsappEnabled bool   `json:"whatsapp_enabled"`
	CallsEnabled    bool   `json:"calls_enabled"`
}
