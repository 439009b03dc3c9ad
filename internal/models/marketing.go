package models

// Banner positions. Only these two slots are rendered; the column itself is
// unconstrained so stray rows are tolerated and simply never read.
const (
	BannerTop    = "top"
	BannerBottom = "bottom"
)

type Banner struct {
	BaseModel
	Position string `gorm:"index" json:"position"`
	Enabled  bool   `json:"enabled"`
	Image    string `json:"image"`
	URL      string `json:"url"`
}
