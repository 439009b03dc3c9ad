package models

type Category struct {
	BaseModel
	Name     string    `gorm:"uniqueIndex" json:"name"`
	Listings []Listing `json:"listings,omitempty"`
}

type Brand struct {
	BaseModel
	Name     string    `gorm:"uniqueIndex" json:"name"`
	Listings []Listing `json:"listings,omitempty"`
}
