package models

// Company is the tenant boundary. Every candidate, test, question and course
// belongs to exactly one company.
type Company struct {
	BaseModel
	Name     string `gorm:"not null" json:"name"`
	Slug     string `gorm:"uniqueIndex;not null" json:"slug"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Users      []User      `gorm:"foreignKey:CompanyID" json:"-"`
	Candidates []Candidate `gorm:"foreignKey:CompanyID" json:"-"`
}
