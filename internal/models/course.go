package models

// Course is the training-side container. Modules and lessons are ordered the
// same way test stages are: dense sort_order, repaired on read.
type Course struct {
	BaseModel
	CompanyID   string `gorm:"type:uuid;not null;index" json:"company_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	IsPublished bool   `gorm:"default:false" json:"is_published"`

	Modules []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

type Module struct {
	BaseModel
	CourseID  string `gorm:"type:uuid;not null;index" json:"course_id"`
	Title     string `gorm:"not null" json:"title"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

type Lesson struct {
	BaseModel
	ModuleID  string `gorm:"type:uuid;not null;index" json:"module_id"`
	Title     string `gorm:"not null" json:"title"`
	Content   string `gorm:"type:text" json:"content"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}
