package courses

import (
	"time"

	"github.com/skillsenselab/classboard/database"
)

// Course is a catalog entry students enroll into.
type Course struct {
	database.BaseModel
	Title       string  `gorm:"type:text;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Category    string  `gorm:"type:text;index" json:"category"`
	Classes     []Class `gorm:"constraint:OnDelete:CASCADE" json:"classes,omitempty"`
}

// TableName overrides GORM's default pluralization.
func (Course) TableName() string { return "courses" }

// Class is a scheduled session within a course.
type Class struct {
	database.BaseModel
	CourseID    string    `gorm:"type:text;index;not null" json:"course_id"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Instructor  string    `gorm:"type:text" json:"instructor"`
	ScheduledAt time.Time `json:"scheduled_at"`
	DurationMin int       `json:"duration_min"`
}

// TableName overrides GORM's default pluralization.
func (Class) TableName() string { return "classes" }
