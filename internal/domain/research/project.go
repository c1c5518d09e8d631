package research

import "time"

// Project is read-only for every query path; rows are created by seeding.
type Project struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"index;not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	OwnerID     int64     `gorm:"index;column:owner_id" json:"owner_id"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Owner       *User        `gorm:"foreignKey:OwnerID" json:"-"`
	Experiments []Experiment `gorm:"foreignKey:ProjectID" json:"experiments,omitempty"`
}

func (Project) TableName() string { return "projects" }
