package research

import "time"

// Experiment is the join key into the document store. Documents reference it
// by experiment_id with no cross-store constraint.
type Experiment struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"index;not null;column:name" json:"name"`
	Description string    `gorm:"type:text;column:description" json:"description"`
	ProjectID   int64     `gorm:"index;not null;column:project_id" json:"project_id"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

func (Experiment) TableName() string { return "experiments" }
