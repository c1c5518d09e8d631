package research

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`

	Projects []Project `gorm:"foreignKey:OwnerID" json:"projects,omitempty"`
}

func (User) TableName() string { return "users" }
