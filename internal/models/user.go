package models

import "time"

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      *string   `json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"-"`
}
