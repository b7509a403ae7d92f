package models

import (
	"time"
)

// User model. A user is either a parent managing children or a child-role
// account linked to a single goal through a GoalOwner row.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time `gorm:"index"`
	Username       string     `gorm:"size:255;not null;unique"`
	HashedPassword []byte     `gorm:"not null" json:"-"`
	FullName       string     `gorm:"size:255"`
	Phone          string     `gorm:"size:64"`
	Children       []Child    `gorm:"foreignKey:ParentID" json:"-"`
	RoleID         *uint      `gorm:"index"`
	Role           Role       `gorm:"foreignKey:RoleID;references:ID" json:"-"`
}
