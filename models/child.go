package models

import "time"

// Child represents a child account owned by a parent user. A child exists
// only as long as its parent references it; deleting the child cascades to
// its goals, transactions, portfolio and directive.
type Child struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ParentID    uint `gorm:"index;not null"`
	Parent      User `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name        string `gorm:"size:255;not null"`
	DateOfBirth *time.Time
	PhotoURL    string `gorm:"size:512"`
}
