package models

import "time"

// FundDirective records who should take guardianship of a child's fund and
// free-text instructions for it. Pure data, at most one row per child.
type FundDirective struct {
	ID              uint `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ChildID         uint   `gorm:"uniqueIndex;not null"`
	GuardianName    string `gorm:"size:255"`
	GuardianContact string `gorm:"size:255"`
	Instructions    string `gorm:"type:text"`
}
