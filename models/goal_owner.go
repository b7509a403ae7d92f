package models

import "time"

// GoalOwner links a goal to the user that owns it and, optionally, to the
// child the goal saves for. At most one association exists per child, so
// re-creating a goal for a child updates the goal behind the existing row
// instead of inserting a duplicate.
type GoalOwner struct {
	GoalID    uint  `gorm:"primaryKey;autoIncrement:false"`
	OwnerID   uint  `gorm:"primaryKey;autoIncrement:false"`
	ChildID   *uint `gorm:"uniqueIndex"`
	CreatedAt time.Time
}
