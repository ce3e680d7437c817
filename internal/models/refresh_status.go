package models

import "time"

// RefreshStatus kinds.
const (
	RefreshNone   = "none"
	RefreshUpdate = "update"
)

// RefreshStatusKey is the fixed primary key of the singleton row. The
// migration seeds it and a CHECK constraint keeps any second row out.
const RefreshStatusKey = 1

// RefreshStatus is the single "there is unconsumed change" flag polled by
// clients. Every accepted webhook overwrites it (last write wins); the first
// successful poll after a set clears it back to none.
type RefreshStatus struct {
	ID        int16     `gorm:"primary_key" json:"-"`
	Kind      string    `gorm:"not null;default:'none'" json:"kind"`
	RowID     *string   `json:"rowId"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"-"`
}

func (RefreshStatus) TableName() string {
	return "refresh_status"
}
