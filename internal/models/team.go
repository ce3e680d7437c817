package models

import "time"

// FallbackColor is returned whenever a team lookup cannot produce a color.
const FallbackColor = "#145C7E"

// Team is a named group with a display color. The event store owns teams;
// the remote table service only references their ids.
type Team struct {
	ID         string    `gorm:"primary_key" json:"id"`
	Name       string    `json:"name"`
	ColorHex   string    `gorm:"column:color_hex" json:"colorHex"`
	Department string    `json:"department"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"-"`
}

func (Team) TableName() string {
	return "teams"
}
