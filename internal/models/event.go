package models

import "time"

// Event is the event-store document for one scheduled job. Schedule fields
// (title, start, team) may originate from the remote table service; the
// workflow fields are owned by this representation.
type Event struct {
	ID             string     `gorm:"primary_key" json:"id"`
	Title          string     `json:"title"`
	StartDate      string     `gorm:"column:start_date" json:"start"`
	Color          string     `json:"color"`
	TeamID         string     `gorm:"column:team_id" json:"teamId"`
	ParentJobID    string     `gorm:"column:parent_job_id" json:"parentJobId"`
	Sent           bool       `json:"sent"`
	Done           bool       `json:"done"`
	HandedOff      bool       `gorm:"column:handed_off" json:"handedOff"`
	Detail         string     `json:"detail"`
	SecurityFilter StringList `gorm:"type:jsonb" json:"securityFilter"`
	AssignedUsers  StringList `gorm:"type:jsonb" json:"assignedUsers"`
	UpdatedAt      time.Time  `gorm:"not null;default:now()" json:"-"`
}

func (Event) TableName() string {
	return "events"
}
