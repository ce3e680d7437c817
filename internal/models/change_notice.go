package models

import (
	"time"

	"github.com/google/uuid"
)

// ChangeNotice statuses. A notice is mutated exactly once after creation,
// to done or error, and is never deleted (the log doubles as an audit trail).
const (
	NoticeWaiting = "waiting"
	NoticeDone    = "done"
	NoticeError   = "error"
)

// ChangeNotice is one reported external change, appended on webhook receipt.
type ChangeNotice struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RowID       string    `gorm:"not null" json:"row_id"`
	Status      string    `gorm:"not null;default:'waiting'" json:"status"`
	ErrorDetail *string   `json:"error_detail"`
	EnqueuedAt  time.Time `gorm:"not null;default:now()" json:"enqueued_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ChangeNotice) TableName() string {
	return "change_notices"
}

// TriggerMessage is the message published to the relay queue after a notice
// is appended.
type TriggerMessage struct {
	NoticeID string `json:"notice_id"`
}
