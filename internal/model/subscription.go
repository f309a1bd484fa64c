package model

import "time"

// PushSubscription holds one browser/device push registration.
//
// The endpoint is the provider-assigned URL identifying the device and is
// globally unique; a resubscribe for the same endpoint overwrites the row
// (keys, owner, active flag) instead of creating a duplicate.
type PushSubscription struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"index;not null" json:"userId"`
	Endpoint  string `gorm:"uniqueIndex;size:512;not null" json:"endpoint"`
	P256DH    string `gorm:"column:p256dh;not null" json:"p256dh"`
	Auth      string `gorm:"not null" json:"auth"`
	UserAgent string `gorm:"size:512" json:"userAgent,omitempty"`
	Active    bool   `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
