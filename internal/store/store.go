package store

import (
	"errors"

	"gorm.io/gorm"
)

// ErrMalformedSubscription is returned by Upsert when the subscription
// payload is missing its endpoint or key material.
var ErrMalformedSubscription = errors.New("malformed subscription: endpoint, p256dh and auth are required")

// Store defines the interface for all database operations.
type Store interface {
	SubscriptionRegistry
	NotificationStore
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}
