// store is the persistence layer. One GormStore handle serves the five
// tables; it is constructed once in main and injected everywhere.
package store

import (
	"gorm.io/gorm"
)

type GormStore struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}
