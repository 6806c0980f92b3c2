package repository

import "gorm.io/gorm"

// conn returns tx when the caller is inside a unit of work, db otherwise.
// Every *Tx-capable method routes through it so reads and writes of one
// operation share the same transaction.
func conn(db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
