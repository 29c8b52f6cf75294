package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))

	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: bookings.booking_number (2067)")))
	assert.True(t, IsUniqueViolation(errors.New("Error 1062 (23000): Duplicate entry 'BK-1' for key 'bookings.idx_booking_number'")))
}

func TestConnectSQLite(t *testing.T) {
	db, err := Connect("file:connect_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		t.Fatalf("select: %v", err)
	}
	assert.Equal(t, 1, one)
}
