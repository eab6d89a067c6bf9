package repositories

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrRecordNotFound))
	assert.True(t, IsNotFoundError(gorm.ErrRecordNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("failed to get test: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFoundError(ErrNoRowsAffected))
	assert.False(t, IsNotFoundError(nil))
}
