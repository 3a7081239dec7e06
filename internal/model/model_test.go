package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vivendi/backend/internal/model"
)

func TestMonthIndexOf(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2025, 1, 24300},
		{2025, 12, 24311},
		{2024, 12, 24299}, // December is contiguous with the next January
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, model.MonthIndexOf(tt.year, tt.month))
	}
}
