package person

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	today := time.Date(2026, 2, 11, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		birth string
		want  string
	}{
		{"exact birthday", "1990-02-11", "36y 0m"},
		{"day before birthday", "1990-02-12", "35y 11m"},
		{"compact form", "19900520", "35y 8m"},
		{"infant", "2025-12-01", "0y 2m"},
		{"born today", "2026-02-11", "0y 0m"},
		{"future birth clamps", "2026-03-01", "0y 0m"},
		{"empty", "", ""},
		{"garbage", "not a date", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birth, today))
		})
	}
}
