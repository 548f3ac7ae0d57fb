package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Pasta Carbonara!", "pasta-carbonara"},
		{"  Mom's   Best -- Chili  ", "mom-s-best-chili"},
		{"Crème Brûlée", "cr-me-br-l-e"},
		{"100% Rye", "100-rye"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
