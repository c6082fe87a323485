package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Blue Nocturne", "blue-nocturne"},
		{"  Étude No. 3  ", "tude-no-3"},
		{"Mixed   Media / Canvas", "mixed-media-canvas"},
		{"---", ""},
		{"UPPER case", "upper-case"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestProductInStock(t *testing.T) {
	assert.True(t, Product{StockQuantity: 1}.InStock())
	assert.False(t, Product{StockQuantity: 0}.InStock())
}
