package quote

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$ 0"},
		{"800", "$ 800"},
		{"4400", "$ 4.400"},
		{"5200", "$ 5.200"},
		{"1234567", "$ 1.234.567"},
		{"1234.5", "$ 1.234,50"},
		{"99.99", "$ 99,99"},
		{"101.5", "$ 101,50"},
		{"1000.004", "$ 1.000"},
		{"-4400", "$ -4.400"},
	}

	for _, tt := range tests {
		got := FormatAmount(decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, got, "input %s", tt.in)
	}
}
