package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"3.6", "3.60"},
		{"21.4", "21.40"},
		{"999.99", "999.99"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-1234.5", "-1,234.50"},
	}

	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.in)
		assert.NoError(t, err)
		assert.Equal(t, tc.want, FormatAmount(d), "input %s", tc.in)
	}
}
