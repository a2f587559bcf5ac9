package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinor(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"50", 5000},
		{"50.5", 5050},
		{"0.01", 1},
		{"-5", -500},
		{"0", 0},
	}
	for _, c := range cases {
		d, err := decimal.NewFromString(c.in)
		require.NoError(t, err)
		got, err := ToMinor(d)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "input %s", c.in)
	}
}

func TestToMinorRejectsExcessPrecision(t *testing.T) {
	d, err := decimal.NewFromString("10.005")
	require.NoError(t, err)
	_, err = ToMinor(d)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestFromMinor(t *testing.T) {
	assert.Equal(t, "50", FromMinor(5000).String())
	assert.Equal(t, "30.5", FromMinor(3050).String())
	assert.Equal(t, "0.01", FromMinor(1).String())
}
