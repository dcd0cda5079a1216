package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+971501234567", "+971501234567"},
		{"971501234567", "+971501234567"},
		{"00971501234567", "+971501234567"},
		{"+971 50 123 4567", "+971501234567"},
		{"+971-50-123-4567", "+971501234567"},
		{"(971) 50 123 4567", "+971501234567"},
	}

	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestNormalizePhoneRejectsInvalid(t *testing.T) {
	for _, bad := range []string{"", "12345", "1234567890123456", "+971abc1234", "++971501234567"} {
		_, err := NormalizePhone(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestGenerateOTPCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := GenerateOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 50 draws from a million values colliding down to 1 would mean a
	// broken generator.
	assert.Greater(t, len(seen), 1)
}
