package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		period string
		want   time.Duration
	}{
		{period: "10s", want: 10 * time.Second},
		{period: "5m", want: 5 * time.Minute},
		{period: "1h22m", want: 82 * time.Minute},
		{period: "1h30m15s", want: time.Hour + 30*time.Minute + 15*time.Second},
		{period: "2d", want: 48 * time.Hour},
		{period: " 90s ", want: 90 * time.Second},
		{period: "106751d", want: 106751 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			got, err := ParsePeriod(tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePeriodInvalid(t *testing.T) {
	for _, period := range []string{
		"", "abc", "10", "10x", "5m later", "m5",
		"106752d",
		"9223372036854775807s",
		"99999999999999999999s",
		"2562047h2562047h",
		"106751d23h47m16s1s",
	} {
		t.Run(period, func(t *testing.T) {
			_, err := ParsePeriod(period)
			assert.Error(t, err)
		})
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("CHAOS_TEST_ENV", "value")
	assert.Equal(t, "value", Getenv("CHAOS_TEST_ENV", "default"))
	assert.Equal(t, "default", Getenv("CHAOS_TEST_ENV_UNSET", "default"))

	t.Setenv("CHAOS_TEST_INT", "7")
	assert.Equal(t, 7, GetenvInt("CHAOS_TEST_INT", 1))
	t.Setenv("CHAOS_TEST_INT", "seven")
	assert.Equal(t, 1, GetenvInt("CHAOS_TEST_INT", 1))
}
