package timing

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestParseLapTime(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"01:23.405", 83405, true},
		{"1:23.405", 83405, true},
		{"1:23.4", 83400, true},
		{"1:23.40567", 83405, true},
		{"01:23", 83000, true},
		{" 00:59.999 ", 59999, true},
		{"", 0, false},
		{"83.405", 0, false},
		{"1:75.000", 0, false},
		{"a:23.405", 0, false},
		{"1:23.", 0, false},
		{"-1:23.405", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLapTime(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStopDuration(t *testing.T) {
	got, ok := ParseStopDuration("22.523")
	assert.True(t, ok)
	assert.Equal(t, 22523, got)

	got, ok = ParseStopDuration("16:44.718")
	assert.True(t, ok)
	assert.Equal(t, 1_004_718, got)

	_, ok = ParseStopDuration("")
	assert.False(t, ok)
	_, ok = ParseStopDuration("fast")
	assert.False(t, ok)
}

func TestFormatMillis(t *testing.T) {
	assert.Equal(t, "01:23.405", FormatMillis(83405))
	assert.Equal(t, "00:00.000", FormatMillis(0))
	assert.Equal(t, "00:23.312", FormatMillis(23312))
	assert.Equal(t, "125:00.001", FormatMillis(7_500_001))
}

func TestFormatMillisString(t *testing.T) {
	got, ok := FormatMillisString("23312")
	assert.True(t, ok)
	assert.Equal(t, "00:23.312", got)

	_, ok = FormatMillisString("22.5")
	assert.False(t, ok)
	_, ok = FormatMillisString("")
	assert.False(t, ok)
}

func TestFormatParseRoundTrip(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	properties.Property("parse(format(ms)) == ms", prop.ForAll(
		func(ms int) bool {
			got, ok := ParseLapTime(FormatMillis(ms))
			return ok && got == ms
		},
		gen.IntRange(0, 10_000_000),
	))

	properties.TestingRun(t)
}
