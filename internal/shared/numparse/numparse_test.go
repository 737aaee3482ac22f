package numparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    *float64
		wantErr bool
	}{
		{"dollar price", "$189.84", Ptr(189.84), false},
		{"thousands", "1,234,567", Ptr(1234567.0), false},
		{"percent", "-0.35%", Ptr(-0.35), false},
		{"explicit plus", "+1.2", Ptr(1.2), false},
		{"padded", "  42 ", Ptr(42.0), false},
		{"empty", "", nil, false},
		{"NA", "NA", nil, false},
		{"double dash", "--", nil, false},
		{"garbage", "abc", nil, true},
		{"nan", "NaN", nil, true},
		{"inf", "Inf", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Float(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestDate(t *testing.T) {
	t.Parallel()

	got, err := Date("20060102", "20260206")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC), *got)

	got, err = Date("2006-01-02", "--")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = Date("20060102", "20261340")
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Scale(nil, 100))
	assert.InDelta(t, 1.5, *Scale(Ptr(0.015), 100), 1e-12)
}
