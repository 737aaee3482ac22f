package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeUntilNextSync(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"before today's run", time.Date(2026, 2, 4, 5, 30, 0, 0, loc), 30 * time.Minute},                    // Wed
		{"after today's run", time.Date(2026, 2, 4, 7, 0, 0, 0, loc), 23 * time.Hour},                         // Wed -> Thu
		{"exactly at run time", time.Date(2026, 2, 4, 6, 0, 0, 0, loc), 24 * time.Hour},                      // Wed -> Thu
		{"friday evening skips weekend", time.Date(2026, 2, 6, 18, 0, 0, 0, loc), 2*24*time.Hour + 12*time.Hour}, // Fri -> Mon
		{"saturday", time.Date(2026, 2, 7, 3, 0, 0, 0, loc), 2*24*time.Hour + 3*time.Hour},                     // Sat -> Mon
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TimeUntilNextSync(tt.now, loc, 6, 0))
		})
	}
}

func TestTimeUntilNextSync_AlwaysPositive(t *testing.T) {
	t.Parallel()

	for i := 0; i < 48; i++ {
		now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
		d := TimeUntilNextSync(now, time.UTC, 6, 0)
		assert.Positive(t, d)
		assert.LessOrEqual(t, d, 3*24*time.Hour)
	}
}
