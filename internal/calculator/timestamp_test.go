package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	ref := time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		value    any
		wantKind TimestampKind
		want     time.Time
	}{
		{"time value", ref, FromTime, ref},
		{"time pointer", &ref, FromTime, ref},
		{"naive text", "2024-01-15T02:00:00", FromText, time.Date(2024, 1, 15, 2, 0, 0, 0, est)},
		{"space separated", "2024-01-15 02:00:00", FromText, time.Date(2024, 1, 15, 2, 0, 0, 0, est)},
		{"fractional seconds", "2024-01-15T02:00:00.250000", FromText, time.Date(2024, 1, 15, 2, 0, 0, 250000000, est)},
		{"utc designator", "2024-01-15T02:00:00Z", FromText, ref},
		{"offset", "2024-01-14T21:00:00-05:00", FromText, ref},
		{"date only", "2024-01-15", FromText, time.Date(2024, 1, 15, 0, 0, 0, 0, est)},
		{"offset without colon", "2024-01-15T07:30:00+0530", FromText, ref},
		{"space separated offset without colon", "2024-01-15 07:30:00+0530", FromText, ref},
		{"basic format", "20240115T020000", FromText, time.Date(2024, 1, 15, 2, 0, 0, 0, est)},
		{"basic format utc", "20240115T020000Z", FromText, ref},
		{"basic format offset", "20240115T073000+0530", FromText, ref},
		{"basic format minutes", "20240115T0200", FromText, time.Date(2024, 1, 15, 2, 0, 0, 0, est)},
		{"basic date", "20240115", FromText, time.Date(2024, 1, 15, 0, 0, 0, 0, est)},
		{"bytes", []byte("2024-01-15 02:00"), FromText, time.Date(2024, 1, 15, 2, 0, 0, 0, est)},
		{"epoch int", int64(1705284000), FromEpoch, ref},
		{"epoch float", 1705284000.5, FromEpoch, ref.Add(500 * time.Millisecond)},
		{"garbage text", "15/01/2024", Unparseable, time.Time{}},
		{"nan", math.NaN(), Unparseable, time.Time{}},
		{"out of range epoch", 1e15, Unparseable, time.Time{}},
		{"nil", nil, Unparseable, time.Time{}},
		{"bool", true, Unparseable, time.Time{}},
		{"nil time pointer", (*time.Time)(nil), Unparseable, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTimestamp(tt.value, est)
			assert.Equal(t, tt.wantKind, got.Kind)
			assert.Equal(t, tt.wantKind != Unparseable, got.Parsed())
			if got.Parsed() {
				assert.True(t, tt.want.Equal(got.Time), "want %s, got %s", tt.want, got.Time)
			}
		})
	}
}

func TestParseTimestamp_EpochUsesLocation(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)

	got := ParseTimestamp(int64(1705284000), est)

	assert.Equal(t, 21, got.Time.Hour())
	assert.Equal(t, "2024-01", got.Time.Format(MonthKeyLayout))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, isBlank(nil))
	assert.True(t, isBlank(""))
	assert.True(t, isBlank(0.0))
	assert.True(t, isBlank(int64(0)))
	assert.True(t, isBlank(time.Time{}))
	assert.False(t, isBlank("x"))
	assert.False(t, isBlank(1.0))
	assert.False(t, isBlank(time.Now()))
}

func TestTimestampKind_String(t *testing.T) {
	assert.Equal(t, "text", FromText.String())
	assert.Equal(t, "epoch", FromEpoch.String())
	assert.Equal(t, "unparseable", Unparseable.String())
}
