package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyAdd(t *testing.T) {
	a, err := NewMoney(800, "twd")
	require.NoError(t, err)
	assert.Equal(t, "TWD", a.Currency)

	b, err := NewMoney(200, "TWD")
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), sum.Amount)

	_, err = a.Add(Money{Amount: 1, Currency: "JPY"})
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoneyValidation(t *testing.T) {
	_, err := NewMoney(-1, "TWD")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewMoney(0, "x")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestDuration(t *testing.T) {
	d, err := NewDuration(60)
	require.NoError(t, err)
	assert.Equal(t, Duration(90), d.Add(30))
	assert.Equal(t, Duration(120), d.Mul(2))
	assert.Equal(t, time.Hour, d.Std())

	_, err = NewDuration(-5)
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

func TestTimeRangeOverlaps(t *testing.T) {
	base := time.Date(2099, 1, 5, 14, 0, 0, 0, time.UTC)
	r := func(startMin, endMin int) TimeRange {
		return TimeRange{
			Start: base.Add(time.Duration(startMin) * time.Minute),
			End:   base.Add(time.Duration(endMin) * time.Minute),
		}
	}

	assert.True(t, r(0, 60).Overlaps(r(59, 120)))
	assert.True(t, r(0, 60).Overlaps(r(30, 40)))
	assert.True(t, r(30, 40).Overlaps(r(0, 60)))

	// adjacent ranges share an endpoint and do not overlap
	assert.False(t, r(0, 60).Overlaps(r(60, 120)))
	assert.False(t, r(60, 120).Overlaps(r(0, 60)))
	assert.False(t, r(0, 60).Overlaps(r(90, 120)))
}

func TestTimeRangeOverlapsAcrossLocations(t *testing.T) {
	taipei, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	// 14:00-15:00 Taipei is 06:00-07:00 UTC
	local := TimeRange{
		Start: time.Date(2099, 1, 5, 14, 0, 0, 0, taipei),
		End:   time.Date(2099, 1, 5, 15, 0, 0, 0, taipei),
	}
	utc := TimeRange{
		Start: time.Date(2099, 1, 5, 6, 30, 0, 0, time.UTC),
		End:   time.Date(2099, 1, 5, 7, 30, 0, 0, time.UTC),
	}
	assert.True(t, local.Overlaps(utc))
}

func TestTimeRangeContains(t *testing.T) {
	r, err := NewTimeRange(
		time.Date(2099, 1, 5, 10, 0, 0, 0, time.UTC),
		time.Date(2099, 1, 5, 18, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.True(t, r.Contains(r.Start))
	assert.False(t, r.Contains(r.End))

	inner := TimeRange{Start: r.Start, End: r.End.Add(-time.Hour)}
	assert.True(t, r.ContainsRange(inner))
	outer := TimeRange{Start: r.Start.Add(-time.Minute), End: r.End}
	assert.False(t, r.ContainsRange(outer))
}

func TestNewTimeRangeRejectsInverted(t *testing.T) {
	now := time.Now()
	_, err := NewTimeRange(now, now)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)

	_, err = NewTimeRange(now.Add(time.Hour), now)
	assert.ErrorIs(t, err, ErrInvalidTimeRange)
}
