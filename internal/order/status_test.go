package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPlaced, StatusConfirmed, true},
		{StatusConfirmed, StatusPreparing, true},
		{StatusPreparing, StatusOutForDelivery, true},
		{StatusOutForDelivery, StatusDelivered, true},
		{StatusPlaced, StatusPreparing, true},
		{StatusPlaced, StatusDelivered, true},
		{StatusPlaced, StatusRejected, true},
		{StatusOutForDelivery, StatusCancelled, true},
		{StatusPreparing, StatusRejected, true},

		{StatusConfirmed, StatusPlaced, false},
		{StatusOutForDelivery, StatusPreparing, false},
		{StatusPlaced, StatusPlaced, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusRejected, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusPlaced, Status("shipped"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestFormatNumber(t *testing.T) {
	day := DayKey(time.Date(2026, 3, 7, 23, 59, 0, 0, time.Local))
	assert.Equal(t, "260307", day)
	assert.Equal(t, "ORD2603070042", FormatNumber(day, 42))
	assert.Equal(t, "ORD26030712345", FormatNumber(day, 12345))
}

func TestTracking_Duration(t *testing.T) {
	created := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	o := &Order{OrderNumber: "ORD2610180001", Status: StatusPreparing, CreatedAt: created}
	v := o.Tracking()
	assert.Nil(t, v.DurationMinutes)

	done := created.Add(42*time.Minute + 30*time.Second)
	o.Status = StatusDelivered
	o.ActualDeliveryTime = &done
	v = o.Tracking()
	if assert.NotNil(t, v.DurationMinutes) {
		assert.Equal(t, 42, *v.DurationMinutes)
	}
}
