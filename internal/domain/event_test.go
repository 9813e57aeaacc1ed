package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewEvent(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	local := time.Date(2025, 6, 1, 8, 30, 0, 0, loc)

	e := NewEvent("user-1", TypePageView, "Viewed car-1 Toyota Corolla", local)

	t.Run("assigns_fresh_uuid", func(t *testing.T) {
		_, err := uuid.Parse(e.ID)
		assert.NoError(t, err)
	})

	t.Run("normalizes_timestamp_to_utc", func(t *testing.T) {
		assert.Equal(t, time.UTC, e.CreatedAt.Location())
		assert.True(t, e.CreatedAt.Equal(local))
	})

	t.Run("two_events_never_share_an_id", func(t *testing.T) {
		other := NewEvent("user-1", TypePageView, "again", local)
		assert.NotEqual(t, e.ID, other.ID)
	})
}

func TestReconstitute(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	e := Reconstitute("11111111-2222-3333-4444-555555555555", "user-1", TypePurchase, "Reserved car-2 VW Golf", created)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", e.ID)
	assert.Equal(t, TypePurchase, e.Type)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
	assert.True(t, e.CreatedAt.Equal(created))
}

func TestParseEventType(t *testing.T) {
	tests := []struct {
		in     string
		want   EventType
		wantOK bool
	}{
		{"PageView", TypePageView, true},
		{"pageview", TypePageView, true},
		{"CLICK", TypeClick, true},
		{"Purchase", TypePurchase, true},
		{"Signup", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseEventType(tt.in)
		assert.Equal(t, tt.wantOK, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestCarCatalog(t *testing.T) {
	c := DefaultCarCatalog()

	assert.True(t, c.Has("car-1"))
	assert.True(t, c.Has("car-2"))
	assert.False(t, c.Has("car-3"))

	assert.Equal(t, "Toyota Corolla", c.Name("car-1"))
	assert.Equal(t, "VW Golf", c.Name("car-2"))
	assert.Equal(t, "", c.Name("car-3"))
}
