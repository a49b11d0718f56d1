package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInteractionStateUnion(t *testing.T) {
	earlier := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Minute)
	readKey := NotificationKey{Category: CategoryStock, Subject: "P1", Rule: "stock-critical"}
	dismissKey := NotificationKey{Category: CategoryTrend, Subject: "P2", Rule: "cooling-trend"}

	s := NewInteractionState()
	s.Read[readKey] = later

	delta := NewInteractionState()
	delta.Read[readKey] = earlier
	delta.Dismissed[dismissKey] = later

	s.Union(delta)

	// Earliest timestamp wins for an identity marked on both sides.
	assert.True(t, s.Read[readKey].Equal(earlier))
	assert.True(t, s.Dismissed[dismissKey].Equal(later))
}

func TestInteractionStateUnionNeverOverwritesEarlierMark(t *testing.T) {
	earlier := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	key := NotificationKey{Category: CategorySales, Subject: "P3", Rule: "dormant-product"}

	s := NewInteractionState()
	s.Dismissed[key] = earlier

	delta := NewInteractionState()
	delta.Dismissed[key] = earlier.Add(time.Hour)

	s.Union(delta)

	assert.True(t, s.Dismissed[key].Equal(earlier))
}
