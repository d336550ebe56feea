package models

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductDropPercent(t *testing.T) {
	p := &Product{CurrentPrice: 75, HighestPrice: 100}
	assert.InDelta(t, 25.0, p.DropPercent(), 1e-9)

	empty := &Product{}
	assert.Equal(t, 0.0, empty.DropPercent(), "no history means no drop")
}

func TestProductIsAllTimeLow(t *testing.T) {
	p := &Product{LowestPrice: 100}

	assert.True(t, p.IsAllTimeLow(99))
	assert.False(t, p.IsAllTimeLow(100))
	assert.False(t, p.IsAllTimeLow(0), "a failed extraction is never a low")
}

func TestProductMarshalJSONThreshold(t *testing.T) {
	p := &Product{ID: 1, CurrentPrice: 75, HighestPrice: 100}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Nil(t, out["alert_threshold"], "unset threshold marshals as null, not 0")
	assert.InDelta(t, 25.0, out["price_drop_percentage"].(float64), 1e-9)

	p.AlertThreshold = sql.NullFloat64{Float64: 60, Valid: true}
	data, err = json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 60.0, out["alert_threshold"])
}

func TestStoreIsValid(t *testing.T) {
	for _, s := range []Store{StoreDaraz, StoreAmazon, StoreAliexpress, StoreFlipkart, StoreGeneric} {
		assert.True(t, s.IsValid())
	}
	assert.False(t, Store("ebay").IsValid())
	assert.False(t, Store("").IsValid())
}

func TestRefreshTaskLifecycle(t *testing.T) {
	task := NewRefreshTask(42)

	assert.Equal(t, TaskStatusQueued, task.Status)
	assert.True(t, task.IsActive())
	assert.Equal(t, int64(0), int64(task.Duration()))

	task.Start()
	assert.Equal(t, TaskStatusProcessing, task.Status)

	task.Complete(&ProductSnapshot{Price: 10})
	assert.True(t, task.IsCompleted())
	assert.False(t, task.IsActive())
	assert.NotNil(t, task.CompletedAt)
}
