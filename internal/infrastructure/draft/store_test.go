package draft

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier/backoffice/internal/domain/catalog"
	"github.com/atelier/backoffice/internal/domain/client"
	"github.com/atelier/backoffice/internal/domain/order"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "drafts.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SaveAndTake(t *testing.T) {
	store := openTestStore(t)

	delivery := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	snap := &Snapshot{
		EntityType:       "branch",
		EntityID:         3,
		DeliveryDate:     &delivery,
		ActiveTab:        "existing",
		SelectedClientID: 42,
		SelectedProducts: order.Selection{
			{
				Cloth:    catalog.Cloth{ID: 11, Name: "Evening gown", Price: decimal.NewFromInt(500)},
				Quantity: 1,
				Price:    decimal.NewFromInt(500),
				Type:     order.ItemTypeRent,
			},
		},
	}
	require.NoError(t, store.Save(Key, snap))

	restored, ok, err := store.Take(Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "branch", restored.EntityType)
	assert.Equal(t, int64(3), restored.EntityID)
	assert.Equal(t, int64(42), restored.SelectedClientID)
	require.NotNil(t, restored.DeliveryDate)
	assert.True(t, delivery.Equal(*restored.DeliveryDate))
	require.Len(t, restored.SelectedProducts, 1)
	assert.Equal(t, int64(11), restored.SelectedProducts[0].Cloth.ID)
	assert.False(t, restored.SavedAt.IsZero())
}

func TestStore_TakeConsumesDraft(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(Key, &Snapshot{EntityType: "branch", EntityID: 1}))

	_, ok, err := store.Take(Key)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = store.Take(Key)
	require.NoError(t, err)
	assert.False(t, ok, "a draft restores once, then is gone")
}

func TestStore_TakeMissing(t *testing.T) {
	store := openTestStore(t)

	snap, ok, err := store.Take(Key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)
}

func TestStore_CorruptPayloadDiscarded(t *testing.T) {
	store := openTestStore(t)

	rec := record{Key: Key, Payload: []byte("{not json"), SavedAt: time.Now()}
	require.NoError(t, store.db.Save(&rec).Error)

	snap, ok, err := store.Take(Key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, snap)

	exists, err := store.Exists(Key)
	require.NoError(t, err)
	assert.False(t, exists, "corrupt drafts are deleted, not retried")
}

func TestStore_UnknownVersionDiscarded(t *testing.T) {
	store := openTestStore(t)

	rec := record{Key: Key, Payload: []byte(`{"version":99}`), SavedAt: time.Now()}
	require.NoError(t, store.db.Save(&rec).Error)

	_, ok, err := store.Take(Key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Save(Key, &Snapshot{EntityType: "branch", EntityID: 1}))
	require.NoError(t, store.Save(Key, &Snapshot{EntityType: "factory", EntityID: 2}))

	restored, ok, err := store.Take(Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "factory", restored.EntityType)
	assert.Equal(t, int64(2), restored.EntityID)
}

func TestStore_NewClientFormRoundTrip(t *testing.T) {
	store := openTestStore(t)

	snap := &Snapshot{
		ActiveTab: "new",
		NewClientForm: &client.Form{
			Name:       "Mona Hassan",
			Phone:      "01000000000",
			NationalID: "29901011234567",
		},
	}
	require.NoError(t, store.Save(Key, snap))

	restored, ok, err := store.Take(Key)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, restored.NewClientForm)
	assert.Equal(t, "Mona Hassan", restored.NewClientForm.Name)
	assert.Equal(t, "29901011234567", restored.NewClientForm.NationalID)
}
