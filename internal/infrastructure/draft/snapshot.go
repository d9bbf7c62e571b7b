package draft

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelier/backoffice/internal/domain/client"
	"github.com/atelier/backoffice/internal/domain/order"
)

// Key is the fixed storage key for the order-creation draft
const Key = "order:create:draft"

// SnapshotVersion is bumped whenever the snapshot shape changes. Unknown
// versions are treated like corrupt payloads and discarded on restore.
const SnapshotVersion = 1

// Snapshot is the serialized subset of an in-progress order. Dates travel
// as RFC3339 strings inside the JSON blob and come back as equivalent
// time values.
type Snapshot struct {
	Version          int             `json:"version"`
	EntityType       string          `json:"entityType"`
	EntityID         int64           `json:"entityId"`
	DeliveryDate     *time.Time      `json:"deliveryDate,omitempty"`
	ActiveTab        string          `json:"activeTab"`
	SelectedClientID int64           `json:"selectedClientId,omitempty"`
	NewClientForm    *client.Form    `json:"newClientFormValues,omitempty"`
	SelectedProducts order.Selection `json:"selectedProducts"`
	SavedAt          time.Time       `json:"savedAt"`
}

// Encode serializes the snapshot, stamping the current version
func Encode(snap *Snapshot) ([]byte, error) {
	snap.Version = SnapshotVersion
	encoded, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode draft snapshot: %w", err)
	}
	return encoded, nil
}

// Decode deserializes a snapshot, rejecting unknown versions
func Decode(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode draft snapshot: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported draft version %d", snap.Version)
	}
	return &snap, nil
}
