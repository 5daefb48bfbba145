package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrCollectionNotFound is returned when a backend holds nothing for a collection.
var ErrCollectionNotFound = errors.New("collection not found")

// SnapshotRepository persists whole collections. Every save replaces the previous
// contents of the named collection; there is no incremental write path.
type SnapshotRepository interface {
	// LoadCollection decodes the stored collection into dst, which must be a pointer to a slice.
	LoadCollection(ctx context.Context, name string, dst any) error
	// SaveCollection overwrites the stored collection with src, which must be a slice.
	SaveCollection(ctx context.Context, name string, src any) error
}

// record is one element of a collection in its JSON form.
type record struct {
	ID      string
	Payload string
}

// splitRecords turns a slice into its JSON-encoded elements, keeping order.
func splitRecords(src any) ([]record, error) {
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode collection: %w", err)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("collection is not a list: %w", err)
	}

	records := make([]record, 0, len(items))
	for _, item := range items {
		var key struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item, &key); err != nil {
			return nil, fmt.Errorf("decode record id: %w", err)
		}
		records = append(records, record{ID: key.ID, Payload: string(item)})
	}
	return records, nil
}

// joinRecords decodes ordered JSON payloads into dst as a single list.
func joinRecords(payloads []string, dst any) error {
	if err := json.Unmarshal([]byte("["+strings.Join(payloads, ",")+"]"), dst); err != nil {
		return fmt.Errorf("decode collection: %w", err)
	}
	return nil
}
