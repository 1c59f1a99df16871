// ABOUTME: Snapshot backup operations for Charm KV storage.
// ABOUTME: Stores full workout exports keyed by export ID for restore on any machine.
package charm

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/workouts/internal/storage"
)

// SnapshotInfo summarizes a stored snapshot without its rows.
type SnapshotInfo struct {
	ID         string
	ExportedAt time.Time
	Tool       string
	Counts     map[string]int
	Size       int
}

// SnapshotKey returns the KV key for an export ID.
func SnapshotKey(id uuid.UUID) string {
	return SnapshotPrefix + id.String()
}

// PushSnapshot stores an export document. An export without an ID is
// given one. Returns the snapshot ID.
func (c *Client) PushSnapshot(data *storage.ExportData) (string, error) {
	if data.ExportID == uuid.Nil {
		data.ExportID = uuid.New()
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.set(SnapshotKey(data.ExportID), raw); err != nil {
		return "", fmt.Errorf("store snapshot: %w", err)
	}
	return data.ExportID.String(), nil
}

// GetSnapshot retrieves a snapshot by ID or ID prefix.
func (c *Client) GetSnapshot(idOrPrefix string) (*storage.ExportData, error) {
	_, raw, err := c.getByIDPrefix(SnapshotPrefix, idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	data, err := storage.DecodeExport(raw, "json")
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return data, nil
}

// ListSnapshots returns every stored snapshot, newest first. Entries that
// fail to decode are skipped.
func (c *Client) ListSnapshots() ([]SnapshotInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.keysByPrefix(SnapshotPrefix)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	infos := make([]SnapshotInfo, 0, len(keys))
	for _, key := range keys {
		raw, err := c.kv.Get([]byte(key))
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		data, err := storage.DecodeExport(raw, "json")
		if err != nil {
			continue
		}
		infos = append(infos, SnapshotInfo{
			ID:         extractID(key, SnapshotPrefix),
			ExportedAt: data.ExportedAt,
			Tool:       data.Tool,
			Counts:     data.Counts(),
			Size:       len(raw),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ExportedAt.After(infos[j].ExportedAt)
	})
	return infos, nil
}

// DeleteSnapshot removes a snapshot by ID or ID prefix.
func (c *Client) DeleteSnapshot(idOrPrefix string) error {
	if err := c.deleteByIDPrefix(SnapshotPrefix, idOrPrefix); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}
