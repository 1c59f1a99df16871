// ABOUTME: Unit tests for Charm snapshot storage.
// ABOUTME: Uses an in-memory store in place of the Charm KV database.
package charm

import (
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/workouts/internal/models"
	"github.com/harperreed/workouts/internal/storage"
)

type memStore struct {
	data     map[string][]byte
	readOnly bool
	syncs    int
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Set(key, value []byte) error {
	m.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Get(key []byte) ([]byte, error) {
	v, ok := m.data[string(key)]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (m *memStore) Delete(key []byte) error {
	delete(m.data, string(key))
	return nil
}

func (m *memStore) Keys() ([][]byte, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = []byte(k)
	}
	return out, nil
}

func (m *memStore) Sync() error      { m.syncs++; return nil }
func (m *memStore) IsReadOnly() bool { return m.readOnly }
func (m *memStore) Close() error     { return nil }

func sampleExport(at time.Time) *storage.ExportData {
	w := models.NewWorkout("Leg Day").AsTemplate()
	w.ID = 1
	return &storage.ExportData{
		Version:    storage.ExportVersion,
		ExportID:   uuid.New(),
		ExportedAt: at,
		Tool:       "workouts",
		Exercises:  []*models.Exercise{{ID: 1, Title: "Squat"}},
		Workouts:   []*models.Workout{w},
	}
}

func TestSnapshotKeyFormat(t *testing.T) {
	id := uuid.New()
	key := SnapshotKey(id)

	if !strings.HasPrefix(key, "snapshot:") {
		t.Errorf("Expected key to start with 'snapshot:', got: %s", key)
	}
	if extractID(key, SnapshotPrefix) != id.String() {
		t.Errorf("Expected extracted ID %q, got %q", id, extractID(key, SnapshotPrefix))
	}
}

func TestPushAndGetSnapshot(t *testing.T) {
	ms := newMemStore()
	c := newClient(ms)

	data := sampleExport(time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC))
	id, err := c.PushSnapshot(data)
	if err != nil {
		t.Fatalf("PushSnapshot failed: %v", err)
	}
	if id != data.ExportID.String() {
		t.Errorf("Expected snapshot ID %s, got %s", data.ExportID, id)
	}
	if ms.syncs != 1 {
		t.Errorf("Expected one sync after write, got %d", ms.syncs)
	}

	got, err := c.GetSnapshot(id[:8])
	if err != nil {
		t.Fatalf("GetSnapshot by prefix failed: %v", err)
	}
	if len(got.Workouts) != 1 || got.Workouts[0].Title != "Leg Day" {
		t.Errorf("Unexpected workouts: %+v", got.Workouts)
	}
	if got.Workouts[0].Template == nil {
		t.Error("Expected template to survive the round trip")
	}
}

func TestPushSnapshotAssignsID(t *testing.T) {
	c := newClient(newMemStore())

	data := sampleExport(time.Now())
	data.ExportID = uuid.Nil
	id, err := c.PushSnapshot(data)
	if err != nil {
		t.Fatalf("PushSnapshot failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil || data.ExportID == uuid.Nil {
		t.Errorf("Expected a generated ID, got %q", id)
	}
}

func TestListSnapshotsNewestFirst(t *testing.T) {
	ms := newMemStore()
	c := newClient(ms)
	c.SetAutoSync(false)

	older := sampleExport(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := sampleExport(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	for _, d := range []*storage.ExportData{older, newer} {
		if _, err := c.PushSnapshot(d); err != nil {
			t.Fatalf("PushSnapshot failed: %v", err)
		}
	}
	ms.data["snapshot:garbage"] = []byte("not json")
	ms.data["other:key"] = []byte("{}")

	infos, err := c.ListSnapshots()
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(infos))
	}
	if infos[0].ID != newer.ExportID.String() {
		t.Errorf("Expected newest snapshot first, got %s", infos[0].ID)
	}
	if infos[0].Counts["workout_template"] != 1 || infos[0].Counts["exercise"] != 1 {
		t.Errorf("Unexpected counts: %v", infos[0].Counts)
	}
	if infos[0].Size == 0 {
		t.Error("Expected non-zero size")
	}
	if ms.syncs != 0 {
		t.Errorf("Expected no sync with auto-sync disabled, got %d", ms.syncs)
	}
}

func TestGetSnapshotPrefixErrors(t *testing.T) {
	ms := newMemStore()
	c := newClient(ms)
	ms.data["snapshot:abc-1"] = []byte("{}")
	ms.data["snapshot:abc-2"] = []byte("{}")

	if _, err := c.GetSnapshot("abc"); err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Errorf("Expected ambiguous prefix error, got %v", err)
	}
	if _, err := c.GetSnapshot("zzz"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got %v", err)
	}
	if _, err := c.GetSnapshot("abc-1"); err == nil {
		t.Error("Expected decode error for snapshot without version")
	}
}

func TestDeleteSnapshot(t *testing.T) {
	c := newClient(newMemStore())

	id, err := c.PushSnapshot(sampleExport(time.Now()))
	if err != nil {
		t.Fatalf("PushSnapshot failed: %v", err)
	}
	if err := c.DeleteSnapshot(id); err != nil {
		t.Fatalf("DeleteSnapshot failed: %v", err)
	}
	if _, err := c.GetSnapshot(id); err == nil {
		t.Error("Expected error after delete")
	}
}

func TestReadOnlyRejectsWrites(t *testing.T) {
	ms := newMemStore()
	ms.readOnly = true
	c := newClient(ms)

	if _, err := c.PushSnapshot(sampleExport(time.Now())); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Expected ErrReadOnly, got %v", err)
	}
	if err := c.Sync(); err != nil {
		t.Errorf("Sync in read-only mode should be a no-op, got %v", err)
	}
	if ms.syncs != 0 {
		t.Errorf("Expected no syncs, got %d", ms.syncs)
	}
}
