package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// SlotName is the blob slot holding the serialized goal collection.
const SlotName = "stratlife_goals_v1"

// BlobStore is an opaque named-slot store. Read returns nil data and a nil
// error for a slot that has never been written.
type BlobStore interface {
	Read(slot string) ([]byte, error)
	Write(slot string, data []byte) error
}

// FileBlobStore keeps each slot as <slot>.json under Dir.
type FileBlobStore struct {
	Dir string
}

// NewFileBlobStore creates a FileBlobStore rooted at dir, creating it if needed.
func NewFileBlobStore(dir string) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileBlobStore{Dir: dir}, nil
}

// Path returns the file backing slot.
func (f *FileBlobStore) Path(slot string) string {
	return filepath.Join(f.Dir, slot+".json")
}

// Read implements BlobStore.
func (f *FileBlobStore) Read(slot string) ([]byte, error) {
	data, err := os.ReadFile(f.Path(slot))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading slot %s: %w", slot, err)
	}
	return data, nil
}

// Write implements BlobStore. The slot is replaced atomically via rename.
func (f *FileBlobStore) Write(slot string, data []byte) error {
	tmp, err := os.CreateTemp(f.Dir, "."+slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	if err := os.Rename(tmp.Name(), f.Path(slot)); err != nil {
		return fmt.Errorf("replacing slot %s: %w", slot, err)
	}
	return nil
}

// MemoryBlobStore is an in-process BlobStore, mostly for tests.
type MemoryBlobStore struct {
	Slots  map[string][]byte
	Writes int
}

// NewMemoryBlobStore returns an empty MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{Slots: make(map[string][]byte)}
}

// Read implements BlobStore. A missing slot reads as empty.
func (m *MemoryBlobStore) Read(slot string) ([]byte, error) {
	return m.Slots[slot], nil
}

// Write implements BlobStore and counts each call in Writes.
func (m *MemoryBlobStore) Write(slot string, data []byte) error {
	m.Slots[slot] = append([]byte(nil), data...)
	m.Writes++
	return nil
}
