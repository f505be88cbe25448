package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// OrderIDSlot remembers the order being tracked across restarts of the
// client, the way a browser keeps it in local storage.
type OrderIDSlot interface {
	Get() (string, bool, error)
	Set(orderID string) error
	Clear() error
}

type fileSlot struct {
	path string
}

// NewFileSlot stores the order id as a small JSON document at path.
func NewFileSlot(path string) OrderIDSlot {
	return &fileSlot{path: path}
}

type slotDocument struct {
	OrderID string `json:"orderId"`
}

func (s *fileSlot) Get() (string, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read order slot: %w", err)
	}

	var doc slotDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return "", false, fmt.Errorf("decode order slot: %w", err)
	}
	return doc.OrderID, doc.OrderID != "", nil
}

func (s *fileSlot) Set(orderID string) error {
	b, err := json.Marshal(slotDocument{OrderID: orderID})
	if err != nil {
		return fmt.Errorf("encode order slot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create order slot dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write order slot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace order slot: %w", err)
	}
	return nil
}

func (s *fileSlot) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear order slot: %w", err)
	}
	return nil
}

// MemorySlot keeps the order id for the lifetime of the process.
type MemorySlot struct {
	mu      sync.Mutex
	orderID string
}

func (s *MemorySlot) Get() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderID, s.orderID != "", nil
}

func (s *MemorySlot) Set(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderID = orderID
	return nil
}

func (s *MemorySlot) Clear() error {
	return s.Set("")
}
