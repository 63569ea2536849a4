package recordstore

import (
	"context"
	"sync"
)

// MemoryBackend 进程内存储，测试和无依赖部署时使用
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(ctx context.Context, slot string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.slots[slot]
	if !ok {
		return nil, ErrNoSlot
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (b *MemoryBackend) Set(ctx context.Context, slot string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.slots[slot] = stored
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, slot string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.slots, slot)
	return nil
}
