package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"opsnexus_backend/pkg/monitoring"

	"go.uber.org/zap"
)

var (
	// ErrNoSlot slot 尚未写入过任何内容
	ErrNoSlot = errors.New("slot not found")
	// ErrCorrupted slot 内容无法按 JSON 解码
	ErrCorrupted = errors.New("slot content corrupted")
)

// Backend 命名 slot 的字节级存取接口
type Backend interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Set(ctx context.Context, slot string, data []byte) error
	Delete(ctx context.Context, slot string) error
}

// Store 在 Backend 之上提供按集合名读写 JSON 记录的能力，
// 以及首次读取时的默认数据播种。
type Store struct {
	backend Backend
	log     *zap.Logger
	mu      sync.Mutex
	seedMu  sync.Mutex
}

func NewStore(backend Backend, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{backend: backend, log: log}
}

// Read 将 slot 内容解码到 out。slot 不存在时先把 seed 写入作为初始内容，
// 再把 seed 解码到 out。内容损坏时返回 ErrCorrupted，由调用方决定是否 Reseed。
func (s *Store) Read(ctx context.Context, slot string, out, seed any) error {
	data, err := s.backend.Get(ctx, slot)
	if errors.Is(err, ErrNoSlot) {
		return s.seedOnce(ctx, slot, out, seed)
	}
	if err != nil {
		return err
	}

	monitoring.StoreReads.WithLabelValues(slot).Inc()
	return s.decode(slot, data, out)
}

func (s *Store) decode(slot string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		monitoring.StoreCorruptions.WithLabelValues(slot).Inc()
		return fmt.Errorf("%w: slot %s: %v", ErrCorrupted, slot, err)
	}
	return nil
}

// seedOnce 首次读取时的播种。加锁后二次检查 slot 是否仍然为空：
// 并发的首读只有一个会真正写入，且绝不会覆盖已经提交的内容。
func (s *Store) seedOnce(ctx context.Context, slot string, out, seed any) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()

	data, err := s.backend.Get(ctx, slot)
	if err == nil {
		monitoring.StoreReads.WithLabelValues(slot).Inc()
		return s.decode(slot, data, out)
	}
	if !errors.Is(err, ErrNoSlot) {
		return err
	}
	return s.writeSeed(ctx, slot, out, seed)
}

// Write 序列化 v 并覆盖 slot 原有内容
func (s *Store) Write(ctx context.Context, slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, slot, data); err != nil {
		return err
	}
	monitoring.StoreWrites.WithLabelValues(slot).Inc()
	return nil
}

// Reseed 用 seed 覆盖 slot 并把 seed 内容解码到 out，
// 用于损坏后的显式重建。
func (s *Store) Reseed(ctx context.Context, slot string, out, seed any) error {
	s.seedMu.Lock()
	defer s.seedMu.Unlock()
	return s.writeSeed(ctx, slot, out, seed)
}

func (s *Store) writeSeed(ctx context.Context, slot string, out, seed any) error {
	data, err := json.Marshal(seed)
	if err != nil {
		return err
	}
	if err := s.backend.Set(ctx, slot, data); err != nil {
		return err
	}
	monitoring.StoreWrites.WithLabelValues(slot).Inc()
	s.log.Info("slot seeded with default data", zap.String("slot", slot))
	return json.Unmarshal(data, out)
}

// Clear 删除给定的 slot，下次读取时重新播种默认数据
func (s *Store) Clear(ctx context.Context, slots ...string) error {
	for _, slot := range slots {
		if err := s.backend.Delete(ctx, slot); err != nil {
			return err
		}
	}
	return nil
}

// WithLock 串行化进程内的读改写序列。跨进程写入不做协调，最后写入者获胜。
func (s *Store) WithLock(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

// Logger 供上层复用 store 自己的日志器
func (s *Store) Logger() *zap.Logger {
	return s.log
}
