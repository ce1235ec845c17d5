package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Sequencer hands out monotonically increasing sequence numbers per
// partition key, so consumers can order and de-duplicate events.
type Sequencer interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

// Executor represents the subset of pgx methods required by the sequence
// repository.
type Executor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresSequencer struct {
	executor Executor
}

func NewPostgresSequencer(exec Executor) *PostgresSequencer {
	return &PostgresSequencer{executor: exec}
}

func (s *PostgresSequencer) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}

	var next int64
	if err := s.executor.QueryRow(ctx, `
		INSERT INTO event_sequences (partition_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (partition_key) DO UPDATE
		SET last_sequence = event_sequences.last_sequence + 1,
		    updated_at = NOW()
		RETURNING last_sequence
	`, partitionKey).Scan(&next); err != nil {
		return 0, fmt.Errorf("increment sequence: %w", err)
	}
	return next, nil
}

// MemorySequencer is the in-process counterpart used by the Bus and in
// tests.
type MemorySequencer struct {
	mu   sync.Mutex
	last map[string]int64
}

func NewMemorySequencer() *MemorySequencer {
	return &MemorySequencer{last: make(map[string]int64)}
}

func (s *MemorySequencer) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, fmt.Errorf("partition key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[partitionKey]++
	return s.last[partitionKey], nil
}
