package importer

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Sequence hands out unique fallback names for entries missing a title
// or URL. It is threaded through the importer instead of living in
// package state so runs stay deterministic and testable.
type Sequence struct {
	counter atomic.Uint64
}

func (s *Sequence) Next(prefix string) string {
	n := s.counter.Add(1) - 1
	return fmt.Sprintf("%s-%d-%d", prefix, n, time.Now().UnixMilli())
}
