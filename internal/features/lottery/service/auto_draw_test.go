package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingService struct {
	LotteryService
	calls atomic.Int32
}

func (s *countingService) DrawDue(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 1, nil
}

func TestAutoDrawWorkerTicksUntilStopped(t *testing.T) {
	svc := &countingService{}
	w := NewAutoDrawWorker(svc, 10*time.Millisecond)
	w.Start()

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()

	after := svc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load())
}
