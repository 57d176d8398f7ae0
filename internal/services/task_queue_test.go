package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTaskTypeSettlement_Constant(t *testing.T) {
	if TaskTypeSettlement != "settlement:community" {
		t.Errorf("TaskTypeSettlement = %q, expected %q", TaskTypeSettlement, "settlement:community")
	}
}

func TestSettlementTaskID(t *testing.T) {
	id := settlementTaskID(42)
	if id != "settlement:community:42" {
		t.Errorf("settlementTaskID(42) = %q, expected %q", id, "settlement:community:42")
	}

	if settlementTaskID(1) == settlementTaskID(2) {
		t.Error("task IDs for different communities should differ")
	}
}

func TestSyncQueue_New(t *testing.T) {
	queue := NewSyncQueue()
	if queue == nil {
		t.Error("NewSyncQueue should not return nil")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	queue := NewSyncQueue()
	err := queue.Close()
	if err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	task := &SettlementTask{CommunityID: 1}

	err := queue.Enqueue(task)
	if err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_EnqueueRunsProcessor(t *testing.T) {
	queue := NewSyncQueue()

	var mu sync.Mutex
	var got uint
	done := make(chan struct{})

	queue.SetProcessor(func(ctx context.Context, task *SettlementTask) error {
		mu.Lock()
		got = task.CommunityID
		mu.Unlock()
		close(done)
		return nil
	})

	if err := queue.Enqueue(&SettlementTask{CommunityID: 7}); err != nil {
		t.Fatalf("Enqueue() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("processor was not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if got != 7 {
		t.Errorf("processor received community %d, expected 7", got)
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}
