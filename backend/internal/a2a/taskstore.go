package a2a

import (
	"context"
	"sync"

	sdka2a "github.com/a2aproject/a2a-go/a2a"
)

// MemoryTaskStore implements a2asrv.TaskStore, holding tasks for the
// lifetime of the process. The flight agent has no durable task state.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[sdka2a.TaskID]*sdka2a.Task
}

// NewMemoryTaskStore creates an empty in-memory task store
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[sdka2a.TaskID]*sdka2a.Task),
	}
}

// Save stores a task
func (s *MemoryTaskStore) Save(ctx context.Context, task *sdka2a.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task
	return nil
}

// Get retrieves a task by ID
func (s *MemoryTaskStore) Get(ctx context.Context, taskID sdka2a.TaskID) (*sdka2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, sdka2a.ErrTaskNotFound
	}
	return task, nil
}
