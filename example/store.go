package main

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pthm/hxview/example/components"
)

// Store is an in-memory todo store that implements components.TodoStore.
type Store struct {
	mu     sync.RWMutex
	todos  map[string]*components.Todo
	nextID int
}

// NewStore creates a new store with sample data.
func NewStore() *Store {
	s := &Store{
		todos:  make(map[string]*components.Todo),
		nextID: 1,
	}

	s.Add("Buy groceries", "Milk, eggs, *bread*", []components.Tag{components.TagPersonal})
	s.Add("Review PR #123", "Check the `auth` changes", []components.Tag{components.TagWork, components.TagUrgent})
	s.Add("Write documentation", "Update API docs for v2", []components.Tag{components.TagWork})
	s.Add("Call dentist", "", []components.Tag{components.TagPersonal, components.TagLater})

	return s
}

// Add creates a new todo and returns its ID.
func (s *Store) Add(title, description string, tags []components.Tag) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("todo-%d", s.nextID)
	s.nextID++

	now := time.Now()
	s.todos[id] = &components.Todo{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      components.StatusPending,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return id
}

// Get returns a copy of a todo by ID.
func (s *Store) Get(id string) (components.Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	todo, ok := s.todos[id]
	if !ok {
		return components.Todo{}, false
	}
	return *todo, true
}

// Toggle toggles the completed status of a todo.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return false
	}

	if todo.Status == components.StatusCompleted {
		todo.Status = components.StatusPending
	} else {
		todo.Status = components.StatusCompleted
	}
	todo.UpdatedAt = time.Now()
	return true
}

// List returns copies of all todos, optionally filtered by status, oldest
// first.
func (s *Store) List(status *components.Status) []components.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []components.Todo
	for _, todo := range s.todos {
		if status != nil && todo.Status != *status {
			continue
		}
		result = append(result, *todo)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result
}

// Stats returns statistics about the todos.
func (s *Store) Stats() components.TodoStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats components.TodoStats
	for _, todo := range s.todos {
		stats.Total++
		if todo.Status == components.StatusCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}

	return stats
}
