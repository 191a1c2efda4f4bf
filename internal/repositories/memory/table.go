package memory

import (
	"sync"

	"github.com/yoockh/recruitdesk/internal/utils"
)

// table is one in-process collection: rows in insertion order plus an id index.
// Ids start at 1 and are never reused, even across reset.
type table[T any] struct {
	mu     sync.RWMutex
	nextID int64
	rows   []T
	pos    map[int64]int

	id    func(*T) *int64
	clone func(T) T
}

func newTable[T any](id func(*T) *int64, clone func(T) T) *table[T] {
	return &table[T]{pos: map[int64]int{}, id: id, clone: clone}
}

func (t *table[T]) insert(v *T) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	*t.id(v) = t.nextID
	t.pos[t.nextID] = len(t.rows)
	t.rows = append(t.rows, t.clone(*v))
}

func (t *table[T]) all() []T {
	return t.filter(func(T) bool { return true })
}

func (t *table[T]) filter(keep func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		if keep(r) {
			out = append(out, t.clone(r))
		}
	}
	return out
}

func (t *table[T]) get(id int64) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i, ok := t.pos[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	v := t.clone(t.rows[i])
	return &v, nil
}

// update mutates the stored row under the write lock and returns a copy.
func (t *table[T]) update(id int64, fn func(*T) error) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i, ok := t.pos[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	row := t.clone(t.rows[i])
	if err := fn(&row); err != nil {
		return nil, err
	}
	t.rows[i] = t.clone(row)
	return &row, nil
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *table[T]) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	t.pos = map[int64]int{}
}
