package buffer

// handles hands out non-zero ids for values; zero means "no handle".
type handles[T any] struct {
	next  uint32
	items map[uint32]T
}

func newHandles[T any]() *handles[T] {
	return &handles[T]{next: 1, items: make(map[uint32]T)}
}

func (h *handles[T]) add(v T) uint32 {
	id := h.next
	h.next++
	h.items[id] = v
	return id
}

func (h *handles[T]) get(id uint32) (T, bool) {
	v, ok := h.items[id]
	return v, ok
}

func (h *handles[T]) remove(id uint32) (T, bool) {
	v, ok := h.items[id]
	if ok {
		delete(h.items, id)
	}
	return v, ok
}

func (h *handles[T]) len() int {
	return len(h.items)
}
