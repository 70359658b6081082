package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	queueDomain "github.com/allisson/orchestrator/internal/queue/domain"
)

// passthroughTxManager runs fn without a transaction; the memory repository serialises
// access itself.
type passthroughTxManager struct{}

func (passthroughTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memoryStore is an in-memory stand-in for the queue tables. A single mutex plays the
// part of the row locks taken by the SQL repositories.
type memoryStore struct {
	mu     sync.Mutex
	nextID int64
	queues map[string]*queueDomain.Queue
	items  map[uuid.UUID]*queueDomain.QueueItem
	seq    map[uuid.UUID]int64
	order  int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		queues: make(map[string]*queueDomain.Queue),
		items:  make(map[uuid.UUID]*queueDomain.QueueItem),
		seq:    make(map[uuid.UUID]int64),
	}
}

func cloneItem(item *queueDomain.QueueItem) *queueDomain.QueueItem {
	c := *item
	return &c
}

type memoryQueueRepository struct{ s *memoryStore }

func (r *memoryQueueRepository) Create(ctx context.Context, queue *queueDomain.Queue) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.queues[queue.Name]; ok {
		return queueDomain.ErrDuplicateQueueName
	}
	r.s.nextID++
	queue.ID = r.s.nextID
	c := *queue
	r.s.queues[queue.Name] = &c
	return nil
}

func (r *memoryQueueRepository) GetByName(ctx context.Context, name string) (*queueDomain.Queue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.queues[name]
	if !ok {
		return nil, queueDomain.ErrQueueNotFound
	}
	c := *q
	return &c, nil
}

func (r *memoryQueueRepository) ToggleActive(ctx context.Context, name string) (*queueDomain.Queue, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q, ok := r.s.queues[name]
	if !ok {
		return nil, queueDomain.ErrQueueNotFound
	}
	q.IsActive = !q.IsActive
	c := *q
	return &c, nil
}

func (r *memoryQueueRepository) Delete(ctx context.Context, queueID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for name, q := range r.s.queues {
		if q.ID == queueID {
			delete(r.s.queues, name)
			return nil
		}
	}
	return queueDomain.ErrQueueNotFound
}

type memoryItemRepository struct{ s *memoryStore }

func (r *memoryItemRepository) Create(ctx context.Context, item *queueDomain.QueueItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; ok {
		return queueDomain.ErrItemIDConflict
	}
	r.s.order++
	r.s.seq[item.ID] = r.s.order
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

func (r *memoryItemRepository) Get(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[itemID]
	if !ok {
		return nil, queueDomain.ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (r *memoryItemRepository) GetForUpdate(ctx context.Context, itemID uuid.UUID) (*queueDomain.QueueItem, error) {
	return r.Get(ctx, itemID)
}

func (r *memoryItemRepository) Update(ctx context.Context, item *queueDomain.QueueItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.items[item.ID]; !ok {
		return queueDomain.ErrItemNotFound
	}
	r.s.items[item.ID] = cloneItem(item)
	return nil
}

// sorted returns the queue's items with the given status in lease order
// (priority desc, insertion asc). Caller holds the lock.
func (r *memoryItemRepository) sorted(queueID int64, status queueDomain.ItemStatus) []*queueDomain.QueueItem {
	var result []*queueDomain.QueueItem
	for _, item := range r.s.items {
		if item.QueueID == queueID && item.Status == status {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Priority != result[j].Priority {
			return result[i].Priority > result[j].Priority
		}
		return r.s.seq[result[i].ID] < r.s.seq[result[j].ID]
	})
	return result
}

func (r *memoryItemRepository) LeaseNext(
	ctx context.Context,
	queueID int64,
	workerID string,
	now time.Time,
) (*queueDomain.QueueItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	candidates := r.sorted(queueID, queueDomain.StatusPending)
	if len(candidates) == 0 {
		return nil, nil
	}
	item := candidates[0]
	item.MarkRunning(workerID, now)
	return cloneItem(item), nil
}

func (r *memoryItemRepository) ListByStatus(
	ctx context.Context,
	queueID int64,
	status queueDomain.ItemStatus,
	offset, limit int,
) ([]*queueDomain.QueueItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.sorted(queueID, status)
	if offset >= len(items) {
		return []*queueDomain.QueueItem{}, nil
	}
	end := min(offset+limit, len(items))
	result := make([]*queueDomain.QueueItem, 0, end-offset)
	for _, item := range items[offset:end] {
		result = append(result, cloneItem(item))
	}
	return result, nil
}

func (r *memoryItemRepository) CountByQueue(ctx context.Context, queueID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, item := range r.s.items {
		if item.QueueID == queueID {
			count++
		}
	}
	return count, nil
}

func (r *memoryItemRepository) ListExpiredLeases(
	ctx context.Context,
	lockedBefore time.Time,
	limit int,
) ([]*queueDomain.QueueItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*queueDomain.QueueItem
	for _, item := range r.s.items {
		if item.Status == queueDomain.StatusRunning && item.LockedAt != nil && item.LockedAt.Before(lockedBefore) {
			result = append(result, cloneItem(item))
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func newMemoryQueueUseCase() (QueueUseCase, *memoryStore) {
	store := newMemoryStore()
	return NewQueueUseCase(
		passthroughTxManager{},
		&memoryQueueRepository{s: store},
		&memoryItemRepository{s: store},
		3,
	), store
}
