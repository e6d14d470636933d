package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/anonto42/chirp/backend/internal/models"
	"github.com/anonto42/chirp/backend/internal/repositories"
)

// NotificationRepository is an in-memory repositories.NotificationRepository
type NotificationRepository struct {
	mu     sync.Mutex
	clock  clock
	nextID uint
	rows   map[uint]*models.Notification
}

var _ repositories.NotificationRepository = (*NotificationRepository)(nil)

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{rows: make(map[uint]*models.Notification)}
}

func (r *NotificationRepository) CreateNotification(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = r.clock.now()
	stored := *n
	r.rows[n.ID] = &stored
	return nil
}

func (r *NotificationRepository) GetByRecipientID(_ context.Context, recipientID string) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for _, n := range r.rows {
		if n.ToID == recipientID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *NotificationRepository) GetNotificationByID(_ context.Context, id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *n
	return &c, nil
}

func (r *NotificationRepository) GetUnreadCount(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.rows {
		if n.ToID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkAllAsRead(_ context.Context, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.rows {
		if n.ToID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (r *NotificationRepository) DeleteNotification(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *NotificationRepository) DeleteByRecipientID(_ context.Context, recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, row := range r.rows {
		if row.ToID == recipientID {
			delete(r.rows, id)
			n++
		}
	}
	return n, nil
}
