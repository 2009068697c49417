package profiles

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"doomdeck/db"
	"doomdeck/registry"
)

var (
	// ErrAlreadyInQueue is returned when appending a profile that already
	// has an item in the target queue.
	ErrAlreadyInQueue = errors.New("profile is already in this queue")

	// ErrQueueNameTaken is returned when creating a queue whose name
	// already exists.
	ErrQueueNameTaken = errors.New("queue name is already in use")
)

// QueueManager maintains named ordered lists of profiles. Order indices are
// kept contiguous 0..N-1 after every mutation.
type QueueManager struct {
	reg *registry.Registry
}

func NewQueueManager(reg *registry.Registry) *QueueManager {
	return &QueueManager{reg: reg}
}

// Create stores a new queue and one item per profile id, in the given
// order.
func (q *QueueManager) Create(name string, orderedProfileIDs []uint) (*db.Queue, error) {
	if len(name) < minNameLen {
		return nil, fmt.Errorf("queue %q: %w", name, ErrNameTooShort)
	}
	if id, dup := duplicateProfileID(orderedProfileIDs); dup {
		return nil, fmt.Errorf("queue %q, profile %d: %w", name, id, ErrAlreadyInQueue)
	}
	var count int64
	if err := q.reg.DB().Model(&db.Queue{}).Where("LOWER(name) = LOWER(?)", name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("queue %q: %w", name, ErrQueueNameTaken)
	}

	queue := &db.Queue{Name: name}
	if err := q.reg.DB().Create(queue).Error; err != nil {
		return nil, err
	}
	if err := q.insertItems(queue.ID, orderedProfileIDs); err != nil {
		return nil, err
	}
	return queue, nil
}

// ReplaceItems is a full-overwrite reorder: every existing item is deleted
// and the given profile ids are reinserted at indices 0..N-1.
func (q *QueueManager) ReplaceItems(queueID uint, orderedProfileIDs []uint) error {
	if _, err := q.Queue(queueID); err != nil {
		return err
	}
	if id, dup := duplicateProfileID(orderedProfileIDs); dup {
		return fmt.Errorf("queue %d, profile %d: %w", queueID, id, ErrAlreadyInQueue)
	}
	if err := q.reg.DB().Where("queue_id = ?", queueID).Delete(&db.QueueItem{}).Error; err != nil {
		return err
	}
	return q.insertItems(queueID, orderedProfileIDs)
}

// AppendItem adds a profile at the end of the queue.
func (q *QueueManager) AppendItem(queueID, profileID uint) error {
	if _, err := q.Queue(queueID); err != nil {
		return err
	}

	var count int64
	err := q.reg.DB().Model(&db.QueueItem{}).
		Where("queue_id = ? AND profile_id = ?", queueID, profileID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("queue %d, profile %d: %w", queueID, profileID, ErrAlreadyInQueue)
	}

	next := 0
	var last db.QueueItem
	err = q.reg.DB().Where("queue_id = ?", queueID).Order("order_index DESC").First(&last).Error
	if err == nil {
		next = last.OrderIndex + 1
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return q.reg.DB().Create(&db.QueueItem{QueueID: queueID, ProfileID: profileID, OrderIndex: next}).Error
}

// RemoveItem deletes the matching item and renumbers the remaining items
// to contiguous indices, preserving relative order.
func (q *QueueManager) RemoveItem(queueID, profileID uint) error {
	result := q.reg.DB().Where("queue_id = ? AND profile_id = ?", queueID, profileID).Delete(&db.QueueItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("queue %d, profile %d: %w", queueID, profileID, registry.ErrNotFound)
	}
	return q.compact(queueID)
}

// Delete removes the queue and all of its items. Items go first so a
// partial failure cannot orphan them.
func (q *QueueManager) Delete(queueID uint) error {
	if _, err := q.Queue(queueID); err != nil {
		return err
	}
	if err := q.reg.DB().Where("queue_id = ?", queueID).Delete(&db.QueueItem{}).Error; err != nil {
		return err
	}
	return q.reg.DB().Delete(&db.Queue{}, queueID).Error
}

// Queue fetches one queue by id.
func (q *QueueManager) Queue(queueID uint) (*db.Queue, error) {
	var queue db.Queue
	if err := q.reg.DB().First(&queue, queueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("queue %d: %w", queueID, registry.ErrNotFound)
		}
		return nil, err
	}
	return &queue, nil
}

// Queues lists all queues in id order.
func (q *QueueManager) Queues() ([]db.Queue, error) {
	var rows []db.Queue
	err := q.reg.DB().Order("id").Find(&rows).Error
	return rows, err
}

// Items lists a queue's items in order-index order.
func (q *QueueManager) Items(queueID uint) ([]db.QueueItem, error) {
	var items []db.QueueItem
	err := q.reg.DB().Where("queue_id = ?", queueID).Order("order_index").Find(&items).Error
	return items, err
}

// duplicateProfileID returns the first profile id appearing twice in the
// ordered list, if any.
func duplicateProfileID(orderedProfileIDs []uint) (uint, bool) {
	seen := make(map[uint]bool, len(orderedProfileIDs))
	for _, profileID := range orderedProfileIDs {
		if seen[profileID] {
			return profileID, true
		}
		seen[profileID] = true
	}
	return 0, false
}

func (q *QueueManager) insertItems(queueID uint, orderedProfileIDs []uint) error {
	for i, profileID := range orderedProfileIDs {
		item := &db.QueueItem{QueueID: queueID, ProfileID: profileID, OrderIndex: i}
		if err := q.reg.DB().Create(item).Error; err != nil {
			return err
		}
	}
	return nil
}

// compact renumbers a queue's items to 0..N-1 in their current order.
func (q *QueueManager) compact(queueID uint) error {
	items, err := q.Items(queueID)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].OrderIndex == i {
			continue
		}
		err := q.reg.DB().Model(&db.QueueItem{}).
			Where("id = ?", items[i].ID).
			Update("order_index", i).Error
		if err != nil {
			return err
		}
	}
	return nil
}
