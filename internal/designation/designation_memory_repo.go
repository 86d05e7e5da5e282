package designation

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go-attendance/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memoryRepository keeps designations in process memory. It reports the
// same gorm errors as the postgres repository so error mapping is shared.
type memoryRepository struct {
	mu    *sync.RWMutex
	inUse []database.InUseFunc
	items map[uuid.UUID]Designation
}

// NewMemoryRepository refuses to delete a record while any inUse check
// reports a reference to it.
func NewMemoryRepository(inUse ...database.InUseFunc) Repository {
	return &memoryRepository{
		mu:    &sync.RWMutex{},
		inUse: inUse,
		items: make(map[uuid.UUID]Designation),
	}
}

func (r *memoryRepository) WithTx(*sql.Tx) Repository {
	return r
}

func (r *memoryRepository) Create(_ context.Context, desig *Designation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[desig.ID]; exists || r.nameTaken(desig.Name, desig.ID) {
		return gorm.ErrDuplicatedKey
	}
	if desig.Level == 0 {
		desig.Level = DefaultLevel
	}
	if desig.Level < 1 {
		return gorm.ErrCheckConstraintViolated
	}

	now := time.Now()
	desig.CreatedAt = now
	desig.UpdatedAt = now
	if desig.Status == "" {
		desig.Status = StatusActive
	}
	r.items[desig.ID] = *desig
	return nil
}

func (r *memoryRepository) FindAll(context.Context) ([]Designation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desigs := make([]Designation, 0, len(r.items))
	for _, d := range r.items {
		desigs = append(desigs, d)
	}
	sort.Slice(desigs, func(i, j int) bool {
		if desigs[i].Level != desigs[j].Level {
			return desigs[i].Level < desigs[j].Level
		}
		return desigs[i].Name < desigs[j].Name
	})
	return desigs, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (*Designation, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	desig, ok := r.items[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &desig, nil
}

func (r *memoryRepository) Update(_ context.Context, desig *Designation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[desig.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.nameTaken(desig.Name, desig.ID) {
		return gorm.ErrDuplicatedKey
	}
	if desig.Level < 1 {
		return gorm.ErrCheckConstraintViolated
	}

	desig.UpdatedAt = time.Now()
	r.items[desig.ID] = *desig
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return gorm.ErrRecordNotFound
	}
	// Checks run unlocked because they may read back through this store.
	// A reference added between the check and the delete is not caught;
	// the memory store accepts that gap, Postgres enforces it with a
	// foreign key.
	if err := database.CheckNotReferenced(ctx, id, r.inUse); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[uid]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, uid)
	return nil
}

// nameTaken must be called with the lock held.
func (r *memoryRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, d := range r.items {
		if id != except && d.Name == name {
			return true
		}
	}
	return false
}
