package employee

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"go-attendance/internal/department"
	"go-attendance/internal/designation"
	"go-attendance/internal/shared/database"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memoryRepository struct {
	mu           *sync.RWMutex
	items        map[uuid.UUID]Employee
	departments  department.Repository
	designations designation.Repository
	inUse        []database.InUseFunc
}

// NewMemoryRepository keeps employees in process memory and resolves
// department and designation references through the given stores. Delete
// is refused while any inUse check reports a reference.
func NewMemoryRepository(
	departments department.Repository,
	designations designation.Repository,
	inUse ...database.InUseFunc,
) Repository {
	return &memoryRepository{
		inUse:        inUse,
		mu:           &sync.RWMutex{},
		items:        make(map[uuid.UUID]Employee),
		departments:  departments,
		designations: designations,
	}
}

func (r *memoryRepository) WithTx(*sql.Tx) Repository {
	return r
}

func (r *memoryRepository) Create(_ context.Context, empl *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[empl.ID]; exists || r.emailTaken(empl.Email, empl.ID) {
		return gorm.ErrDuplicatedKey
	}

	now := time.Now()
	empl.CreatedAt = now
	empl.UpdatedAt = now
	stored := *empl
	stored.Department = nil
	stored.Designation = nil
	r.items[empl.ID] = stored
	return nil
}

func (r *memoryRepository) FindAll(ctx context.Context, filter Filter) ([]Employee, error) {
	r.mu.RLock()
	q := strings.ToLower(strings.TrimSpace(filter.Query))
	empls := make([]Employee, 0, len(r.items))
	for _, e := range r.items {
		if filter.DepartmentID != "" && e.DepartmentID.String() != filter.DepartmentID {
			continue
		}
		if filter.DesignationID != "" && e.DesignationID.String() != filter.DesignationID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Name), q) && !strings.Contains(strings.ToLower(e.Email), q) {
			continue
		}
		empls = append(empls, e)
	}
	r.mu.RUnlock()

	sort.Slice(empls, func(i, j int) bool { return empls[i].Name < empls[j].Name })
	for i := range empls {
		r.resolve(ctx, &empls[i])
	}
	return empls, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id string) (*Employee, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	r.mu.RLock()
	empl, ok := r.items[uid]
	r.mu.RUnlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	r.resolve(ctx, &empl)
	return &empl, nil
}

func (r *memoryRepository) Update(_ context.Context, empl *Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[empl.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if r.emailTaken(empl.Email, empl.ID) {
		return gorm.ErrDuplicatedKey
	}

	empl.UpdatedAt = time.Now()
	stored := *empl
	stored.Department = nil
	stored.Designation = nil
	r.items[empl.ID] = stored
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

// resolve fills the department and designation the way Preload does.
// Missing references are left nil.
func (r *memoryRepository) resolve(ctx context.Context, empl *Employee) {
	if r.departments != nil {
		if d, err := r.departments.FindByID(ctx, empl.DepartmentID.String()); err == nil {
			empl.Department = d
		}
	}
	if r.designations != nil {
		if d, err := r.designations.FindByID(ctx, empl.DesignationID.String()); err == nil {
			empl.Designation = d
		}
	}
}

func (r *memoryRepository) emailTaken(email string, except uuid.UUID) bool {
	for id, e := range r.items {
		if id != except && strings.EqualFold(e.Email, email) {
			return true
		}
	}
	return false
}
