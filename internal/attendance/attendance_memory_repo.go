package attendance

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go-attendance/internal/employee"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dayKey struct {
	employeeID uuid.UUID
	date       string
}

type memoryRepository struct {
	mu        *sync.RWMutex
	items     map[uuid.UUID]Attendance
	byDay     map[dayKey]uuid.UUID
	employees employee.Repository
}

// NewMemoryRepository keeps attendance in process memory. The
// (employee, date) pair is unique as in the durable store; employees are
// resolved through the given store when a filter asks for them.
func NewMemoryRepository(employees employee.Repository) Repository {
	return &memoryRepository{
		mu:        &sync.RWMutex{},
		items:     make(map[uuid.UUID]Attendance),
		byDay:     make(map[dayKey]uuid.UUID),
		employees: employees,
	}
}

func (r *memoryRepository) WithTx(*sql.Tx) Repository {
	return r
}

func (r *memoryRepository) FindByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (*Attendance, error) {
	uid, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[dayKey{employeeID: uid, date: date.Format(dateLayout)}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a := r.items[id]
	return &a, nil
}

func (r *memoryRepository) Create(_ context.Context, a *Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey{employeeID: a.EmployeeID, date: a.Date.Format(dateLayout)}
	if _, exists := r.byDay[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	if _, exists := r.items[a.ID]; exists {
		return gorm.ErrDuplicatedKey
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	stored := *a
	stored.Employee = nil
	r.items[a.ID] = stored
	r.byDay[key] = a.ID
	return nil
}

func (r *memoryRepository) Update(_ context.Context, a *Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.items[a.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	oldKey := dayKey{employeeID: prev.EmployeeID, date: prev.Date.Format(dateLayout)}
	newKey := dayKey{employeeID: a.EmployeeID, date: a.Date.Format(dateLayout)}
	if newKey != oldKey {
		if _, taken := r.byDay[newKey]; taken {
			return gorm.ErrDuplicatedKey
		}
		delete(r.byDay, oldKey)
		r.byDay[newKey] = a.ID
	}

	a.UpdatedAt = time.Now()
	stored := *a
	stored.Employee = nil
	r.items[a.ID] = stored
	return nil
}

func (r *memoryRepository) Query(ctx context.Context, filter Filter) ([]Attendance, error) {
	r.mu.RLock()
	records := make([]Attendance, 0, len(r.items))
	for _, a := range r.items {
		if filter.EmployeeID != "" && a.EmployeeID.String() != filter.EmployeeID {
			continue
		}
		if filter.Date != nil && !sameDay(a.Date, *filter.Date) {
			continue
		}
		if filter.From != nil && a.Date.Format(dateLayout) < filter.From.Format(dateLayout) {
			continue
		}
		if filter.To != nil && a.Date.Format(dateLayout) > filter.To.Format(dateLayout) {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		records = append(records, a)
	}
	r.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		di, dj := records[i].Date, records[j].Date
		if !di.Equal(dj) {
			if filter.NewestFirst {
				return di.After(dj)
			}
			return di.Before(dj)
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	if filter.WithEmployee && r.employees != nil {
		for i := range records {
			if e, err := r.employees.FindByID(ctx, records[i].EmployeeID.String()); err == nil {
				records[i].Employee = e
			}
		}
	}
	return records, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format(dateLayout) == b.Format(dateLayout)
}
