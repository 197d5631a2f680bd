package dummydb

import (
	"sort"

	"github.com/trezcool/pamoja/core/school"
)

type schoolRepository struct {
	schools *schoolTable
	events  *eventTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{schools: db.school, events: db.event}
}

// querySchools returns all schools sorted by ID (insertion order).
func (repo *schoolRepository) querySchools() []school.School {
	schools := make([]school.School, 0, len(repo.schools.table))
	for _, sch := range repo.schools.table {
		schools = append(schools, *sch)
	}
	sort.Slice(schools, func(i, j int) bool { return schools[i].ID < schools[j].ID })
	return schools
}

func (repo *schoolRepository) CreateSchool(sch school.School) (school.School, error) {
	repo.schools.Lock()
	defer repo.schools.Unlock()

	repo.schools.lastID++
	sch.ID = repo.schools.lastID
	repo.schools.table[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(id int) (school.School, error) {
	repo.schools.RLock()
	defer repo.schools.RUnlock()

	if sch, ok := repo.schools.table[id]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) GetSchoolByOwnerID(ownerID int) (school.School, error) {
	repo.schools.RLock()
	defer repo.schools.RUnlock()

	for _, sch := range repo.querySchools() {
		if sch.OwnerID == ownerID {
			return sch, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryAllSchools() ([]school.School, error) {
	repo.schools.RLock()
	defer repo.schools.RUnlock()
	return repo.querySchools(), nil
}

func (repo *schoolRepository) CreateEvent(evt school.Event) (school.Event, error) {
	repo.events.Lock()
	defer repo.events.Unlock()

	repo.events.lastID++
	evt.ID = repo.events.lastID
	repo.events.table[evt.ID] = &evt
	return evt, nil
}

func (repo *schoolRepository) GetEventByID(id int) (school.Event, error) {
	repo.events.RLock()
	defer repo.events.RUnlock()

	if evt, ok := repo.events.table[id]; ok {
		return *evt, nil
	}
	return school.Event{}, school.ErrEventNotFound
}

func (repo *schoolRepository) QueryEventsBySchoolID(schoolID int) ([]school.Event, error) {
	repo.events.RLock()
	defer repo.events.RUnlock()

	events := make([]school.Event, 0)
	for _, evt := range repo.events.table {
		if evt.SchoolID == schoolID {
			events = append(events, *evt)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (repo *schoolRepository) UpdateEvent(evt school.Event) (school.Event, error) {
	repo.events.Lock()
	defer repo.events.Unlock()

	if _, ok := repo.events.table[evt.ID]; !ok {
		return school.Event{}, school.ErrEventNotFound
	}
	repo.events.table[evt.ID] = &evt
	return evt, nil
}

func (repo *schoolRepository) DeleteEventByID(id int) error {
	repo.events.Lock()
	defer repo.events.Unlock()

	if _, ok := repo.events.table[id]; !ok {
		return school.ErrEventNotFound
	}
	delete(repo.events.table, id)
	return nil
}
