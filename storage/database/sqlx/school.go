package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/pamoja/core/school"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *sqlx.DB) school.Repository {
	return &schoolRepository{db: db}
}

const (
	selectSchool = `SELECT id, owner_id, name, city, goal, created_at FROM school`
	selectEvent  = `SELECT id, school_id, title, location, date, created_at, updated_at FROM event`
)

func (repo *schoolRepository) getSchool(query string, args ...interface{}) (school.School, error) {
	var sch school.School
	if err := repo.db.Get(&sch, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "getting school")
	}
	return sch, nil
}

func (repo *schoolRepository) CreateSchool(sch school.School) (school.School, error) {
	err := repo.db.Get(&sch.ID,
		`INSERT INTO school (owner_id, name, city, goal, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sch.OwnerID, sch.Name, sch.City, sch.Goal, sch.CreatedAt,
	)
	if err != nil {
		return school.School{}, errors.Wrap(err, "creating school")
	}
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(id int) (school.School, error) {
	return repo.getSchool(selectSchool+` WHERE id = $1`, id)
}

func (repo *schoolRepository) GetSchoolByOwnerID(ownerID int) (school.School, error) {
	return repo.getSchool(selectSchool+` WHERE owner_id = $1`, ownerID)
}

func (repo *schoolRepository) QueryAllSchools() ([]school.School, error) {
	schools := make([]school.School, 0)
	if err := repo.db.Select(&schools, selectSchool+` ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying schools")
	}
	return schools, nil
}

func (repo *schoolRepository) CreateEvent(evt school.Event) (school.Event, error) {
	err := repo.db.Get(&evt.ID,
		`INSERT INTO event (school_id, title, location, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		evt.SchoolID, evt.Title, evt.Location, evt.Date, evt.CreatedAt, evt.UpdatedAt,
	)
	if err != nil {
		return school.Event{}, errors.Wrap(err, "creating event")
	}
	return evt, nil
}

func (repo *schoolRepository) GetEventByID(id int) (school.Event, error) {
	var evt school.Event
	if err := repo.db.Get(&evt, selectEvent+` WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return school.Event{}, school.ErrEventNotFound
		}
		return school.Event{}, errors.Wrap(err, "getting event")
	}
	return evt, nil
}

func (repo *schoolRepository) QueryEventsBySchoolID(schoolID int) ([]school.Event, error) {
	events := make([]school.Event, 0)
	if err := repo.db.Select(&events, selectEvent+` WHERE school_id = $1 ORDER BY id`, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	return events, nil
}

func (repo *schoolRepository) UpdateEvent(evt school.Event) (school.Event, error) {
	res, err := repo.db.Exec(
		`UPDATE event SET title = $1, location = $2, date = $3, updated_at = $4 WHERE id = $5`,
		evt.Title, evt.Location, evt.Date, evt.UpdatedAt, evt.ID,
	)
	if err != nil {
		return school.Event{}, errors.Wrap(err, "updating event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.Event{}, school.ErrEventNotFound
	}
	return evt, nil
}

func (repo *schoolRepository) DeleteEventByID(id int) error {
	res, err := repo.db.Exec(`DELETE FROM event WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return school.ErrEventNotFound
	}
	return nil
}
