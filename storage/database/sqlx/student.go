package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/pamoja/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

const (
	selectStudent  = `SELECT id, owner_id, school_id, first_name, last_name, grade, goal, created_at FROM student`
	selectDonation = `SELECT id, student_id, donor_name, amount, reference, created_at FROM donation`
)

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	err := repo.db.Get(&st.ID,
		`INSERT INTO student (owner_id, school_id, first_name, last_name, grade, goal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		st.OwnerID, st.SchoolID, st.FirstName, st.LastName, st.Grade, st.Goal, st.CreatedAt,
	)
	if err != nil {
		return student.Student{}, errors.Wrap(err, "creating student")
	}
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	var st student.Student
	if err := repo.db.Get(&st, selectStudent+` WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return st, nil
}

// QueryStudentsBySchoolID returns a school's students in enrollment order;
// ranking tie-breaks rely on this.
func (repo *studentRepository) QueryStudentsBySchoolID(schoolID int) ([]student.Student, error) {
	students := make([]student.Student, 0)
	if err := repo.db.Select(&students, selectStudent+` WHERE school_id = $1 ORDER BY id`, schoolID); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo *studentRepository) CreateDonation(don student.Donation) (student.Donation, error) {
	err := repo.db.Get(&don.ID,
		`INSERT INTO donation (student_id, donor_name, amount, reference, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		don.StudentID, don.DonorName, don.Amount, don.Reference, don.CreatedAt,
	)
	if err != nil {
		return student.Donation{}, errors.Wrap(err, "creating donation")
	}
	return don, nil
}

func (repo *studentRepository) QueryDonationsByStudentID(studentID int) ([]student.Donation, error) {
	donations := make([]student.Donation, 0)
	if err := repo.db.Select(&donations, selectDonation+` WHERE student_id = $1 ORDER BY id`, studentID); err != nil {
		return nil, errors.Wrap(err, "querying donations")
	}
	return donations, nil
}
