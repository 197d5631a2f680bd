package dummydb

import (
	"sort"

	"github.com/trezcool/pamoja/core/student"
)

type studentRepository struct {
	students  *studentTable
	donations *donationTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{students: db.student, donations: db.donation}
}

func (repo *studentRepository) CreateStudent(st student.Student) (student.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	repo.students.lastID++
	st.ID = repo.students.lastID
	repo.students.table[st.ID] = &st
	return st, nil
}

func (repo *studentRepository) GetStudentByID(id int) (student.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	if st, ok := repo.students.table[id]; ok {
		return *st, nil
	}
	return student.Student{}, student.ErrNotFound
}

// QueryStudentsBySchoolID returns a school's students sorted by ID, ie. in
// enrollment order; ranking tie-breaks rely on this.
func (repo *studentRepository) QueryStudentsBySchoolID(schoolID int) ([]student.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	students := make([]student.Student, 0)
	for _, st := range repo.students.table {
		if st.SchoolID == schoolID {
			students = append(students, *st)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *studentRepository) CreateDonation(don student.Donation) (student.Donation, error) {
	repo.donations.Lock()
	defer repo.donations.Unlock()

	repo.donations.lastID++
	don.ID = repo.donations.lastID
	repo.donations.table[don.ID] = &don
	return don, nil
}

func (repo *studentRepository) QueryDonationsByStudentID(studentID int) ([]student.Donation, error) {
	repo.donations.RLock()
	defer repo.donations.RUnlock()

	donations := make([]student.Donation, 0)
	for _, don := range repo.donations.table {
		if don.StudentID == studentID {
			donations = append(donations, *don)
		}
	}
	sort.Slice(donations, func(i, j int) bool { return donations[i].ID < donations[j].ID })
	return donations, nil
}
