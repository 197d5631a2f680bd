package dummydb

import (
	"sync"

	"github.com/trezcool/pamoja/core/school"
	"github.com/trezcool/pamoja/core/student"
	"github.com/trezcool/pamoja/core/user"
)

// Package dummydb provides in-memory repositories backed by mutex-guarded
// maps. They are the stub store used by service and handler tests, and handy
// for local hacking without postgres. IDs are positive integers assigned
// monotonically per table, like their serial counterparts.

type (
	DB struct {
		user     *userTable
		school   *schoolTable
		event    *eventTable
		student  *studentTable
		donation *donationTable
	}

	userTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*user.User
	}

	schoolTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*school.School
	}

	eventTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*school.Event
	}

	studentTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*student.Student
	}

	donationTable struct {
		sync.RWMutex
		lastID int
		table  map[int]*student.Donation
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:     &userTable{table: make(map[int]*user.User)},
		school:   &schoolTable{table: make(map[int]*school.School)},
		event:    &eventTable{table: make(map[int]*school.Event)},
		student:  &studentTable{table: make(map[int]*student.Student)},
		donation: &donationTable{table: make(map[int]*student.Donation)},
	}
	return db, nil
}
