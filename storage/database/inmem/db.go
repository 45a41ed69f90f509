package inmemdb

import (
	"sync"

	"github.com/attendoapp/attendo/core/attendance"
	"github.com/attendoapp/attendo/core/user"
)

// DB is an in-memory store with the same behavior as the SQL-backed one.
// It backs the admin CLI dry runs and the API test suite.
type DB struct {
	user       *userTable
	attendance *attendanceTable
}

type userTable struct {
	mutex sync.RWMutex
	table map[string]*user.User
}

type attendanceTable struct {
	mutex     sync.RWMutex
	subjects  map[string][]string
	schedules map[string]attendance.Schedule
	ledgers   map[string]attendance.Ledger
	holidays  map[string]attendance.HolidaySet
}

func NewDB() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		attendance: &attendanceTable{
			subjects:  make(map[string][]string),
			schedules: make(map[string]attendance.Schedule),
			ledgers:   make(map[string]attendance.Ledger),
			holidays:  make(map[string]attendance.HolidaySet),
		},
	}
}
