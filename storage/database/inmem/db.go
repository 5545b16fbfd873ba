package inmemdb

import (
	"sync"

	"github.com/trezcool/kelasi/core/absence"
	"github.com/trezcool/kelasi/core/schedule"
	"github.com/trezcool/kelasi/core/user"
)

type (
	DB struct {
		users     *userTable
		timetable *timetableTable
		claims    *claimsTable
	}

	userTable struct {
		sync.RWMutex
		rows []*user.User
		idx  map[string]*user.User
	}

	timetableTable struct {
		sync.RWMutex
		classes  []*schedule.Class
		classIdx map[string]*schedule.Class
		courses  []*schedule.Course
		entries  []*schedule.Entry
	}

	// claimsTable guards absences and justifications under one lock so a
	// resolution updates both or neither.
	claimsTable struct {
		sync.RWMutex
		absences   []*absence.Absence
		absenceIdx map[string]*absence.Absence
		justifs    []*absence.Justification
		justifIdx  map[string]*absence.Justification
	}
)

func Open() (*DB, error) {
	db := &DB{
		users: &userTable{idx: make(map[string]*user.User)},
		timetable: &timetableTable{
			classIdx: make(map[string]*schedule.Class),
		},
		claims: &claimsTable{
			absenceIdx: make(map[string]*absence.Absence),
			justifIdx:  make(map[string]*absence.Justification),
		},
	}
	return db, nil
}
