package inmemdb

import (
	"github.com/trezcool/kelasi/core/schedule"
)

type scheduleRepository struct {
	db *timetableTable
}

var _ schedule.Repository = (*scheduleRepository)(nil)

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db.timetable}
}

func (repo *scheduleRepository) QueryAllClasses() ([]schedule.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]schedule.Class, 0, len(repo.db.classes))
	for _, c := range repo.db.classes {
		classes = append(classes, *c)
	}
	return classes, nil
}

func (repo *scheduleRepository) GetClassByID(id string) (schedule.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.classIdx[id]; ok {
		return *cls, nil
	}
	return schedule.Class{}, schedule.ErrClassNotFound
}

func (repo *scheduleRepository) GetClassByName(name string) (schedule.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.classes {
		if cls.Name == name {
			return *cls, nil
		}
	}
	return schedule.Class{}, schedule.ErrClassNotFound
}

func (repo *scheduleRepository) QueryCoursesByClass(classID string) ([]schedule.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]schedule.Course, 0, len(repo.db.courses))
	for _, c := range repo.db.courses {
		if c.ClassID == classID {
			courses = append(courses, *c)
		}
	}
	return courses, nil
}

func (repo *scheduleRepository) QueryAllEntries() ([]schedule.Entry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]schedule.Entry, 0, len(repo.db.entries))
	for _, e := range repo.db.entries {
		entries = append(entries, *e)
	}
	return entries, nil
}
