package schedule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kelasi/core/schedule"
	inmemdb "github.com/trezcool/kelasi/storage/database/inmem"
)

// stubRepository serves fixtures a seeded DB cannot express, like two
// sessions on the same day.
type stubRepository struct {
	classes []schedule.Class
	courses []schedule.Course
	entries []schedule.Entry
}

var _ schedule.Repository = (*stubRepository)(nil)

func (r *stubRepository) QueryAllClasses() ([]schedule.Class, error) { return r.classes, nil }

func (r *stubRepository) GetClassByID(id string) (schedule.Class, error) {
	for _, c := range r.classes {
		if c.ID == id {
			return c, nil
		}
	}
	return schedule.Class{}, schedule.ErrClassNotFound
}

func (r *stubRepository) GetClassByName(name string) (schedule.Class, error) {
	for _, c := range r.classes {
		if c.Name == name {
			return c, nil
		}
	}
	return schedule.Class{}, schedule.ErrClassNotFound
}

func (r *stubRepository) QueryCoursesByClass(classID string) ([]schedule.Course, error) {
	courses := make([]schedule.Course, 0, len(r.courses))
	for _, c := range r.courses {
		if c.ClassID == classID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

func (r *stubRepository) QueryAllEntries() ([]schedule.Entry, error) { return r.entries, nil }

func Test_service_WeeklyByClass(t *testing.T) {
	repo := &stubRepository{
		classes: []schedule.Class{{ID: "1", Name: "Informatique 3A"}, {ID: "2", Name: "Chimie 1A"}},
		courses: []schedule.Course{
			{ID: "1", ClassID: "1"},
			{ID: "2", ClassID: "1"},
			{ID: "3", ClassID: "2"}, // other class; must be filtered out
		},
		entries: []schedule.Entry{
			{ID: "1", Day: "Lundi", StartTime: "09:00", EndTime: "12:00", CourseID: "1"},
			{ID: "2", Day: "Lundi", StartTime: "08:00", EndTime: "09:00", CourseID: "2"},
			{ID: "3", Day: "Mardi", StartTime: "14:00", EndTime: "17:00", CourseID: "2"},
			{ID: "4", Day: "Lundi", StartTime: "10:00", EndTime: "11:00", CourseID: "3"},
		},
	}
	svc := schedule.NewService(repo)

	weekly, err := svc.WeeklyByClass("1")
	require.NoError(t, err)
	require.Len(t, weekly, 2)

	// days ordered by start time ascending
	lundi := weekly["Lundi"]
	require.Len(t, lundi, 2)
	assert.Equal(t, "2", lundi[0].ID)
	assert.Equal(t, "1", lundi[1].ID)

	require.Len(t, weekly["Mardi"], 1)
}

func Test_EntryAt(t *testing.T) {
	weekly := schedule.Weekly{
		"Lundi": {
			{ID: "1", StartTime: "09:00", EndTime: "12:00"},
			{ID: "2", StartTime: "14:00", EndTime: "17:00"},
		},
	}

	tests := []struct {
		name   string
		day    string
		slot   string
		wantID string
		found  bool
	}{
		{"start is inclusive", "Lundi", "09:00", "1", true},
		{"mid slot", "Lundi", "10:30", "1", true},
		{"end is exclusive", "Lundi", "12:00", "", false},
		{"afternoon", "Lundi", "15:00", "2", true},
		{"free slot", "Lundi", "13:00", "", false},
		{"free day", "Mardi", "10:00", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := schedule.EntryAt(weekly, tt.day, tt.slot)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, entry.ID)
		})
	}
}

func Test_service_ClassByName(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	db.Seed()
	svc := schedule.NewService(inmemdb.NewScheduleRepository(db))

	cls, err := svc.ClassByName("Informatique 3A")
	require.NoError(t, err)
	assert.Equal(t, "1", cls.ID)

	_, err = svc.ClassByName("Physique 5A")
	assert.ErrorIs(t, err, schedule.ErrClassNotFound)
}
