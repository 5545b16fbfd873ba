package schedule

import (
	"errors"
	"sort"
)

var (
	// errors
	ErrClassNotFound = errors.New("class not found")
)

type (
	Repository interface {
		QueryAllClasses() ([]Class, error)
		GetClassByID(id string) (Class, error)
		GetClassByName(name string) (Class, error)
		QueryCoursesByClass(classID string) ([]Course, error)
		QueryAllEntries() ([]Entry, error)
	}

	ServiceInterface interface {
		Classes() ([]Class, error)
		ClassByID(id string) (Class, error)
		ClassByName(name string) (Class, error)
		WeeklyByClass(classID string) (Weekly, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Classes() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

func (svc *service) ClassByID(id string) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *service) ClassByName(name string) (Class, error) {
	return svc.repo.GetClassByName(name)
}

// WeeklyByClass builds the class timetable: entries of the class's courses
// grouped by day, each day ordered by start time ascending. Lexicographic
// comparison is enough since times are zero-padded "HH:MM".
func (svc *service) WeeklyByClass(classID string) (Weekly, error) {
	courses, err := svc.repo.QueryCoursesByClass(classID)
	if err != nil {
		return nil, err
	}
	courseIDs := make(map[string]struct{}, len(courses))
	for _, c := range courses {
		courseIDs[c.ID] = struct{}{}
	}

	entries, err := svc.repo.QueryAllEntries()
	if err != nil {
		return nil, err
	}

	weekly := make(Weekly, len(Days))
	for _, e := range entries {
		if _, ok := courseIDs[e.CourseID]; ok {
			weekly[e.Day] = append(weekly[e.Day], e)
		}
	}
	for day := range weekly {
		sort.SliceStable(weekly[day], func(i, j int) bool {
			return weekly[day][i].StartTime < weekly[day][j].StartTime
		})
	}
	return weekly, nil
}
