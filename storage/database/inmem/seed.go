package inmemdb

import (
	"time"

	"github.com/trezcool/kelasi/core/absence"
	"github.com/trezcool/kelasi/core/schedule"
	"github.com/trezcool/kelasi/core/user"
)

// Seed loads the demo dataset: three users, three classes, the Informatique 3A
// course catalog and timetable, four absences and one approved justification.
// Called once at startup; there is no persistence across runs.
func (db *DB) Seed() {
	db.users.Lock()
	for _, usr := range seedUsers {
		row := usr
		db.users.rows = append(db.users.rows, &row)
		db.users.idx[row.ID] = &row
	}
	db.users.Unlock()

	db.timetable.Lock()
	for _, cls := range seedClasses {
		row := cls
		db.timetable.classes = append(db.timetable.classes, &row)
		db.timetable.classIdx[row.ID] = &row
	}
	for _, crs := range seedCourses {
		row := crs
		db.timetable.courses = append(db.timetable.courses, &row)
	}
	for _, e := range seedEntries {
		row := e
		db.timetable.entries = append(db.timetable.entries, &row)
	}
	db.timetable.Unlock()

	db.claims.Lock()
	for _, abs := range seedAbsences {
		row := abs
		db.claims.absences = append(db.claims.absences, &row)
		db.claims.absenceIdx[row.ID] = &row
	}
	for _, justif := range seedJustifications {
		row := justif
		db.claims.justifs = append(db.claims.justifs, &row)
		db.claims.justifIdx[row.ID] = &row
	}
	db.claims.Unlock()
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var seedUsers = []user.User{
	{
		ID:        "1",
		Email:     "student@example.com",
		FirstName: "Ahmed",
		LastName:  "Benali",
		Role:      user.RoleStudent,
		Avatar:    "/placeholder.svg",
		Class:     "Informatique 3A",
	},
	{
		ID:        "2",
		Email:     "supervisor@example.com",
		FirstName: "Marie",
		LastName:  "Dubois",
		Role:      user.RoleSupervisor,
		Avatar:    "/placeholder.svg",
	},
	{
		ID:        "3",
		Email:     "student2@example.com",
		FirstName: "Sarah",
		LastName:  "Mansour",
		Role:      user.RoleStudent,
		Avatar:    "/placeholder.svg",
		Class:     "Informatique 3A",
	},
}

var seedClasses = []schedule.Class{
	{ID: "1", Name: "Informatique 3A", Department: "Informatique"},
	{ID: "2", Name: "Mathématiques 2A", Department: "Mathématiques"},
	{ID: "3", Name: "Chimie 1A", Department: "Sciences"},
}

var seedCourses = []schedule.Course{
	{
		ID:        "1",
		Name:      "Programmation Web",
		ClassID:   "1",
		ClassName: "Informatique 3A",
		Schedule:  "Lundi 9:00 - 12:00",
	},
	{
		ID:        "2",
		Name:      "Base de Données",
		ClassID:   "1",
		ClassName: "Informatique 3A",
		Schedule:  "Mardi 14:00 - 17:00",
	},
	{
		ID:        "3",
		Name:      "Intelligence Artificielle",
		ClassID:   "1",
		ClassName: "Informatique 3A",
		Schedule:  "Jeudi 9:00 - 12:00",
	},
}

var seedEntries = []schedule.Entry{
	{
		ID:         "1",
		Day:        "Lundi",
		StartTime:  "09:00",
		EndTime:    "12:00",
		CourseID:   "1",
		CourseName: "Programmation Web",
		ClassName:  "Informatique 3A",
		Location:   "Salle A101",
		Teacher:    "Dr. Martin",
	},
	{
		ID:         "2",
		Day:        "Mardi",
		StartTime:  "14:00",
		EndTime:    "17:00",
		CourseID:   "2",
		CourseName: "Base de Données",
		ClassName:  "Informatique 3A",
		Location:   "Salle B204",
		Teacher:    "Prof. Laurent",
	},
	{
		ID:         "3",
		Day:        "Jeudi",
		StartTime:  "09:00",
		EndTime:    "12:00",
		CourseID:   "3",
		CourseName: "Intelligence Artificielle",
		ClassName:  "Informatique 3A",
		Location:   "Labo Info 2",
		Teacher:    "Dr. Bernard",
	},
	{
		ID:         "4",
		Day:        "Vendredi",
		StartTime:  "08:00",
		EndTime:    "10:00",
		CourseID:   "2",
		CourseName: "Base de Données",
		ClassName:  "Informatique 3A",
		Location:   "Labo Info 1",
		Teacher:    "Prof. Laurent",
	},
}

var seedAbsences = []absence.Absence{
	{
		ID:              "1",
		StudentID:       "1",
		Date:            date(2023, time.October, 15),
		CourseID:        "1",
		CourseName:      "Programmation Web",
		Justified:       true,
		JustificationID: "1",
	},
	{
		ID:         "2",
		StudentID:  "1",
		Date:       date(2023, time.October, 20),
		CourseID:   "2",
		CourseName: "Base de Données",
	},
	{
		ID:         "3",
		StudentID:  "3",
		Date:       date(2023, time.October, 22),
		CourseID:   "3",
		CourseName: "Intelligence Artificielle",
	},
	{
		ID:         "4",
		StudentID:  "1",
		Date:       date(2023, time.November, 5),
		CourseID:   "1",
		CourseName: "Programmation Web",
	},
}

var seedJustifications = []absence.Justification{
	{
		ID:                "1",
		AbsenceID:         "1",
		StudentID:         "1",
		Date:              date(2023, time.October, 16),
		Reason:            "Certificat médical",
		DocumentURL:       "/placeholder.svg",
		Status:            absence.StatusApproved,
		SupervisorID:      "2",
		SupervisorComment: "Certificat validé",
	},
}
