package schedule

// Days of the week, in timetable order.
var Days = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

type Class struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

type Course struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ClassID   string `json:"class_id"`
	ClassName string `json:"class_name"` // denormalized
	Schedule  string `json:"schedule"`   // display text, e.g. "Lundi 9:00 - 12:00"
}

// Entry is a single course session in a class timetable.
// StartTime and EndTime are zero-padded "HH:MM" strings; entries of a class
// are assumed not to overlap within a day.
type Entry struct {
	ID         string `json:"id"`
	Day        string `json:"day"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
	ClassName  string `json:"class_name"`
	Location   string `json:"location"`
	Teacher    string `json:"teacher"`
}

// Weekly maps a day name to that day's entries, ordered by start time.
type Weekly map[string][]Entry

// EntryAt returns the entry whose [StartTime, EndTime) interval contains the
// given slot on the given day, if any.
func EntryAt(w Weekly, day, slot string) (Entry, bool) {
	for _, e := range w[day] {
		if e.StartTime <= slot && slot < e.EndTime {
			return e, true
		}
	}
	return Entry{}, false
}
