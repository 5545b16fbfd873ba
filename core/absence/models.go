package absence

import (
	"math"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/user"
)

// Justification statuses. Pending is the initial state; Approved and Rejected
// are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// JustificationWindowDays is the grace period (in full days) a student has to
// justify an absence before it is flagged for notification. Display only;
// claims are still accepted after the window closes.
const JustificationWindowDays = 2

var NowFunc = time.Now // mockable

type Absence struct {
	ID              string    `json:"id"`
	StudentID       string    `json:"student_id"`
	Date            time.Time `json:"date"`
	CourseID        string    `json:"course_id"`
	CourseName      string    `json:"course_name"`
	Justified       bool      `json:"justified"`
	JustificationID string    `json:"justification_id,omitempty"`
}

// DaysSince returns the number of full days elapsed since the absence date.
func (a *Absence) DaysSince() int {
	return int(math.Floor(NowFunc().Sub(a.Date).Hours() / 24))
}

// WithinWindow reports whether the absence is still within the justification
// grace period.
func (a *Absence) WithinWindow() bool {
	return a.DaysSince() <= JustificationWindowDays
}

// AbsenceView decorates an Absence with its display labels.
type AbsenceView struct {
	Absence
	DaysSince    int  `json:"days_since"`
	WithinWindow bool `json:"within_window"`
}

func NewAbsenceView(a Absence) AbsenceView {
	return AbsenceView{
		Absence:      a,
		DaysSince:    a.DaysSince(),
		WithinWindow: a.WithinWindow(),
	}
}

type Justification struct {
	ID                string    `json:"id"`
	AbsenceID         string    `json:"absence_id"`
	StudentID         string    `json:"student_id"`
	Date              time.Time `json:"date"` // submitted at
	Reason            string    `json:"reason"`
	DocumentURL       string    `json:"document_url,omitempty"`
	Status            string    `json:"status"`
	SupervisorID      string    `json:"supervisor_id,omitempty"`
	SupervisorComment string    `json:"supervisor_comment,omitempty"`
}

func (j *Justification) IsPending() bool {
	return j.Status == StatusPending
}

// NewJustification contains information needed for a student to claim one of
// their absences.
type NewJustification struct {
	AbsenceID   string `json:"absence_id" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	DocumentURL string `json:"document_url"`
}

func (nj *NewJustification) Validate(validate *validator.Validate) error {
	nj.AbsenceID = core.CleanString(nj.AbsenceID)
	nj.Reason = core.CleanString(nj.Reason)
	nj.DocumentURL = core.CleanString(nj.DocumentURL)
	return validate.Struct(nj)
}

// Resolution defines a supervisor's decision on a pending justification.
type Resolution struct {
	Outcome string `json:"outcome" validate:"required,outcome"`
	Comment string `json:"comment"`
}

func (r *Resolution) Validate(validate *validator.Validate) error {
	r.Outcome = core.CleanString(r.Outcome, true /* lower */)
	r.Comment = core.CleanString(r.Comment)
	return validate.Struct(r)
}

// RosterEntry aggregates a student's absence counts within a class.
type RosterEntry struct {
	Student     user.User `json:"student"`
	Total       int       `json:"total"`
	Justified   int       `json:"justified"`
	Unjustified int       `json:"unjustified"`
}

// Stats holds global absence counters.
type Stats struct {
	TotalStudents     int     `json:"total_students"`
	TotalAbsences     int     `json:"total_absences"`
	Justified         int     `json:"justified"`
	Unjustified       int     `json:"unjustified"`
	JustificationRate float64 `json:"justification_rate"` // percentage of total
}

// ClassStats holds per-class absence counters.
type ClassStats struct {
	ClassID     string `json:"class_id"`
	ClassName   string `json:"class_name"`
	Total       int    `json:"total"`
	Justified   int    `json:"justified"`
	Unjustified int    `json:"unjustified"`
}

// MonthStats holds per-month absence counters, keyed "YYYY-MM".
type MonthStats struct {
	Month       string `json:"month"`
	Justified   int    `json:"justified"`
	Unjustified int    `json:"unjustified"`
}
