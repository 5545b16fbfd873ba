package absence

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/schedule"
	"github.com/trezcool/kelasi/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("justification not found")
	ErrAbsenceNotFound = errors.New("absence not found")
	ErrAlreadyResolved = errors.New("justification already resolved")

	errUnknownAbsence = "unknown absence"
	errAlreadyClaimed = "a claim is already pending for this absence"
	errJustified      = "this absence is already justified"
)

type (
	Repository interface {
		CreateAbsence(abs Absence) (Absence, error)
		QueryAllAbsences() ([]Absence, error)
		GetAbsenceByID(id string) (Absence, error)
		QueryAbsencesByStudent(studentID string) ([]Absence, error)
		QueryAllJustifications() ([]Justification, error)
		GetJustificationByID(id string) (Justification, error)
		QueryJustificationsByStudent(studentID string) ([]Justification, error)
		QueryJustificationsByAbsence(absenceID string) ([]Justification, error)
		CreateJustification(j Justification) (Justification, error)
		// ResolveJustification atomically flips the justification out of its
		// pending state and, on approval, marks the linked absence justified
		// with a back-reference. It returns the updated pair.
		// Fails with ErrAlreadyResolved when the justification is terminal.
		ResolveJustification(id, status, supervisorID, comment string) (Justification, Absence, error)
	}

	ServiceInterface interface {
		QueryByStudent(studentID string) ([]AbsenceView, error)
		QueryAll() ([]AbsenceView, error)
		JustificationsByStudent(studentID string) ([]Justification, error)
		PendingJustifications() ([]Justification, error)
		Submit(studentID string, nj NewJustification) (Justification, error)
		Resolve(ctx context.Context, id string, res Resolution, supervisorID string) (Justification, Absence, error)
		ClassRoster(classID string) ([]RosterEntry, error)
		Stats() (Stats, error)
		StatsByClass() ([]ClassStats, error)
		StatsByMonth(studentID string) ([]MonthStats, error)
	}

	service struct {
		repo      Repository
		usrRepo   user.Repository
		classRepo schedule.Repository
		mailSvc   core.EmailService
		conf      *core.Config
		newID     func() string
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(
	repo Repository,
	usrRepo user.Repository,
	classRepo schedule.Repository,
	mailSvc core.EmailService,
	conf *core.Config,
	newID func() string,
) ServiceInterface {
	return &service{
		repo:      repo,
		usrRepo:   usrRepo,
		classRepo: classRepo,
		mailSvc:   mailSvc,
		conf:      conf,
		newID:     newID,
	}
}

// QueryByStudent returns the student's absences, most recent first, decorated
// with their justification-window labels.
func (svc *service) QueryByStudent(studentID string) ([]AbsenceView, error) {
	absences, err := svc.repo.QueryAbsencesByStudent(studentID)
	if err != nil {
		return nil, err
	}
	sortAbsencesByDateDesc(absences)
	return views(absences), nil
}

func (svc *service) QueryAll() ([]AbsenceView, error) {
	absences, err := svc.repo.QueryAllAbsences()
	if err != nil {
		return nil, err
	}
	sortAbsencesByDateDesc(absences)
	return views(absences), nil
}

func (svc *service) JustificationsByStudent(studentID string) ([]Justification, error) {
	justifs, err := svc.repo.QueryJustificationsByStudent(studentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(justifs, func(i, j int) bool { return justifs[i].Date.After(justifs[j].Date) })
	return justifs, nil
}

// PendingJustifications returns the supervisor review queue, oldest first.
func (svc *service) PendingJustifications() ([]Justification, error) {
	all, err := svc.repo.QueryAllJustifications()
	if err != nil {
		return nil, err
	}
	pending := make([]Justification, 0, len(all))
	for _, j := range all {
		if j.IsPending() {
			pending = append(pending, j)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool { return pending[i].Date.Before(pending[j].Date) })
	return pending, nil
}

// Submit records a pending claim for one of the student's own unjustified
// absences. The linked absence is not modified until the claim is approved.
func (svc *service) Submit(studentID string, nj NewJustification) (Justification, error) {
	abs, err := svc.repo.GetAbsenceByID(nj.AbsenceID)
	if err != nil || abs.StudentID != studentID {
		// an absence belonging to another student reads as unknown
		return Justification{}, core.NewValidationError(ErrAbsenceNotFound,
			core.FieldError{Field: "absence_id", Error: errUnknownAbsence})
	}
	if abs.Justified {
		return Justification{}, core.NewValidationError(nil,
			core.FieldError{Field: "absence_id", Error: errJustified})
	}

	// a rejected prior claim does not block a new one; a pending one does
	prior, err := svc.repo.QueryJustificationsByAbsence(abs.ID)
	if err != nil {
		return Justification{}, err
	}
	for _, j := range prior {
		if j.IsPending() {
			return Justification{}, core.NewValidationError(nil,
				core.FieldError{Field: "absence_id", Error: errAlreadyClaimed})
		}
	}

	justif := Justification{
		ID:          svc.newID(),
		AbsenceID:   abs.ID,
		StudentID:   studentID,
		Date:        NowFunc().UTC(),
		Reason:      nj.Reason,
		DocumentURL: nj.DocumentURL,
		Status:      StatusPending,
	}
	return svc.repo.CreateJustification(justif)
}

// Resolve applies a supervisor decision to a pending justification.
// On approval the linked absence is marked justified in the same repository
// call; on rejection it is left untouched. Both outcomes are terminal.
func (svc *service) Resolve(ctx context.Context, id string, res Resolution, supervisorID string) (Justification, Absence, error) {
	// simulated review round-trip
	if delay := svc.conf.Server.ResolveDelay; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Justification{}, Absence{}, ctx.Err()
		}
	}

	justif, abs, err := svc.repo.ResolveJustification(id, res.Outcome, supervisorID, res.Comment)
	if err != nil {
		return Justification{}, Absence{}, err
	}

	svc.notifyStudent(justif, abs)
	return justif, abs, nil
}

func (svc *service) notifyStudent(justif Justification, abs Absence) {
	student, err := svc.usrRepo.GetUserByID(justif.StudentID)
	if err != nil {
		return
	}

	var subject, verdict string
	if justif.Status == StatusApproved {
		subject = "Réclamation approuvée"
		verdict = "approuvée"
	} else {
		subject = "Réclamation rejetée"
		verdict = "rejetée"
	}
	body := fmt.Sprintf(
		"Bonjour %s,\n\nVotre réclamation pour l'absence du %s en %s a été %s.",
		student.FullName(), abs.Date.Format("02/01/2006"), abs.CourseName, verdict,
	)
	if justif.SupervisorComment != "" {
		body += fmt.Sprintf("\n\nCommentaire du superviseur : %s", justif.SupervisorComment)
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: student.FullName(), Address: student.Email}},
		Subject: subject,
		BodyStr: body,
	})
}

// ClassRoster aggregates per-student absence counts for a class, students with
// the most unjustified absences first. Ties keep roster order.
func (svc *service) ClassRoster(classID string) ([]RosterEntry, error) {
	cls, err := svc.classRepo.GetClassByID(classID)
	if err != nil {
		return nil, err
	}
	students, err := svc.usrRepo.FilterUsers(user.QueryFilter{Role: user.RoleStudent, Class: cls.Name})
	if err != nil {
		return nil, err
	}

	roster := make([]RosterEntry, 0, len(students))
	for _, student := range students {
		absences, err := svc.repo.QueryAbsencesByStudent(student.ID)
		if err != nil {
			return nil, err
		}
		entry := RosterEntry{Student: student, Total: len(absences)}
		for _, a := range absences {
			if a.Justified {
				entry.Justified++
			} else {
				entry.Unjustified++
			}
		}
		roster = append(roster, entry)
	}
	sort.SliceStable(roster, func(i, j int) bool { return roster[i].Unjustified > roster[j].Unjustified })
	return roster, nil
}

func (svc *service) Stats() (Stats, error) {
	absences, err := svc.repo.QueryAllAbsences()
	if err != nil {
		return Stats{}, err
	}
	students, err := svc.usrRepo.FilterUsers(user.QueryFilter{Role: user.RoleStudent})
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalStudents: len(students),
		TotalAbsences: len(absences),
	}
	for _, a := range absences {
		if a.Justified {
			stats.Justified++
		} else {
			stats.Unjustified++
		}
	}
	if stats.TotalAbsences > 0 {
		stats.JustificationRate = 100 * float64(stats.Justified) / float64(stats.TotalAbsences)
	}
	return stats, nil
}

func (svc *service) StatsByClass() ([]ClassStats, error) {
	classes, err := svc.classRepo.QueryAllClasses()
	if err != nil {
		return nil, err
	}
	absences, err := svc.repo.QueryAllAbsences()
	if err != nil {
		return nil, err
	}
	students, err := svc.usrRepo.FilterUsers(user.QueryFilter{Role: user.RoleStudent})
	if err != nil {
		return nil, err
	}

	classByStudent := make(map[string]string, len(students)) // studentID -> class name
	for _, s := range students {
		classByStudent[s.ID] = s.Class
	}

	stats := make([]ClassStats, len(classes))
	for i, cls := range classes {
		stats[i] = ClassStats{ClassID: cls.ID, ClassName: cls.Name}
	}
	for _, a := range absences {
		clsName, ok := classByStudent[a.StudentID]
		if !ok {
			continue
		}
		for i := range stats {
			if stats[i].ClassName != clsName {
				continue
			}
			stats[i].Total++
			if a.Justified {
				stats[i].Justified++
			} else {
				stats[i].Unjustified++
			}
			break
		}
	}
	return stats, nil
}

// StatsByMonth groups absence counts by "YYYY-MM", oldest month first.
// An empty studentID aggregates over all students.
func (svc *service) StatsByMonth(studentID string) ([]MonthStats, error) {
	var absences []Absence
	var err error
	if studentID != "" {
		absences, err = svc.repo.QueryAbsencesByStudent(studentID)
	} else {
		absences, err = svc.repo.QueryAllAbsences()
	}
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthStats)
	for _, a := range absences {
		month := a.Date.Format("2006-01")
		ms, ok := byMonth[month]
		if !ok {
			ms = &MonthStats{Month: month}
			byMonth[month] = ms
		}
		if a.Justified {
			ms.Justified++
		} else {
			ms.Unjustified++
		}
	}

	stats := make([]MonthStats, 0, len(byMonth))
	for _, ms := range byMonth {
		stats = append(stats, *ms)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })
	return stats, nil
}

func sortAbsencesByDateDesc(absences []Absence) {
	sort.SliceStable(absences, func(i, j int) bool { return absences[i].Date.After(absences[j].Date) })
}

func views(absences []Absence) []AbsenceView {
	vs := make([]AbsenceView, len(absences))
	for i, a := range absences {
		vs[i] = NewAbsenceView(a)
	}
	return vs
}
