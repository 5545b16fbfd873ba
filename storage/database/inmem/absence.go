package inmemdb

import (
	"github.com/trezcool/kelasi/core/absence"
)

type absenceRepository struct {
	db *claimsTable
}

var _ absence.Repository = (*absenceRepository)(nil)

func NewAbsenceRepository(db *DB) absence.Repository {
	return &absenceRepository{db: db.claims}
}

func (repo *absenceRepository) queryAbsences() []absence.Absence {
	absences := make([]absence.Absence, 0, len(repo.db.absences))
	for _, a := range repo.db.absences {
		absences = append(absences, *a)
	}
	return absences
}

func (repo *absenceRepository) queryJustifs() []absence.Justification {
	justifs := make([]absence.Justification, 0, len(repo.db.justifs))
	for _, j := range repo.db.justifs {
		justifs = append(justifs, *j)
	}
	return justifs
}

func (repo *absenceRepository) CreateAbsence(abs absence.Absence) (absence.Absence, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row := abs
	repo.db.absences = append(repo.db.absences, &row)
	repo.db.absenceIdx[row.ID] = &row
	return row, nil
}

func (repo *absenceRepository) QueryAllAbsences() ([]absence.Absence, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryAbsences(), nil
}

func (repo *absenceRepository) GetAbsenceByID(id string) (absence.Absence, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if abs, ok := repo.db.absenceIdx[id]; ok {
		return *abs, nil
	}
	return absence.Absence{}, absence.ErrAbsenceNotFound
}

func (repo *absenceRepository) QueryAbsencesByStudent(studentID string) ([]absence.Absence, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	absences := make([]absence.Absence, 0, len(repo.db.absences))
	for _, a := range repo.db.absences {
		if a.StudentID == studentID {
			absences = append(absences, *a)
		}
	}
	return absences, nil
}

func (repo *absenceRepository) QueryAllJustifications() ([]absence.Justification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.queryJustifs(), nil
}

func (repo *absenceRepository) GetJustificationByID(id string) (absence.Justification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if justif, ok := repo.db.justifIdx[id]; ok {
		return *justif, nil
	}
	return absence.Justification{}, absence.ErrNotFound
}

func (repo *absenceRepository) QueryJustificationsByStudent(studentID string) ([]absence.Justification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	justifs := make([]absence.Justification, 0, len(repo.db.justifs))
	for _, j := range repo.db.justifs {
		if j.StudentID == studentID {
			justifs = append(justifs, *j)
		}
	}
	return justifs, nil
}

func (repo *absenceRepository) QueryJustificationsByAbsence(absenceID string) ([]absence.Justification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	justifs := make([]absence.Justification, 0, 1)
	for _, j := range repo.db.justifs {
		if j.AbsenceID == absenceID {
			justifs = append(justifs, *j)
		}
	}
	return justifs, nil
}

func (repo *absenceRepository) CreateJustification(justif absence.Justification) (absence.Justification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	row := justif
	repo.db.justifs = append(repo.db.justifs, &row)
	repo.db.justifIdx[row.ID] = &row
	return row, nil
}

// ResolveJustification flips a pending justification into a terminal status
// and, on approval, marks the linked absence justified. Both rows change under
// the same lock; a terminal justification is never modified again.
func (repo *absenceRepository) ResolveJustification(id, status, supervisorID, comment string) (absence.Justification, absence.Absence, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	justif, ok := repo.db.justifIdx[id]
	if !ok {
		return absence.Justification{}, absence.Absence{}, absence.ErrNotFound
	}
	if !justif.IsPending() {
		return absence.Justification{}, absence.Absence{}, absence.ErrAlreadyResolved
	}
	abs, ok := repo.db.absenceIdx[justif.AbsenceID]
	if !ok {
		return absence.Justification{}, absence.Absence{}, absence.ErrAbsenceNotFound
	}

	justif.Status = status
	justif.SupervisorID = supervisorID
	justif.SupervisorComment = comment
	if status == absence.StatusApproved {
		abs.Justified = true
		abs.JustificationID = justif.ID
	}
	return *justif, *abs, nil
}
