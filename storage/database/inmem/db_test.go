package inmemdb

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kelasi/core/absence"
)

func openSeeded(t *testing.T) *DB {
	t.Helper()
	db, err := Open()
	require.NoError(t, err)
	db.Seed()
	return db
}

func Test_absenceRepository_ResolveJustification(t *testing.T) {
	t.Run("approval updates both rows", func(t *testing.T) {
		db := openSeeded(t)
		repo := NewAbsenceRepository(db)

		justif, err := repo.CreateJustification(absence.Justification{
			ID: "j1", AbsenceID: "2", StudentID: "1", Status: absence.StatusPending,
		})
		require.NoError(t, err)

		resolved, abs, err := repo.ResolveJustification(justif.ID, absence.StatusApproved, "2", "ok")
		require.NoError(t, err)
		assert.Equal(t, absence.StatusApproved, resolved.Status)
		assert.Equal(t, "2", resolved.SupervisorID)
		assert.Equal(t, "ok", resolved.SupervisorComment)
		assert.True(t, abs.Justified)
		assert.Equal(t, "j1", abs.JustificationID)

		stored, err := repo.GetAbsenceByID("2")
		require.NoError(t, err)
		assert.True(t, stored.Justified)
	})

	t.Run("rejection leaves the absence alone", func(t *testing.T) {
		db := openSeeded(t)
		repo := NewAbsenceRepository(db)

		_, err := repo.CreateJustification(absence.Justification{
			ID: "j1", AbsenceID: "2", StudentID: "1", Status: absence.StatusPending,
		})
		require.NoError(t, err)

		resolved, abs, err := repo.ResolveJustification("j1", absence.StatusRejected, "2", "nope")
		require.NoError(t, err)
		assert.Equal(t, absence.StatusRejected, resolved.Status)
		assert.False(t, abs.Justified)
		assert.Empty(t, abs.JustificationID)
	})

	t.Run("terminal justification is never modified again", func(t *testing.T) {
		db := openSeeded(t)
		repo := NewAbsenceRepository(db)

		// seed justification "1" is approved
		_, _, err := repo.ResolveJustification("1", absence.StatusRejected, "2", "")
		assert.ErrorIs(t, err, absence.ErrAlreadyResolved)

		stored, err := repo.GetJustificationByID("1")
		require.NoError(t, err)
		assert.Equal(t, absence.StatusApproved, stored.Status)
	})

	t.Run("not found", func(t *testing.T) {
		db := openSeeded(t)
		_, _, err := NewAbsenceRepository(db).ResolveJustification("nope", absence.StatusApproved, "2", "")
		assert.ErrorIs(t, err, absence.ErrNotFound)
	})

	t.Run("concurrent resolutions settle exactly once", func(t *testing.T) {
		db := openSeeded(t)
		repo := NewAbsenceRepository(db)

		_, err := repo.CreateJustification(absence.Justification{
			ID: "j1", AbsenceID: "2", StudentID: "1", Status: absence.StatusPending,
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 10)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, _, errs[i] = repo.ResolveJustification("j1", absence.StatusApproved, "2", "")
			}(i)
		}
		wg.Wait()

		var succeeded int
		for _, err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, absence.ErrAlreadyResolved)
			}
		}
		assert.Equal(t, 1, succeeded)
	})
}

func Test_queries_keepInsertionOrder(t *testing.T) {
	db := openSeeded(t)

	users, err := NewUserRepository(db).QueryAllUsers()
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, want := range []string{"1", "2", "3"} {
		assert.Equal(t, want, users[i].ID)
	}

	absences, err := NewAbsenceRepository(db).QueryAllAbsences()
	require.NoError(t, err)
	require.Len(t, absences, 4)
	for i, want := range []string{"1", "2", "3", "4"} {
		assert.Equal(t, want, absences[i].ID)
	}
}

func Test_queries_returnCopies(t *testing.T) {
	db := openSeeded(t)
	repo := NewAbsenceRepository(db)

	abs, err := repo.GetAbsenceByID("2")
	require.NoError(t, err)
	abs.Justified = true // mutating the copy must not leak into the table

	stored, err := repo.GetAbsenceByID("2")
	require.NoError(t, err)
	assert.False(t, stored.Justified)
}
