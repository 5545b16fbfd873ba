package absence_test

import (
	"context"
	"fmt"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kelasi/core"
	"github.com/trezcool/kelasi/core/absence"
	"github.com/trezcool/kelasi/core/schedule"
	"github.com/trezcool/kelasi/core/user"
	emailsvc "github.com/trezcool/kelasi/services/email"
	inmemdb "github.com/trezcool/kelasi/storage/database/inmem"
)

func newTestService(t *testing.T) (absence.ServiceInterface, absence.Repository) {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)
	db.Seed()

	conf := &core.Config{
		TestMode:         true,
		AppName:          "Kelasi",
		DefaultFromEmail: mail.Address{Name: "Kelasi", Address: "noreply@localhost"},
	}

	var n int
	newID := func() string {
		n++
		return fmt.Sprintf("test-%d", n)
	}

	repo := inmemdb.NewAbsenceRepository(db)
	svc := absence.NewService(
		repo,
		inmemdb.NewUserRepository(db),
		inmemdb.NewScheduleRepository(db),
		emailsvc.NewConsoleServiceMock(conf),
		conf,
		newID,
	)
	return svc, repo
}

func Test_service_QueryByStudent_sortsDateDesc(t *testing.T) {
	svc, _ := newTestService(t)

	views, err := svc.QueryByStudent("1")
	require.NoError(t, err)
	require.Len(t, views, 3)

	wantDates := []time.Time{
		time.Date(2023, time.November, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.October, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2023, time.October, 15, 0, 0, 0, 0, time.UTC),
	}
	for i, want := range wantDates {
		assert.True(t, views[i].Date.Equal(want), "views[%d].Date = %v; want %v", i, views[i].Date, want)
	}
}

func Test_AbsenceView_window(t *testing.T) {
	defer func() { absence.NowFunc = time.Now }()
	now := time.Date(2023, time.November, 8, 12, 0, 0, 0, time.UTC)
	absence.NowFunc = func() time.Time { return now }

	tests := []struct {
		name          string
		date          time.Time
		wantDaysSince int
		wantWithin    bool
	}{
		{"same day", now, 0, true},
		{"2 days ago", now.AddDate(0, 0, -2), 2, true},
		{"3 days ago", now.AddDate(0, 0, -3), 3, false},
		{"10 days ago", now.AddDate(0, 0, -10), 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := absence.NewAbsenceView(absence.Absence{Date: tt.date})
			assert.Equal(t, tt.wantDaysSince, view.DaysSince)
			assert.Equal(t, tt.wantWithin, view.WithinWindow)
		})
	}
}

func Test_service_Submit(t *testing.T) {
	t.Run("unknown absence", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Submit("1", absence.NewJustification{AbsenceID: "nope", Reason: "Maladie"})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "absence_id", vErr.Fields[0].Field)
	})

	t.Run("another student's absence reads as unknown", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Submit("3", absence.NewJustification{AbsenceID: "2", Reason: "Maladie"})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("already justified", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Submit("1", absence.NewJustification{AbsenceID: "1", Reason: "Maladie"})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("pending claim blocks a second one", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Maladie"})
		require.NoError(t, err)

		_, err = svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Encore"})
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejected claim does not block a new one", func(t *testing.T) {
		svc, _ := newTestService(t)
		justif, err := svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Maladie"})
		require.NoError(t, err)
		_, _, err = svc.Resolve(context.Background(), justif.ID, absence.Resolution{Outcome: absence.StatusRejected}, "2")
		require.NoError(t, err)

		_, err = svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Nouveau certificat"})
		assert.NoError(t, err)
	})

	t.Run("ok", func(t *testing.T) {
		svc, _ := newTestService(t)
		justif, err := svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Maladie", DocumentURL: "/doc.pdf"})
		require.NoError(t, err)
		assert.Equal(t, "test-1", justif.ID)
		assert.Equal(t, "2", justif.AbsenceID)
		assert.Equal(t, "1", justif.StudentID)
		assert.Equal(t, absence.StatusPending, justif.Status)
		assert.False(t, justif.Date.IsZero())
	})
}

func Test_service_Resolve(t *testing.T) {
	t.Run("approve marks the absence justified and notifies", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		svc, repo := newTestService(t)
		justif, err := svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Maladie"})
		require.NoError(t, err)

		resolved, abs, err := svc.Resolve(
			context.Background(), justif.ID,
			absence.Resolution{Outcome: absence.StatusApproved, Comment: "Certificat validé"}, "2",
		)
		require.NoError(t, err)
		assert.Equal(t, absence.StatusApproved, resolved.Status)
		assert.Equal(t, "2", resolved.SupervisorID)
		assert.True(t, abs.Justified)
		assert.Equal(t, justif.ID, abs.JustificationID)

		stored, err := repo.GetAbsenceByID("2")
		require.NoError(t, err)
		assert.True(t, stored.Justified)

		require.Len(t, emailsvc.SentMessages, 1)
		assert.Equal(t, "Réclamation approuvée", emailsvc.SentMessages[0].Subject)
		assert.Contains(t, emailsvc.SentMessages[0].BodyStr, "Certificat validé")
	})

	t.Run("reject leaves the absence untouched", func(t *testing.T) {
		emailsvc.ClearSentMessages()
		svc, repo := newTestService(t)
		justif, err := svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Maladie"})
		require.NoError(t, err)

		resolved, abs, err := svc.Resolve(
			context.Background(), justif.ID,
			absence.Resolution{Outcome: absence.StatusRejected, Comment: "Document illisible"}, "2",
		)
		require.NoError(t, err)
		assert.Equal(t, absence.StatusRejected, resolved.Status)
		assert.False(t, abs.Justified)

		stored, err := repo.GetAbsenceByID("2")
		require.NoError(t, err)
		assert.False(t, stored.Justified)

		require.Len(t, emailsvc.SentMessages, 1)
		assert.Equal(t, "Réclamation rejetée", emailsvc.SentMessages[0].Subject)
	})

	t.Run("terminal claims stay terminal", func(t *testing.T) {
		svc, _ := newTestService(t)
		justif, err := svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Maladie"})
		require.NoError(t, err)
		_, _, err = svc.Resolve(context.Background(), justif.ID, absence.Resolution{Outcome: absence.StatusApproved}, "2")
		require.NoError(t, err)

		_, _, err = svc.Resolve(context.Background(), justif.ID, absence.Resolution{Outcome: absence.StatusRejected}, "2")
		assert.ErrorIs(t, err, absence.ErrAlreadyResolved)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, _, err := svc.Resolve(context.Background(), "nope", absence.Resolution{Outcome: absence.StatusApproved}, "2")
		assert.ErrorIs(t, err, absence.ErrNotFound)
	})
}

func Test_service_PendingJustifications(t *testing.T) {
	svc, _ := newTestService(t)

	// seed justification is approved; only the new claims are pending
	j1, err := svc.Submit("1", absence.NewJustification{AbsenceID: "2", Reason: "Maladie"})
	require.NoError(t, err)
	j2, err := svc.Submit("3", absence.NewJustification{AbsenceID: "3", Reason: "Transport"})
	require.NoError(t, err)

	pending, err := svc.PendingJustifications()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	// oldest first; same submit date keeps insertion order
	assert.Equal(t, j1.ID, pending[0].ID)
	assert.Equal(t, j2.ID, pending[1].ID)
}

func Test_service_ClassRoster(t *testing.T) {
	db, err := inmemdb.Open()
	require.NoError(t, err)
	db.Seed()

	usrRepo := inmemdb.NewUserRepository(db)
	// a third classmate with a clean record
	_, err = usrRepo.CreateUser(user.User{
		ID: "4", Email: "student3@example.com", FirstName: "Karim", LastName: "Haddad",
		Role: user.RoleStudent, Class: "Informatique 3A",
	})
	require.NoError(t, err)

	conf := &core.Config{TestMode: true, AppName: "Kelasi"}
	svc := absence.NewService(
		inmemdb.NewAbsenceRepository(db), usrRepo, inmemdb.NewScheduleRepository(db),
		emailsvc.NewConsoleServiceMock(conf), conf, func() string { return "x" },
	)

	roster, err := svc.ClassRoster("1")
	require.NoError(t, err)
	require.Len(t, roster, 3)

	// most unjustified absences first: 2, 1, 0
	assert.Equal(t, "1", roster[0].Student.ID)
	assert.Equal(t, 3, roster[0].Total)
	assert.Equal(t, 1, roster[0].Justified)
	assert.Equal(t, 2, roster[0].Unjustified)

	assert.Equal(t, "3", roster[1].Student.ID)
	assert.Equal(t, 1, roster[1].Total)
	assert.Equal(t, 1, roster[1].Unjustified)

	assert.Equal(t, "4", roster[2].Student.ID)
	assert.Zero(t, roster[2].Total)
}

func Test_service_ClassRoster_unknownClass(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ClassRoster("99")
	assert.ErrorIs(t, err, schedule.ErrClassNotFound)
}

func Test_service_Stats(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, absence.Stats{
		TotalStudents:     2,
		TotalAbsences:     4,
		Justified:         1,
		Unjustified:       3,
		JustificationRate: 25,
	}, stats)
}

func Test_service_StatsByClass(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.StatsByClass()
	require.NoError(t, err)
	require.Len(t, stats, 3)

	assert.Equal(t, absence.ClassStats{
		ClassID: "1", ClassName: "Informatique 3A",
		Total: 4, Justified: 1, Unjustified: 3,
	}, stats[0])
	assert.Zero(t, stats[1].Total)
	assert.Zero(t, stats[2].Total)
}

func Test_service_StatsByMonth(t *testing.T) {
	svc, _ := newTestService(t)

	stats, err := svc.StatsByMonth("1")
	require.NoError(t, err)
	assert.Equal(t, []absence.MonthStats{
		{Month: "2023-10", Justified: 1, Unjustified: 1},
		{Month: "2023-11", Unjustified: 1},
	}, stats)

	all, err := svc.StatsByMonth("")
	require.NoError(t, err)
	assert.Equal(t, []absence.MonthStats{
		{Month: "2023-10", Justified: 1, Unjustified: 2},
		{Month: "2023-11", Unjustified: 1},
	}, all)
}
