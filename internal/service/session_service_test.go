package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/repository/postgres"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(testDB *testutil.TestDB) *service.SessionService {
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewSessionService(repos.Session, repos.Swap)
}

func TestSessionService_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	receiver, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	active := testutil.NewSwapBuilder().
		WithRequester(requester).
		WithReceiver(receiver).
		WithStatus(domain.SwapStatusActive).
		Build(t, testDB.DB)
	pending := testutil.NewSwapBuilder().
		WithRequester(requester).
		WithStatus(domain.SwapStatusPending).
		Build(t, testDB.DB)

	start := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		creator *domain.User
		input   service.CreateSessionInput
		wantErr error
	}{
		{
			name:    "requester schedules a session",
			creator: requester,
			input: service.CreateSessionInput{
				SwapID:    active.ID,
				StartTime: start,
				EndTime:   start.Add(time.Hour),
				Notes:     "bring your laptop",
			},
		},
		{
			name:    "receiver schedules the reverse direction",
			creator: receiver,
			input: service.CreateSessionInput{
				SwapID:    active.ID,
				StartTime: start,
				EndTime:   start.Add(90 * time.Minute),
			},
		},
		{
			name:    "outsider cannot schedule",
			creator: outsider,
			input: service.CreateSessionInput{
				SwapID:    active.ID,
				StartTime: start,
				EndTime:   start.Add(time.Hour),
			},
			wantErr: domain.ErrNotParticipant,
		},
		{
			name:    "pending swap has no sessions",
			creator: requester,
			input: service.CreateSessionInput{
				SwapID:    pending.ID,
				StartTime: start,
				EndTime:   start.Add(time.Hour),
			},
			wantErr: service.ErrInvalidSwapState,
		},
		{
			name:    "end before start",
			creator: requester,
			input: service.CreateSessionInput{
				SwapID:    active.ID,
				StartTime: start,
				EndTime:   start.Add(-time.Hour),
			},
			wantErr: service.ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := sessionService.Create(ctx, tt.creator.ID, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.SessionStatusScheduled, session.Status)
			assert.Equal(t, tt.creator.ID, session.TeacherID)
			assert.Equal(t, active.OtherParticipant(tt.creator.ID), session.LearnerID)
			assert.Equal(t, active.OfferingOf(tt.creator.ID).SkillName, session.SkillName)
			assert.Equal(t, int(tt.input.EndTime.Sub(tt.input.StartTime).Minutes()), session.DurationMinutes)
		})
	}
}

func TestSessionService_Reschedule(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	swap := testutil.NewSwapBuilder().Build(t, testDB.DB)
	session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

	newStart := time.Now().Add(72 * time.Hour)

	got, err := sessionService.Reschedule(ctx, session.ID, swap.RequesterID, service.RescheduleInput{
		StartTime: newStart,
		EndTime:   newStart.Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 120, got.DurationMinutes)

	// only scheduled sessions move
	inProgress := testutil.NewSessionBuilder().
		WithSwap(swap).
		WithStatus(domain.SessionStatusInProgress).
		Build(t, testDB.DB)
	_, err = sessionService.Reschedule(ctx, inProgress.ID, swap.RequesterID, service.RescheduleInput{
		StartTime: newStart,
		EndTime:   newStart.Add(time.Hour),
	})
	assert.ErrorIs(t, err, service.ErrInvalidSessionState)
}

func TestSessionService_Delete(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	swap := testutil.NewSwapBuilder().Build(t, testDB.DB)
	session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

	// learner cannot delete
	err := sessionService.Delete(ctx, session.ID, session.LearnerID)
	assert.ErrorIs(t, err, service.ErrNotTeacher)

	require.NoError(t, sessionService.Delete(ctx, session.ID, session.TeacherID))

	_, err = sessionService.Get(ctx, session.ID, session.TeacherID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestSessionService_UpdateStatus(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	swap := testutil.NewSwapBuilder().Build(t, testDB.DB)
	teacherID := swap.RequesterID
	learnerID := swap.ReceiverID

	t.Run("completion requires both attendance flags", func(t *testing.T) {
		session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

		_, err := sessionService.UpdateStatus(ctx, session.ID, teacherID, domain.SessionStatusCompleted)
		assert.ErrorIs(t, err, service.ErrAttendanceIncomplete)

		// the teacher confirming alone is still not enough
		_, err = sessionService.ConfirmAttendance(ctx, session.ID, teacherID)
		require.NoError(t, err)
		_, err = sessionService.UpdateStatus(ctx, session.ID, teacherID, domain.SessionStatusCompleted)
		assert.ErrorIs(t, err, service.ErrAttendanceIncomplete)

		_, err = sessionService.ConfirmAttendance(ctx, session.ID, learnerID)
		require.NoError(t, err)
		got, err := sessionService.UpdateStatus(ctx, session.ID, teacherID, domain.SessionStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusCompleted, got.Status)
	})

	t.Run("only the teacher completes or cancels", func(t *testing.T) {
		session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

		_, err := sessionService.UpdateStatus(ctx, session.ID, learnerID, domain.SessionStatusCompleted)
		assert.ErrorIs(t, err, service.ErrNotTeacher)
		_, err = sessionService.UpdateStatus(ctx, session.ID, learnerID, domain.SessionStatusCancelled)
		assert.ErrorIs(t, err, service.ErrNotTeacher)
	})

	t.Run("either party starts the session", func(t *testing.T) {
		session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

		got, err := sessionService.UpdateStatus(ctx, session.ID, learnerID, domain.SessionStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusInProgress, got.Status)

		// and not twice
		_, err = sessionService.UpdateStatus(ctx, session.ID, learnerID, domain.SessionStatusInProgress)
		assert.ErrorIs(t, err, service.ErrInvalidSessionState)
	})

	t.Run("terminal sessions stay terminal", func(t *testing.T) {
		session := testutil.NewSessionBuilder().
			WithSwap(swap).
			WithStatus(domain.SessionStatusCancelled).
			Build(t, testDB.DB)

		_, err := sessionService.UpdateStatus(ctx, session.ID, teacherID, domain.SessionStatusInProgress)
		assert.ErrorIs(t, err, service.ErrInvalidSessionState)
	})

	t.Run("unknown target status", func(t *testing.T) {
		session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

		_, err := sessionService.UpdateStatus(ctx, session.ID, teacherID, domain.SessionStatus("paused"))
		assert.ErrorIs(t, err, service.ErrInvalidStatusTarget)
	})
}

func TestSessionService_ConfirmAttendance(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	swap := testutil.NewSwapBuilder().Build(t, testDB.DB)
	session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

	got, err := sessionService.ConfirmAttendance(ctx, session.ID, session.LearnerID)
	require.NoError(t, err)
	assert.False(t, got.TeacherConfirmed)
	assert.True(t, got.LearnerConfirmed)

	// confirming again changes nothing
	got, err = sessionService.ConfirmAttendance(ctx, session.ID, session.LearnerID)
	require.NoError(t, err)
	assert.True(t, got.LearnerConfirmed)

	// cancelled sessions take no confirmations
	cancelled := testutil.NewSessionBuilder().
		WithSwap(swap).
		WithStatus(domain.SessionStatusCancelled).
		Build(t, testDB.DB)
	_, err = sessionService.ConfirmAttendance(ctx, cancelled.ID, session.TeacherID)
	assert.ErrorIs(t, err, service.ErrInvalidSessionState)
}

func TestSessionService_Rate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	swap := testutil.NewSwapBuilder().Build(t, testDB.DB)
	completed := testutil.NewSessionBuilder().
		WithSwap(swap).
		WithStatus(domain.SessionStatusCompleted).
		Build(t, testDB.DB)
	scheduled := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

	t.Run("rating bounds", func(t *testing.T) {
		_, err := sessionService.Rate(ctx, completed.ID, completed.TeacherID, 0, "")
		assert.ErrorIs(t, err, service.ErrInvalidRating)
		_, err = sessionService.Rate(ctx, completed.ID, completed.TeacherID, 6, "")
		assert.ErrorIs(t, err, service.ErrInvalidRating)
	})

	t.Run("only completed sessions", func(t *testing.T) {
		_, err := sessionService.Rate(ctx, scheduled.ID, scheduled.TeacherID, 4, "")
		assert.ErrorIs(t, err, service.ErrSessionNotCompleted)
	})

	t.Run("each slot fills once", func(t *testing.T) {
		got, err := sessionService.Rate(ctx, completed.ID, completed.TeacherID, 5, "quick learner")
		require.NoError(t, err)
		require.NotNil(t, got.TeacherRating)
		assert.Equal(t, 5, *got.TeacherRating)
		assert.Equal(t, "quick learner", got.TeacherFeedback)
		assert.Nil(t, got.LearnerRating)

		_, err = sessionService.Rate(ctx, completed.ID, completed.TeacherID, 3, "")
		assert.ErrorIs(t, err, service.ErrAlreadyRated)

		// the learner's slot is independent
		got, err = sessionService.Rate(ctx, completed.ID, completed.LearnerID, 4, "patient teacher")
		require.NoError(t, err)
		require.NotNil(t, got.LearnerRating)
		assert.Equal(t, 4, *got.LearnerRating)
	})
}

func TestSessionService_UpdateNotes(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	swap := testutil.NewSwapBuilder().Build(t, testDB.DB)
	session := testutil.NewSessionBuilder().WithSwap(swap).Build(t, testDB.DB)

	_, err := sessionService.UpdateNotes(ctx, session.ID, session.TeacherID, "covered slices")
	require.NoError(t, err)

	// last write wins, from either side
	got, err := sessionService.UpdateNotes(ctx, session.ID, session.LearnerID, "covered slices and maps")
	require.NoError(t, err)
	assert.Equal(t, "covered slices and maps", got.Notes)
}

func TestSessionService_Lists(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	sessionService := newSessionService(testDB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	partner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	swap := testutil.NewSwapBuilder().
		WithRequester(user).
		WithReceiver(partner).
		Build(t, testDB.DB)

	base := time.Now().Add(24 * time.Hour)
	testutil.NewSessionBuilder().WithSwap(swap).WithStartTime(base.Add(2 * time.Hour)).Build(t, testDB.DB)
	testutil.NewSessionBuilder().WithSwap(swap).WithStartTime(base).Build(t, testDB.DB)

	sessions, err := sessionService.ListForSwap(ctx, swap.ID, user.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.True(t, sessions[0].StartTime.Before(sessions[1].StartTime), "sessions should be ordered by start time")

	_, err = sessionService.ListForSwap(ctx, swap.ID, outsider.ID)
	assert.ErrorIs(t, err, domain.ErrNotParticipant)

	mine, err := sessionService.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := sessionService.ListForUser(ctx, outsider.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
