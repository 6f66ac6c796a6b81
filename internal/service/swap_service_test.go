package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/skillswap/skillswap-server/internal/domain"
	"github.com/skillswap/skillswap-server/internal/repository/postgres"
	"github.com/skillswap/skillswap-server/internal/service"
	"github.com/skillswap/skillswap-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSwapServices(testDB *testutil.TestDB) (*service.SwapService, *service.SwapRequestService) {
	repos := postgres.NewRepositories(testDB.DB)
	swapService := service.NewSwapService(repos.Swap, repos.SwapMessage, repos.SwapReview, repos.Session, repos.User)
	requestService := service.NewSwapRequestService(repos.SwapRequest, repos.Swap)
	return swapService, requestService
}

func TestSwapRequestService_Respond(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, requestService := newSwapServices(testDB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	responder, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	request := testutil.NewSwapRequestBuilder().
		WithUser(owner).
		WithSkills("Go", "Spanish").
		Build(t, testDB.DB)

	swap, err := requestService.Respond(ctx, request.ID, responder.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.SwapStatusPending, swap.Status)
	assert.Equal(t, owner.ID, swap.RequesterID)
	assert.Equal(t, responder.ID, swap.ReceiverID)
	require.NotNil(t, swap.RequestID)
	assert.Equal(t, request.ID, *swap.RequestID)

	// offerings are cross-mapped: each side ends up teaching what the
	// other side asked for
	assert.Equal(t, "Spanish", swap.RequesterOffering.SkillName)
	assert.Equal(t, "Go", swap.ReceiverOffering.SkillName)
}

func TestSwapRequestService_Respond_Validation(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, requestService := newSwapServices(testDB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	responder, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	open := testutil.NewSwapRequestBuilder().WithUser(owner).Build(t, testDB.DB)
	inactive := testutil.NewSwapRequestBuilder().
		WithUser(owner).
		WithStatus(domain.SwapRequestStatusInactive).
		Build(t, testDB.DB)

	t.Run("own request", func(t *testing.T) {
		_, err := requestService.Respond(ctx, open.ID, owner.ID)
		assert.ErrorIs(t, err, service.ErrSelfResponse)
	})

	t.Run("inactive request", func(t *testing.T) {
		_, err := requestService.Respond(ctx, inactive.ID, responder.ID)
		assert.ErrorIs(t, err, service.ErrRequestNotOpen)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := requestService.Respond(ctx, uuid.New(), responder.ID)
		assert.ErrorIs(t, err, service.ErrRequestNotFound)
	})

	t.Run("duplicate pending pair", func(t *testing.T) {
		_, err := requestService.Respond(ctx, open.ID, responder.ID)
		require.NoError(t, err)

		second := testutil.NewSwapRequestBuilder().WithUser(owner).Build(t, testDB.DB)
		_, err = requestService.Respond(ctx, second.ID, responder.ID)
		assert.ErrorIs(t, err, domain.ErrPendingSwapExists)
	})
}

func TestSwapRequestService_AcceptResponse(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	_, requestService := newSwapServices(testDB)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	responder, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	request := testutil.NewSwapRequestBuilder().WithUser(owner).Build(t, testDB.DB)

	t.Run("only owner can accept", func(t *testing.T) {
		_, err := requestService.AcceptResponse(ctx, request.ID, responder.ID, owner.ID)
		assert.ErrorIs(t, err, service.ErrNotRequestOwner)
	})

	t.Run("responder must differ", func(t *testing.T) {
		_, err := requestService.AcceptResponse(ctx, request.ID, owner.ID, owner.ID)
		assert.ErrorIs(t, err, service.ErrInvalidResponder)
	})

	t.Run("creates accepted swap and matches request", func(t *testing.T) {
		swap, err := requestService.AcceptResponse(ctx, request.ID, owner.ID, responder.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SwapStatusAccepted, swap.Status)
		assert.NotNil(t, swap.StartDate)

		var got domain.SwapRequest
		require.NoError(t, testDB.DB.First(&got, "id = ?", request.ID).Error)
		assert.Equal(t, domain.SwapRequestStatusMatched, got.Status)
	})

	t.Run("matched request is closed", func(t *testing.T) {
		_, err := requestService.AcceptResponse(ctx, request.ID, owner.ID, responder.ID)
		assert.ErrorIs(t, err, service.ErrRequestNotOpen)
	})
}

func TestSwapService_AcceptCascade(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	swapService, requestService := newSwapServices(testDB)
	ctx := context.Background()

	alice, _ := testutil.NewUserBuilder().WithName("alice").Build(t, testDB.DB)
	bob, _ := testutil.NewUserBuilder().WithName("bob").Build(t, testDB.DB)
	carol, _ := testutil.NewUserBuilder().WithName("carol").Build(t, testDB.DB)

	// alice's request draws responses from bob and carol; bob also has his
	// own open request
	aliceRequest := testutil.NewSwapRequestBuilder().WithUser(alice).Build(t, testDB.DB)
	bobRequest := testutil.NewSwapRequestBuilder().
		WithUser(bob).
		WithSkills("Piano", "Chess").
		Build(t, testDB.DB)

	bobSwap, err := requestService.Respond(ctx, aliceRequest.ID, bob.ID)
	require.NoError(t, err)
	carolSwap, err := requestService.Respond(ctx, aliceRequest.ID, carol.ID)
	require.NoError(t, err)

	accepted, err := swapService.Accept(ctx, bobSwap.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapStatusAccepted, accepted.Status)
	assert.NotNil(t, accepted.StartDate)

	// carol's competing pending swap is gone
	var count int64
	testDB.DB.Table("swaps").Where("id = ?", carolSwap.ID).Count(&count)
	assert.Zero(t, count, "competing pending swap should be removed")

	// both participants' open requests are closed off the market
	var gotAlice, gotBob domain.SwapRequest
	require.NoError(t, testDB.DB.First(&gotAlice, "id = ?", aliceRequest.ID).Error)
	require.NoError(t, testDB.DB.First(&gotBob, "id = ?", bobRequest.ID).Error)
	assert.Equal(t, domain.SwapRequestStatusInactive, gotAlice.Status)
	assert.Equal(t, domain.SwapRequestStatusInactive, gotBob.Status)
}

func TestSwapService_Accept_Validation(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	swapService, _ := newSwapServices(testDB)
	ctx := context.Background()

	requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	receiver, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	swap := testutil.NewSwapBuilder().
		WithRequester(requester).
		WithReceiver(receiver).
		WithStatus(domain.SwapStatusPending).
		Build(t, testDB.DB)

	t.Run("requester cannot accept", func(t *testing.T) {
		_, err := swapService.Accept(ctx, swap.ID, requester.ID)
		assert.ErrorIs(t, err, service.ErrNotReceiver)
	})

	t.Run("outsider cannot see the swap", func(t *testing.T) {
		_, err := swapService.Accept(ctx, swap.ID, outsider.ID)
		assert.ErrorIs(t, err, domain.ErrNotParticipant)
	})

	t.Run("receiver accepts once", func(t *testing.T) {
		_, err := swapService.Accept(ctx, swap.ID, receiver.ID)
		require.NoError(t, err)

		_, err = swapService.Accept(ctx, swap.ID, receiver.ID)
		assert.ErrorIs(t, err, service.ErrInvalidSwapState)
	})
}

func TestSwapService_RejectAndCancel(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	swapService, _ := newSwapServices(testDB)
	ctx := context.Background()

	requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	receiver, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("receiver rejects with reason", func(t *testing.T) {
		swap := testutil.NewSwapBuilder().
			WithRequester(requester).
			WithReceiver(receiver).
			WithStatus(domain.SwapStatusPending).
			Build(t, testDB.DB)

		got, err := swapService.Reject(ctx, swap.ID, receiver.ID, "schedule conflict")
		require.NoError(t, err)
		assert.Equal(t, domain.SwapStatusRejected, got.Status)
		assert.Equal(t, "schedule conflict", got.RejectReason)
	})

	t.Run("either participant cancels", func(t *testing.T) {
		swap := testutil.NewSwapBuilder().
			WithRequester(requester).
			WithReceiver(receiver).
			Build(t, testDB.DB)

		got, err := swapService.Cancel(ctx, swap.ID, requester.ID, "moving abroad")
		require.NoError(t, err)
		assert.Equal(t, domain.SwapStatusCancelled, got.Status)
		assert.Equal(t, "moving abroad", got.CancelReason)
	})

	t.Run("completed swap cannot be cancelled", func(t *testing.T) {
		swap := testutil.NewSwapBuilder().
			WithRequester(requester).
			WithReceiver(receiver).
			WithStatus(domain.SwapStatusCompleted).
			Build(t, testDB.DB)

		_, err := swapService.Cancel(ctx, swap.ID, receiver.ID, "")
		assert.ErrorIs(t, err, service.ErrInvalidSwapState)
	})
}

func TestSwapService_Setup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	swapService, _ := newSwapServices(testDB)
	ctx := context.Background()

	requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	receiver, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	swap := testutil.NewSwapBuilder().
		WithRequester(requester).
		WithReceiver(receiver).
		WithTotalSessions(0).
		Build(t, testDB.DB)

	t.Run("invalid target", func(t *testing.T) {
		_, err := swapService.Setup(ctx, swap.ID, requester.ID, 0)
		assert.ErrorIs(t, err, service.ErrInvalidTotalSessions)
	})

	t.Run("one side alone does not activate", func(t *testing.T) {
		got, err := swapService.Setup(ctx, swap.ID, requester.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, 4, got.RequesterOffering.TotalSessions)
		assert.Equal(t, domain.SwapStatusAccepted, got.Status)
	})

	t.Run("both sides set activates the swap", func(t *testing.T) {
		got, err := swapService.Setup(ctx, swap.ID, receiver.ID, 6)
		require.NoError(t, err)
		assert.Equal(t, 6, got.ReceiverOffering.TotalSessions)
		assert.Equal(t, domain.SwapStatusActive, got.Status)
	})
}

func TestSwapService_Messages(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	swapService, _ := newSwapServices(testDB)
	ctx := context.Background()

	requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	receiver, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	swap := testutil.NewSwapBuilder().
		WithRequester(requester).
		WithReceiver(receiver).
		Build(t, testDB.DB)

	_, _, err := swapService.AddMessage(ctx, swap.ID, requester.ID, "hello")
	require.NoError(t, err)
	_, _, err = swapService.AddMessage(ctx, swap.ID, requester.ID, "are you there?")
	require.NoError(t, err)

	t.Run("outsider cannot post", func(t *testing.T) {
		_, _, err := swapService.AddMessage(ctx, swap.ID, outsider.ID, "hi")
		assert.ErrorIs(t, err, domain.ErrNotParticipant)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		_, _, err := swapService.AddMessage(ctx, swap.ID, requester.ID, "")
		assert.ErrorIs(t, err, service.ErrEmptyMessage)
	})

	t.Run("receiver sees unread then clears them", func(t *testing.T) {
		unread, err := swapService.CountUnread(ctx, swap.ID, receiver.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, unread)

		_, n, err := swapService.MarkMessagesRead(ctx, swap.ID, receiver.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		unread, err = swapService.CountUnread(ctx, swap.ID, receiver.ID)
		require.NoError(t, err)
		assert.Zero(t, unread)

		// marking again is a no-op
		_, n, err = swapService.MarkMessagesRead(ctx, swap.ID, receiver.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("own messages never count as unread", func(t *testing.T) {
		unread, err := swapService.CountUnread(ctx, swap.ID, requester.ID)
		require.NoError(t, err)
		assert.Zero(t, unread)
	})

	t.Run("messages list in order", func(t *testing.T) {
		messages, err := swapService.ListMessages(ctx, swap.ID, receiver.ID, 0, 0)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "hello", messages[0].Content)
		assert.Equal(t, "are you there?", messages[1].Content)
	})
}

func TestSwapService_AddReview(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	swapService, _ := newSwapServices(testDB)
	ctx := context.Background()

	requester, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	receiver, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	swap := testutil.NewSwapBuilder().
		WithRequester(requester).
		WithReceiver(receiver).
		WithStatus(domain.SwapStatusCompleted).
		Build(t, testDB.DB)

	active := testutil.NewSwapBuilder().
		WithRequester(requester).
		WithReceiver(receiver).
		WithStatus(domain.SwapStatusActive).
		Build(t, testDB.DB)

	t.Run("rating bounds", func(t *testing.T) {
		_, err := swapService.AddReview(ctx, swap.ID, requester.ID, 0, "")
		assert.ErrorIs(t, err, service.ErrInvalidRating)
		_, err = swapService.AddReview(ctx, swap.ID, requester.ID, 6, "")
		assert.ErrorIs(t, err, service.ErrInvalidRating)
	})

	t.Run("only completed swaps", func(t *testing.T) {
		_, err := swapService.AddReview(ctx, active.ID, requester.ID, 5, "")
		assert.ErrorIs(t, err, service.ErrSwapNotCompleted)
	})

	t.Run("review updates counterpart teaching average", func(t *testing.T) {
		review, err := swapService.AddReview(ctx, swap.ID, requester.ID, 4, "great teacher")
		require.NoError(t, err)
		assert.Equal(t, 4, review.Rating)

		var got domain.User
		require.NoError(t, testDB.DB.First(&got, "id = ?", receiver.ID).Error)
		assert.Equal(t, 4.0, got.TeachingRating)
		assert.Equal(t, 1, got.TeachingRatingCount)
	})

	t.Run("once per participant", func(t *testing.T) {
		_, err := swapService.AddReview(ctx, swap.ID, requester.ID, 5, "")
		assert.ErrorIs(t, err, service.ErrAlreadyReviewed)
	})

	t.Run("counterpart reviews independently", func(t *testing.T) {
		_, err := swapService.AddReview(ctx, swap.ID, receiver.ID, 2, "")
		require.NoError(t, err)

		var got domain.User
		require.NoError(t, testDB.DB.First(&got, "id = ?", requester.ID).Error)
		assert.Equal(t, 2.0, got.TeachingRating)
	})
}

func TestSwapService_Stats(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	swapService, _ := newSwapServices(testDB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	partner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	// active swap with some completed sessions either way
	active := testutil.NewSwapBuilder().
		WithRequester(user).
		WithReceiver(partner).
		WithStatus(domain.SwapStatusActive).
		WithTotalSessions(5).
		Build(t, testDB.DB)

	for i := 0; i < 3; i++ {
		testutil.NewSessionBuilder().
			WithSwap(active).
			WithTeacher(user).
			WithLearner(partner).
			WithStatus(domain.SessionStatusCompleted).
			Build(t, testDB.DB)
	}
	testutil.NewSessionBuilder().
		WithSwap(active).
		WithTeacher(partner).
		WithLearner(user).
		WithStatus(domain.SessionStatusCompleted).
		Build(t, testDB.DB)
	// scheduled sessions do not count
	testutil.NewSessionBuilder().
		WithSwap(active).
		WithTeacher(user).
		WithLearner(partner).
		Build(t, testDB.DB)

	// pending and rejected swaps count toward totals but not progress
	testutil.NewSwapBuilder().
		WithRequester(user).
		WithStatus(domain.SwapStatusPending).
		Build(t, testDB.DB)
	testutil.NewSwapBuilder().
		WithReceiver(user).
		WithStatus(domain.SwapStatusRejected).
		Build(t, testDB.DB)

	stats, err := swapService.Stats(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSwaps)
	assert.Equal(t, 1, stats.PendingSwaps)
	assert.Equal(t, 1, stats.ActiveSwaps)
	assert.Equal(t, 0, stats.CompletedSwaps)

	// user is the requester: teaches Spanish, learns Go
	require.Len(t, stats.TeachingProgress, 1)
	assert.Equal(t, "Spanish", stats.TeachingProgress[0].SkillName)
	assert.Equal(t, 3, stats.TeachingProgress[0].CompletedSessions)
	assert.Equal(t, 5, stats.TeachingProgress[0].TotalSessions)
	assert.Equal(t, 60, stats.TeachingProgress[0].Percent)

	require.Len(t, stats.LearningProgress, 1)
	assert.Equal(t, "Go", stats.LearningProgress[0].SkillName)
	assert.Equal(t, 1, stats.LearningProgress[0].CompletedSessions)
	assert.Equal(t, 20, stats.LearningProgress[0].Percent)
}
