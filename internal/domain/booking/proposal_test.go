package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRescheduleProposal(t *testing.T) {
	b := newTestBooking(t)
	start := b.StartTime().Add(24 * time.Hour)

	p, err := NewRescheduleProposal(b, "mentee-1", start, start.Add(time.Hour), " conflict ", 24*time.Hour)
	require.NoError(t, err)

	assert.Equal(t, ProposalKindReschedule, p.Kind())
	assert.Equal(t, ProposalStatusPending, p.Status())
	assert.Equal(t, "conflict", p.Reason())
	assert.Equal(t, b.ID(), p.BookingID())
	// booking starts in 48h so the ttl bound applies
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), p.ExpiresAt(), time.Minute)
}

func TestNewRescheduleProposal_ExpiresAtBookingStart(t *testing.T) {
	b := newTestBooking(t, func(p *NewBookingParams) {
		p.StartTime = time.Now().UTC().Add(2 * time.Hour)
		p.EndTime = p.StartTime.Add(time.Hour)
	})
	start := b.StartTime().Add(24 * time.Hour)

	p, err := NewRescheduleProposal(b, "coach-1", start, start.Add(time.Hour), "", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, p.ExpiresAt().Equal(b.StartTime()))
}

func TestNewRescheduleProposal_Validation(t *testing.T) {
	b := newTestBooking(t)
	future := b.StartTime().Add(24 * time.Hour)

	tests := []struct {
		name       string
		booking    *Booking
		proposedBy string
		start      time.Time
		end        time.Time
		wantErr    error
	}{
		{"stranger", b, "stranger", future, future.Add(time.Hour), ErrNotParticipant},
		{"end before start", b, "coach-1", future, future.Add(-time.Hour), nil},
		{"past start", b, "coach-1", time.Now().Add(-time.Hour), time.Now(), nil},
		{"same time", b, "coach-1", b.StartTime(), b.EndTime(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRescheduleProposal(tt.booking, tt.proposedBy, tt.start, tt.end, "", 24*time.Hour)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewProposal_InactiveBooking(t *testing.T) {
	b := newTestBooking(t)
	require.NoError(t, b.Cancel("", ""))

	_, err := NewCancelProposal(b, "coach-1", "", time.Hour)
	assert.ErrorIs(t, err, ErrBookingNotActive)
}

func TestNewProposal_StartedBooking(t *testing.T) {
	b := newTestBooking(t, func(p *NewBookingParams) {
		p.StartTime = time.Now().UTC().Add(-10 * time.Minute)
		p.EndTime = p.StartTime.Add(time.Hour)
	})

	_, err := NewCancelProposal(b, "coach-1", "", time.Hour)
	assert.ErrorIs(t, err, ErrBookingStarted)
}

func TestProposal_Respond(t *testing.T) {
	newPending := func(t *testing.T) (*Booking, *Proposal) {
		b := newTestBooking(t)
		p, err := NewCancelProposal(b, "coach-1", "travel", 24*time.Hour)
		require.NoError(t, err)
		return b, p
	}

	t.Run("counterparty accepts", func(t *testing.T) {
		b, p := newPending(t)
		require.NoError(t, p.Accept(b, "mentee-1"))
		assert.Equal(t, ProposalStatusAccepted, p.Status())
		assert.Equal(t, "mentee-1", p.RespondedBy())
		assert.NotNil(t, p.RespondedAt())
	})

	t.Run("proposer cannot accept", func(t *testing.T) {
		b, p := newPending(t)
		assert.ErrorIs(t, p.Accept(b, "coach-1"), ErrNotCounterparty)
	})

	t.Run("stranger cannot decline", func(t *testing.T) {
		b, p := newPending(t)
		assert.ErrorIs(t, p.Decline(b, "stranger"), ErrNotCounterparty)
	})

	t.Run("counterparty declines then cannot accept", func(t *testing.T) {
		b, p := newPending(t)
		require.NoError(t, p.Decline(b, "mentee-1"))
		assert.ErrorIs(t, p.Accept(b, "mentee-1"), ErrProposalNotPending)
	})

	t.Run("only proposer withdraws", func(t *testing.T) {
		_, p := newPending(t)
		assert.ErrorIs(t, p.Withdraw("mentee-1"), ErrNotProposer)
		require.NoError(t, p.Withdraw("coach-1"))
		assert.Equal(t, ProposalStatusWithdrawn, p.Status())
	})

	t.Run("supersede", func(t *testing.T) {
		_, p := newPending(t)
		p.Supersede()
		assert.Equal(t, ProposalStatusWithdrawn, p.Status())
		assert.Empty(t, p.RespondedBy())
	})
}

func TestProposal_Expire(t *testing.T) {
	b := newTestBooking(t)
	p, err := NewCancelProposal(b, "coach-1", "", time.Hour)
	require.NoError(t, err)

	assert.False(t, p.Expire(time.Now()))
	assert.True(t, p.Expire(time.Now().Add(2*time.Hour)))
	assert.Equal(t, ProposalStatusExpired, p.Status())
	assert.False(t, p.Expire(time.Now().Add(3*time.Hour)))
}

func TestProposal_AcceptAfterExpiry(t *testing.T) {
	b := newTestBooking(t)
	created := time.Now().UTC().Add(-2 * time.Hour)
	p, err := ReconstructProposal("p1", b.ID(), "coach-1", ProposalKindCancel, nil, nil, "",
		ProposalStatusPending, created.Add(time.Hour), "", nil, created, created)
	require.NoError(t, err)

	assert.ErrorIs(t, p.Accept(b, "mentee-1"), ErrProposalExpired)
}
