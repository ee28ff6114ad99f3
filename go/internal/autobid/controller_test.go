package autobid

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bidforhope/livesync/go/internal/apierrors"
	"github.com/bidforhope/livesync/go/internal/models"
)

type fakeBackend struct {
	status     *models.AutoBidStatus
	statusErr  error
	enableErr  error
	disableErr error

	enableCalls  int
	disableCalls int
	lastMax      decimal.Decimal
}

func (f *fakeBackend) EnableAutoBid(ctx context.Context, auctionID string, maxAmount decimal.Decimal) error {
	f.enableCalls++
	f.lastMax = maxAmount
	return f.enableErr
}

func (f *fakeBackend) DisableAutoBid(ctx context.Context, auctionID string) error {
	f.disableCalls++
	return f.disableErr
}

func (f *fakeBackend) GetAutoBidStatus(ctx context.Context, auctionID string) (*models.AutoBidStatus, error) {
	return f.status, f.statusErr
}

func activeAuction() *models.Auction {
	return &models.Auction{
		ID:           "a1",
		Status:       models.AuctionStatusActive,
		CurrentPrice: decimal.NewFromInt(100),
		BidIncrement: decimal.NewFromInt(10),
	}
}

func provider(a *models.Auction) AuctionProvider {
	return func() *models.Auction { return a }
}

func TestStartConfiguring(t *testing.T) {
	tests := []struct {
		name    string
		auction *models.Auction
		phase   Phase
		wantErr error
	}{
		{
			name:    "allowed_while_auction_active",
			auction: activeAuction(),
			phase:   PhaseDisabled,
		},
		{
			name:    "allowed_after_a_stop",
			auction: activeAuction(),
			phase:   PhaseStopped,
		},
		{
			name:    "rejected_while_already_active",
			auction: activeAuction(),
			phase:   PhaseActive,
			wantErr: ErrNotConfigurable,
		},
		{
			name:    "rejected_on_ended_auction",
			auction: &models.Auction{Status: models.AuctionStatusEnded},
			phase:   PhaseDisabled,
			wantErr: ErrNotConfigurable,
		},
		{
			name:    "rejected_without_auction_snapshot",
			auction: nil,
			phase:   PhaseDisabled,
			wantErr: ErrNotConfigurable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController("a1", &fakeBackend{}, provider(tt.auction))
			c.state = State{Phase: tt.phase}

			err := c.StartConfiguring()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, PhaseConfiguring, c.State().Phase)
		})
	}
}

func TestCancelConfiguring(t *testing.T) {
	c := NewController("a1", &fakeBackend{}, provider(activeAuction()))
	require.NoError(t, c.StartConfiguring())

	c.CancelConfiguring()
	require.Equal(t, PhaseDisabled, c.State().Phase)

	// Cancelling outside Configuring is a no-op.
	c.state = State{Phase: PhaseStopped, StopReason: models.StopReasonMaxAmount}
	c.CancelConfiguring()
	require.Equal(t, PhaseStopped, c.State().Phase)
}

func TestEnable(t *testing.T) {
	t.Run("validates_max_amount_before_the_backend_call", func(t *testing.T) {
		backend := &fakeBackend{}
		c := NewController("a1", backend, provider(activeAuction()))
		require.NoError(t, c.StartConfiguring())

		err := c.Enable(context.Background(), decimal.NewFromInt(105))
		require.True(t, apierrors.IsValidation(err))
		require.Zero(t, backend.enableCalls)
		require.Equal(t, PhaseConfiguring, c.State().Phase)
	})

	t.Run("success_refreshes_to_backend_state", func(t *testing.T) {
		backend := &fakeBackend{
			status: &models.AutoBidStatus{IsActive: true, MaxAmount: decimal.NewFromInt(150)},
		}
		c := NewController("a1", backend, provider(activeAuction()))
		require.NoError(t, c.StartConfiguring())

		require.NoError(t, c.Enable(context.Background(), decimal.NewFromInt(150)))
		require.Equal(t, 1, backend.enableCalls)

		state := c.State()
		require.Equal(t, PhaseActive, state.Phase)
		require.True(t, state.MaxAmount.Equal(decimal.NewFromInt(150)))
	})

	t.Run("accepted_enable_leaves_configuring_even_if_refresh_fails", func(t *testing.T) {
		backend := &fakeBackend{statusErr: errors.New("status fetch down")}
		c := NewController("a1", backend, provider(activeAuction()))
		require.NoError(t, c.StartConfiguring())

		err := c.Enable(context.Background(), decimal.NewFromInt(150))
		require.Error(t, err)
		require.Equal(t, 1, backend.enableCalls)

		state := c.State()
		require.Equal(t, PhaseActive, state.Phase)
		require.True(t, state.MaxAmount.Equal(decimal.NewFromInt(150)))
	})

	t.Run("refetched_snapshot_overrides_the_acknowledged_enable", func(t *testing.T) {
		backend := &fakeBackend{
			status: &models.AutoBidStatus{IsActive: false, StopReason: models.StopReasonAuctionEnded},
		}
		c := NewController("a1", backend, provider(activeAuction()))
		require.NoError(t, c.StartConfiguring())

		require.NoError(t, c.Enable(context.Background(), decimal.NewFromInt(150)))

		state := c.State()
		require.Equal(t, PhaseStopped, state.Phase)
		require.Equal(t, models.StopReasonAuctionEnded, state.StopReason)
	})

	t.Run("backend_failure_keeps_configuring", func(t *testing.T) {
		backend := &fakeBackend{enableErr: errors.New("boom")}
		c := NewController("a1", backend, provider(activeAuction()))
		require.NoError(t, c.StartConfiguring())

		err := c.Enable(context.Background(), decimal.NewFromInt(150))
		require.Error(t, err)
		require.Equal(t, PhaseConfiguring, c.State().Phase)
	})

	t.Run("rejected_outside_configuring", func(t *testing.T) {
		c := NewController("a1", &fakeBackend{}, provider(activeAuction()))

		err := c.Enable(context.Background(), decimal.NewFromInt(150))
		require.ErrorIs(t, err, ErrNotConfigurable)
	})
}

func TestDisable(t *testing.T) {
	t.Run("success_refreshes", func(t *testing.T) {
		backend := &fakeBackend{status: nil}
		c := NewController("a1", backend, provider(activeAuction()))
		c.state = State{Phase: PhaseActive, MaxAmount: decimal.NewFromInt(150)}

		require.NoError(t, c.Disable(context.Background()))
		require.Equal(t, 1, backend.disableCalls)
		require.Equal(t, PhaseDisabled, c.State().Phase)
	})

	t.Run("rejected_while_not_active", func(t *testing.T) {
		c := NewController("a1", &fakeBackend{}, provider(activeAuction()))

		err := c.Disable(context.Background())
		require.ErrorIs(t, err, ErrNotActive)
	})

	t.Run("backend_failure_keeps_active", func(t *testing.T) {
		backend := &fakeBackend{disableErr: errors.New("boom")}
		c := NewController("a1", backend, provider(activeAuction()))
		c.state = State{Phase: PhaseActive}

		require.Error(t, c.Disable(context.Background()))
		require.Equal(t, PhaseActive, c.State().Phase)
	})
}

func TestApply(t *testing.T) {
	t.Run("stop_reason_comes_only_from_the_backend", func(t *testing.T) {
		c := NewController("a1", &fakeBackend{}, provider(activeAuction()))
		c.state = State{Phase: PhaseActive, MaxAmount: decimal.NewFromInt(150)}

		c.Apply(&models.AutoBidStatus{
			IsActive:   false,
			StopReason: models.StopReasonHighestBidder,
		})

		state := c.State()
		require.Equal(t, PhaseStopped, state.Phase)
		require.Equal(t, models.StopReasonHighestBidder, state.StopReason)
		require.Equal(t, "You are the highest bidder!", state.StopReason.Message())
	})

	t.Run("snapshot_never_interrupts_an_open_setup_form", func(t *testing.T) {
		c := NewController("a1", &fakeBackend{}, provider(activeAuction()))
		require.NoError(t, c.StartConfiguring())

		c.Apply(&models.AutoBidStatus{IsActive: true, MaxAmount: decimal.NewFromInt(150)})
		require.Equal(t, PhaseConfiguring, c.State().Phase)
	})

	t.Run("nil_status_means_disabled", func(t *testing.T) {
		c := NewController("a1", &fakeBackend{}, provider(activeAuction()))
		c.state = State{Phase: PhaseStopped, StopReason: models.StopReasonMaxAmount}

		c.Apply(nil)
		require.Equal(t, PhaseDisabled, c.State().Phase)
	})

	t.Run("inactive_without_reason_means_disabled", func(t *testing.T) {
		c := NewController("a1", &fakeBackend{}, provider(activeAuction()))
		c.state = State{Phase: PhaseActive}

		c.Apply(&models.AutoBidStatus{IsActive: false})
		require.Equal(t, PhaseDisabled, c.State().Phase)
	})
}

func TestReEnableAfterStopGoesThroughConfiguring(t *testing.T) {
	backend := &fakeBackend{
		status: &models.AutoBidStatus{IsActive: true, MaxAmount: decimal.NewFromInt(200)},
	}
	c := NewController("a1", backend, provider(activeAuction()))
	c.state = State{Phase: PhaseStopped, StopReason: models.StopReasonMaxAmount}

	// Direct enable from Stopped is rejected; the setup form must reopen.
	require.ErrorIs(t, c.Enable(context.Background(), decimal.NewFromInt(200)), ErrNotConfigurable)

	require.NoError(t, c.StartConfiguring())
	require.NoError(t, c.Enable(context.Background(), decimal.NewFromInt(200)))
	require.Equal(t, PhaseActive, c.State().Phase)
}

func TestView(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  View
	}{
		{
			name:  "disabled_offers_enable",
			state: State{Phase: PhaseDisabled},
			want:  View{ShowEnableButton: true},
		},
		{
			name:  "configuring_shows_setup_form",
			state: State{Phase: PhaseConfiguring},
			want:  View{ShowSetupForm: true},
		},
		{
			name:  "active_shows_banner_with_max",
			state: State{Phase: PhaseActive, MaxAmount: decimal.NewFromInt(150)},
			want:  View{ShowActiveBanner: true, MaxAmount: decimal.NewFromInt(150)},
		},
		{
			name:  "stopped_shows_reason_and_reenable",
			state: State{Phase: PhaseStopped, StopReason: models.StopReasonAuctionEnded},
			want: View{
				ShowEnableButton: true,
				ShowStoppedNote:  true,
				StoppedMessage:   "Auction time is over.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController("a1", &fakeBackend{}, provider(activeAuction()))
			c.state = tt.state
			require.Equal(t, tt.want, c.View())
		})
	}
}
