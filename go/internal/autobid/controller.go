// Package autobid is the client-side state machine for a user's auto-bid
// participation in one auction. The backend executes the actual proxy
// bidding; this controller only issues enable/disable intents and folds in
// the status snapshots the backend reports back.
package autobid

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/apierrors"
	"github.com/bidforhope/livesync/go/internal/models"
)

// Phase is the controller's position in the auto-bid lifecycle.
type Phase string

const (
	// PhaseDisabled: no auto-bid, no setup form open.
	PhaseDisabled Phase = "disabled"
	// PhaseConfiguring: the user is entering a max amount. Local-only;
	// nothing has been sent to the backend yet.
	PhaseConfiguring Phase = "configuring"
	// PhaseActive: the backend confirmed auto-bid is running.
	PhaseActive Phase = "active"
	// PhaseStopped: the backend reported auto-bid ended, with a reason.
	PhaseStopped Phase = "stopped"
)

// State is the controller's full externally visible state.
type State struct {
	Phase      Phase
	MaxAmount  decimal.Decimal   // set while Active
	StopReason models.StopReason // set while Stopped
}

// ErrNotConfigurable is returned when opening the setup form is not allowed
// in the current auction/controller state.
var ErrNotConfigurable = errors.New("auto-bid cannot be configured now")

// ErrNotActive is returned when disabling while the backend never confirmed
// an active auto-bid.
var ErrNotActive = errors.New("auto-bid is not active")

// Backend is what the controller needs from the REST client.
type Backend interface {
	EnableAutoBid(ctx context.Context, auctionID string, maxAmount decimal.Decimal) error
	DisableAutoBid(ctx context.Context, auctionID string) error
	GetAutoBidStatus(ctx context.Context, auctionID string) (*models.AutoBidStatus, error)
}

// AuctionProvider returns the latest auction snapshot, used for guards and
// max-amount validation. Nil means no snapshot yet.
type AuctionProvider func() *models.Auction

// Controller drives one user's auto-bid for one auction.
type Controller struct {
	auctionID string
	backend   Backend
	auction   AuctionProvider

	mu    sync.Mutex
	state State
}

// NewController creates a controller in the Disabled phase.
func NewController(auctionID string, backend Backend, auction AuctionProvider) *Controller {
	return &Controller{
		auctionID: auctionID,
		backend:   backend,
		auction:   auction,
		state:     State{Phase: PhaseDisabled},
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartConfiguring opens the max-amount setup. Allowed only while the
// auction is active and the backend has not confirmed an active auto-bid;
// re-enabling after a stop goes through here as well.
func (c *Controller) StartConfiguring() error {
	auction := c.auction()
	if auction == nil || !auction.IsActive() {
		return ErrNotConfigurable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == PhaseActive {
		return ErrNotConfigurable
	}
	c.state = State{Phase: PhaseConfiguring}
	return nil
}

// CancelConfiguring closes the setup form without submitting.
func (c *Controller) CancelConfiguring() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase == PhaseConfiguring {
		c.state = State{Phase: PhaseDisabled}
	}
}

// Enable validates the max amount and submits the enable intent. Once the
// backend accepts it the controller leaves Configuring and refreshes
// immediately, so the displayed state is the backend's snapshot. Validation
// or backend failure keeps the controller in Configuring; a failed refresh
// after an accepted enable leaves the acknowledged state until the next
// status poll folds in.
func (c *Controller) Enable(ctx context.Context, maxAmount decimal.Decimal) error {
	c.mu.Lock()
	if c.state.Phase != PhaseConfiguring {
		c.mu.Unlock()
		return ErrNotConfigurable
	}
	c.mu.Unlock()

	auction := c.auction()
	if auction == nil || !auction.IsActive() {
		return apierrors.NewValidation("auction", "auction is no longer active")
	}
	if min := auction.MinimumNextBid(); maxAmount.LessThan(min) {
		return apierrors.NewValidation("maxAmount", "must be at least the minimum next bid of "+min.String())
	}

	if err := c.backend.EnableAutoBid(ctx, c.auctionID, maxAmount); err != nil {
		return err
	}

	// The backend accepted the intent: the setup form closes here, otherwise
	// the status snapshot below would be ignored by the Configuring guard in
	// Apply. The snapshot still has the last word on the final state.
	c.mu.Lock()
	c.state = State{Phase: PhaseActive, MaxAmount: maxAmount}
	c.mu.Unlock()

	log.Info().
		Str("auction_id", c.auctionID).
		Str("max_amount", maxAmount.String()).
		Msg("auto-bid enabled")

	return c.Refresh(ctx)
}

// Disable submits the disable intent and refreshes. Failure keeps the
// Active state; the backend may well still be bidding.
func (c *Controller) Disable(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != PhaseActive {
		c.mu.Unlock()
		return ErrNotActive
	}
	c.mu.Unlock()

	if err := c.backend.DisableAutoBid(ctx, c.auctionID); err != nil {
		return err
	}

	log.Info().Str("auction_id", c.auctionID).Msg("auto-bid disabled")

	return c.Refresh(ctx)
}

// Refresh fetches the backend's status snapshot and folds it in.
func (c *Controller) Refresh(ctx context.Context) error {
	status, err := c.backend.GetAutoBidStatus(ctx, c.auctionID)
	if err != nil {
		return err
	}
	c.Apply(status)
	return nil
}

// Apply folds a status snapshot into the state machine. This is the only way
// Active can become Stopped: stop reasons are assigned by the backend and
// merely observed here. A snapshot never interrupts an open setup form,
// since Configuring is local state the backend knows nothing about.
func (c *Controller) Apply(status *models.AutoBidStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase == PhaseConfiguring {
		return
	}

	switch {
	case status == nil:
		c.state = State{Phase: PhaseDisabled}
	case status.IsActive:
		c.state = State{Phase: PhaseActive, MaxAmount: status.MaxAmount}
	case status.StopReason != models.StopReasonNone:
		if c.state.Phase != PhaseStopped || c.state.StopReason != status.StopReason {
			log.Info().
				Str("auction_id", c.auctionID).
				Str("stop_reason", string(status.StopReason)).
				Msg("auto-bid stopped by backend")
		}
		c.state = State{Phase: PhaseStopped, StopReason: status.StopReason}
	default:
		c.state = State{Phase: PhaseDisabled}
	}
}
