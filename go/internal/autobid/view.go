package autobid

import "github.com/shopspring/decimal"

// View is the pure derived presentation of the controller state. The UI
// renders from this alone; there are no independent visibility booleans that
// could drift out of sync with the state machine.
type View struct {
	ShowEnableButton bool
	ShowSetupForm    bool
	ShowActiveBanner bool
	ShowStoppedNote  bool
	MaxAmount        decimal.Decimal
	StoppedMessage   string
}

// View derives the presentation for the current state.
func (c *Controller) View() View {
	state := c.State()
	switch state.Phase {
	case PhaseConfiguring:
		return View{ShowSetupForm: true}
	case PhaseActive:
		return View{ShowActiveBanner: true, MaxAmount: state.MaxAmount}
	case PhaseStopped:
		return View{
			ShowEnableButton: true,
			ShowStoppedNote:  true,
			StoppedMessage:   state.StopReason.Message(),
		}
	default:
		return View{ShowEnableButton: true}
	}
}
