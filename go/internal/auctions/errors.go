package auctions

import (
	"github.com/shopspring/decimal"

	"github.com/bidforhope/livesync/go/internal/apierrors"
)

var errNotActive = apierrors.NewValidation("auction", "auction is not active")

func errBidBelowMinimum(min decimal.Decimal) error {
	return apierrors.NewValidation("amount", "must be at least the minimum next bid of "+min.String())
}
