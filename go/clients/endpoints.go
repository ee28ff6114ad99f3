package clients

const (
	// Auctions and bids
	auctionEndpoint     = "/auctions/%s"
	auctionBidsEndpoint = "/bids/auction/%s"
	placeBidEndpoint    = "/bids/%s"
	endAuctionEndpoint  = "/auctions/%s/end"
	donateEndpoint      = "/auctions/%s/donate"

	// Auto-bid
	autoBidEnableEndpoint  = "/autobid/enable"
	autoBidDisableEndpoint = "/autobid/disable"
	autoBidStatusEndpoint  = "/autobid/status/%s"

	// Wallet
	transactionsEndpoint = "/ngos/%s/transactions"
	debitEndpoint        = "/ngos/%s/transactions/debit"

	// Withdrawals
	withdrawalRequestEndpoint = "/withdrawals/request"
	myWithdrawalsEndpoint     = "/withdrawals/my-requests"
	processWithdrawalEndpoint = "/withdrawals/%s/process"
	processAndPayEndpoint     = "/payouts/withdrawal/%s/process-and-pay"

	// Bank details
	bankDetailsEndpoint = "/ngos/bank-details"
)
