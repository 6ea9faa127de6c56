package chaindb

// DefaultServer is used when Connect receives an empty server address.
const DefaultServer = "http://localhost:2818"

// Endpoint paths exposed by the ChainDB HTTP API.
const (
	PathLastContractTransaction = "/get_last_contract_transaction"
	PathContractTransactions    = "/get_contract_transactions"
	PathPostContractTransaction = "/post_contract_transaction"
	PathCreateUserAccount       = "/create_user_account"
	PathGetUserAccount          = "/get_user_account"
	PathGetUserAccountByID      = "/get_user_account_by_id"
	PathCheckUserName           = "/check_user_name"
	PathTransferUnits           = "/transfer_units"
	PathGetTransferByUserID     = "/get_transfer_by_user_id"
	PathGetAllTransfersByUserID = "/get_all_transfers_by_user_id"
)
