package ynab

// Types follow https://api.ynab.com/v1. Only the fields this tool reads or writes are declared.

type Payee struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Deleted bool   `json:"deleted"`
}

// Transaction is a transaction as returned by the budget history endpoint.
// PayeeID and CategoryID are empty when the remote value is null.
type Transaction struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	Amount     int64  `json:"amount"`
	PayeeID    string `json:"payee_id"`
	CategoryID string `json:"category_id"`
	Deleted    bool   `json:"deleted"`
}

// SaveTransaction is a transaction submitted for creation.
// Amount is in milliunits of the budget currency.
type SaveTransaction struct {
	AccountID  string `json:"account_id"`
	Date       string `json:"date"`
	Amount     int64  `json:"amount"`
	PayeeName  string `json:"payee_name"`
	CategoryID string `json:"category_id"`
	Memo       string `json:"memo"`
	ImportID   string `json:"import_id"`
}

type BulkRequest struct {
	Transactions []SaveTransaction `json:"transactions"`
}

// BulkResult lists the created transaction ids and the import ids the service already knew.
type BulkResult struct {
	TransactionIDs     []string `json:"transaction_ids"`
	DuplicateImportIDs []string `json:"duplicate_import_ids"`
}

type PayeesResponse struct {
	Data struct {
		Payees []Payee `json:"payees"`
	} `json:"data"`
}

type TransactionsResponse struct {
	Data struct {
		Transactions []Transaction `json:"transactions"`
	} `json:"data"`
}

type BulkResponse struct {
	Data struct {
		Bulk BulkResult `json:"bulk"`
	} `json:"data"`
}
