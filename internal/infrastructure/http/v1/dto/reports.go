package dto

// DailySalesRequest selects one day. An empty date means today.
type DailySalesRequest struct {
	Date            string `form:"date"`
	TransactionType string `form:"transactionType"`
}
