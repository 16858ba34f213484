// Package reports provides sales and stock reports.
package reports

import (
	"time"

	"synexpos/internal/core/types"
)

// --- Daily sales ---

// DailySalesFilter selects the bills of one day.
type DailySalesFilter struct {
	Date time.Time
	// TransactionType narrows to COUNTER or ONLINE when set.
	TransactionType string
}

// ItemSales sums the lines of one item.
type ItemSales struct {
	ItemCode string      `db:"item_code" json:"itemCode"`
	ItemName string      `db:"item_name" json:"itemName"`
	Quantity int         `db:"quantity" json:"quantity"`
	Revenue  types.Money `db:"revenue" json:"revenue"`
}

// DailySalesReport is the sales summary of a day.
type DailySalesReport struct {
	Date            time.Time   `json:"date"`
	TransactionType string      `json:"transactionType,omitempty"`
	BillCount       int         `json:"billCount"`
	TotalRevenue    types.Money `json:"totalRevenue"`
	Items           []ItemSales `json:"items"`
}

// --- Stock ---

// BatchRow is one batch in the stock report.
type BatchRow struct {
	BatchID           int64      `db:"batch_id" json:"batchId"`
	ItemCode          string     `db:"item_code" json:"itemCode"`
	ItemName          string     `db:"item_name" json:"itemName"`
	QuantityReceived  int        `db:"quantity_received" json:"quantityReceived"`
	QuantityRemaining int        `db:"quantity_remaining" json:"quantityRemaining"`
	PurchaseDate      time.Time  `db:"purchase_date" json:"purchaseDate"`
	ExpiryDate        *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`

	// Filled by the service relative to the report day.
	DaysUntilExpiry *int `db:"-" json:"daysUntilExpiry,omitempty"`
	Expired         bool `db:"-" json:"expired"`
}

// StockReport lists all batches with the channel totals.
type StockReport struct {
	GeneratedAt    time.Time  `json:"generatedAt"`
	Batches        []BatchRow `json:"batches"`
	TotalRemaining int        `json:"totalRemaining"`
	ExpiredBatches int        `json:"expiredBatches"`
}

// --- Reorder ---

// ReorderRow is an item whose shelf quantity fell below its reorder level.
type ReorderRow struct {
	ItemCode        string `db:"item_code" json:"itemCode"`
	ItemName        string `db:"item_name" json:"itemName"`
	ReorderLevel    int    `db:"reorder_level" json:"reorderLevel"`
	ShelfQuantity   int    `db:"shelf_quantity" json:"shelfQuantity"`
	WebsiteQuantity int    `db:"website_quantity" json:"websiteQuantity"`
}

// --- Bills ---

// BillRangeFilter selects bills by day range, inclusive.
type BillRangeFilter struct {
	From time.Time
	To   time.Time
}

// BillSummary is one bill in the bill report.
type BillSummary struct {
	ID              int64       `db:"id" json:"id"`
	SerialNumber    string      `db:"serial_number" json:"serialNumber"`
	DateTime        time.Time   `db:"date_time" json:"dateTime"`
	TransactionType string      `db:"transaction_type" json:"transactionType"`
	PaymentMethod   string      `db:"payment_method" json:"paymentMethod"`
	CustomerName    string      `db:"customer_name" json:"customerName,omitempty"`
	ItemCount       int         `db:"item_count" json:"itemCount"`
	Total           types.Money `db:"total" json:"total"`
}

// BillReport lists the bills of a range.
type BillReport struct {
	From         time.Time     `json:"from"`
	To           time.Time     `json:"to"`
	Bills        []BillSummary `json:"bills"`
	BillCount    int           `json:"billCount"`
	TotalRevenue types.Money   `json:"totalRevenue"`
}
