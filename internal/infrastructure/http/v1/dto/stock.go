package dto

import (
	"time"

	"synexpos/internal/domain/registers/stock"
)

// ReceiveStockRequest records a supplier delivery. Dates are YYYY-MM-DD;
// a missing purchase date means today.
type ReceiveStockRequest struct {
	ItemCode     string  `json:"itemCode" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required"`
	PurchaseDate string  `json:"purchaseDate"`
	ExpiryDate   *string `json:"expiryDate"`
}

// ToInput converts DTO to the stock service input.
func (r *ReceiveStockRequest) ToInput() (stock.ReceiveInput, error) {
	var purchase time.Time
	if r.PurchaseDate != "" {
		d, err := ParseDate("purchaseDate", r.PurchaseDate)
		if err != nil {
			return stock.ReceiveInput{}, err
		}
		purchase = d
	}
	expiry, err := ParseOptionalDate("expiryDate", r.ExpiryDate)
	if err != nil {
		return stock.ReceiveInput{}, err
	}
	return stock.ReceiveInput{
		ItemCode:     r.ItemCode,
		Quantity:     r.Quantity,
		PurchaseDate: purchase,
		ExpiryDate:   expiry,
	}, nil
}

// MoveStockRequest replenishes a channel pool from the batches.
type MoveStockRequest struct {
	ItemCode string        `json:"itemCode" binding:"required"`
	Quantity int           `json:"quantity" binding:"required"`
	Channel  stock.Channel `json:"channel" binding:"required"`
}

// ToInput converts DTO to the stock service input.
func (r *MoveStockRequest) ToInput() stock.MoveInput {
	return stock.MoveInput{ItemCode: r.ItemCode, Quantity: r.Quantity, Channel: r.Channel}
}

// BatchFilterRequest narrows the batch list.
type BatchFilterRequest struct {
	ItemCode      string `form:"itemCode"`
	OnlyRemaining bool   `form:"onlyRemaining"`
}

// BatchResponse represents a stock batch.
type BatchResponse struct {
	ID                int64   `json:"id"`
	ItemCode          string  `json:"itemCode"`
	QuantityReceived  int     `json:"quantityReceived"`
	QuantityRemaining int     `json:"quantityRemaining"`
	PurchaseDate      string  `json:"purchaseDate"`
	ExpiryDate        *string `json:"expiryDate,omitempty"`
}

// FromBatch converts entity to response DTO.
func FromBatch(b *stock.StockBatch) BatchResponse {
	resp := BatchResponse{
		ID:                b.ID(),
		ItemCode:          b.ItemCode().String(),
		QuantityReceived:  b.QuantityReceived(),
		QuantityRemaining: b.QuantityRemaining(),
		PurchaseDate:      b.PurchaseDate().Format(DateLayout),
	}
	if exp, ok := b.ExpiryDate(); ok {
		s := exp.Format(DateLayout)
		resp.ExpiryDate = &s
	}
	return resp
}

// FromBatches converts a list of batches.
func FromBatches(batches []*stock.StockBatch) []BatchResponse {
	out := make([]BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, FromBatch(b))
	}
	return out
}

// DrawResponse is the quantity taken from one batch.
type DrawResponse struct {
	BatchID  int64 `json:"batchId"`
	Quantity int   `json:"quantity"`
}

// MoveResponse reports a replenishment.
type MoveResponse struct {
	ItemCode        string         `json:"itemCode"`
	Channel         stock.Channel  `json:"channel"`
	Quantity        int            `json:"quantity"`
	ChannelQuantity int            `json:"channelQuantity"`
	Draws           []DrawResponse `json:"draws"`
}

// FromMoveResult converts a move result.
func FromMoveResult(r *stock.MoveResult) MoveResponse {
	draws := make([]DrawResponse, 0, len(r.Draws))
	for _, d := range r.Draws {
		draws = append(draws, DrawResponse{BatchID: d.Batch.ID(), Quantity: d.Quantity})
	}
	return MoveResponse{
		ItemCode:        r.ItemCode.String(),
		Channel:         r.Channel,
		Quantity:        r.Quantity,
		ChannelQuantity: r.ChannelQuantity,
		Draws:           draws,
	}
}

// ChannelStockResponse is one pool row.
type ChannelStockResponse struct {
	ItemCode  string        `json:"itemCode"`
	Channel   stock.Channel `json:"channel"`
	Quantity  int           `json:"quantity"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// FromChannelStock converts pool rows.
func FromChannelStock(rows []*stock.ChannelStock) []ChannelStockResponse {
	out := make([]ChannelStockResponse, 0, len(rows))
	for _, cs := range rows {
		out = append(out, ChannelStockResponse{
			ItemCode:  cs.ItemCode.String(),
			Channel:   cs.Channel,
			Quantity:  cs.Quantity(),
			UpdatedAt: cs.UpdatedAt,
		})
	}
	return out
}
