package handlers

import (
	"github.com/gin-gonic/gin"

	"synexpos/internal/domain/catalogs/item"
	"synexpos/internal/domain/registers/stock"
	"synexpos/internal/infrastructure/http/v1/dto"
)

// StockHandler handles deliveries, replenishment and stock levels.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
	items   *item.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service, items *item.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, service: service, items: items}
}

// Receive handles POST /stock/batches
func (h *StockHandler) Receive(c *gin.Context) {
	var req dto.ReceiveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	batch, err := h.service.ReceiveStock(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, dto.FromBatch(batch))
}

// Move handles POST /stock/move
func (h *StockHandler) Move(c *gin.Context) {
	var req dto.MoveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.MoveToChannel(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMoveResult(result))
}

// Batches handles GET /stock/batches
func (h *StockHandler) Batches(c *gin.Context) {
	var req dto.BatchFilterRequest
	if !h.BindQuery(c, &req) {
		return
	}
	ctx := c.Request.Context()

	filter := stock.BatchFilter{OnlyRemaining: req.OnlyRemaining}
	if req.ItemCode != "" {
		it, err := h.items.GetByCode(ctx, req.ItemCode)
		if err != nil {
			h.Error(c, err)
			return
		}
		itemID := it.ID()
		filter.ItemID = &itemID
	}

	batches, err := h.service.ListBatches(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromBatches(batches))
}

// Levels handles GET /stock/levels/:channel
func (h *StockHandler) Levels(c *gin.Context) {
	rows, err := h.service.ChannelLevels(c.Request.Context(), stock.Channel(c.Param("channel")))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromChannelStock(rows))
}
