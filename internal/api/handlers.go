package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/example/vendor-ops/internal/api/middleware"
	"github.com/example/vendor-ops/internal/catalog"
	"github.com/example/vendor-ops/internal/command"
	"github.com/example/vendor-ops/internal/domain/order"
	"github.com/example/vendor-ops/internal/notification"
	"github.com/example/vendor-ops/internal/query"
	"github.com/example/vendor-ops/internal/restock"
	"github.com/example/vendor-ops/internal/vendor"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	commands *command.Handler
	vendors  *vendor.Resolver
	catalog  *catalog.Service
	restock  *restock.Service
}

func NewHandlers(commands *command.Handler, vendors *vendor.Resolver, catalogSvc *catalog.Service, restockSvc *restock.Service) *Handlers {
	return &Handlers{
		commands: commands,
		vendors:  vendors,
		catalog:  catalogSvc,
		restock:  restockSvc,
	}
}

// OrderView is an order as shown to the operator
type OrderView struct {
	order.Order
	StatusColor string `json:"statusColor"`
}

func newOrderView(o order.Order) OrderView {
	return OrderView{Order: o, StatusColor: order.StatusColor(o.Status)}
}

// orderActionResponse carries the operator notice along with the order
type orderActionResponse struct {
	Notice notification.Notice `json:"notice"`
	Order  *OrderView          `json:"order,omitempty"`
}

// Vendor Handlers

func (h *Handlers) GetVendor(c *gin.Context) {
	v, err := h.vendors.Resolve(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vendor.ErrNoVendorAccess) {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": vendor.Message(err)})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handlers) ForgetVendor(c *gin.Context) {
	if err := h.vendors.Forget(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		log.Printf("[API] Failed to clear vendor session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Order Handlers

func (h *Handlers) ListOrders(c *gin.Context) {
	tab := query.Tab(c.DefaultQuery("tab", string(query.TabPending)))
	orders, err := h.commands.ListOrders(c.Request.Context(), middleware.GetVendorID(c), c.Query("q"), tab)
	if err != nil {
		log.Printf("[API] Failed to load orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": notification.MsgLoadOrderFailed})
		return
	}

	views := make([]OrderView, len(orders))
	for i, o := range orders {
		views[i] = newOrderView(o)
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handlers) GetOrder(c *gin.Context) {
	o, err := h.commands.GetOrder(c.Request.Context(), middleware.GetVendorID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, command.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[API] Failed to load order %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": notification.MsgLoadOrderFailed})
		return
	}
	c.JSON(http.StatusOK, newOrderView(o))
}

func (h *Handlers) ApproveOrder(c *gin.Context) {
	id := c.Param("id")
	o, err := h.commands.ApproveOrder(c.Request.Context(), middleware.GetVendorID(c), id)
	respondOrderAction(c, o, err, notification.ApprovalNotice(id, err))
}

func (h *Handlers) CancelOrder(c *gin.Context) {
	id := c.Param("id")
	o, err := h.commands.CancelOrder(c.Request.Context(), middleware.GetVendorID(c), id)
	respondOrderAction(c, o, err, notification.CancellationNotice(id, err))
}

func (h *Handlers) MarkProcessing(c *gin.Context) {
	id := c.Param("id")
	o, err := h.commands.MarkProcessing(c.Request.Context(), middleware.GetVendorID(c), id)
	respondOrderAction(c, o, err, notification.StatusNotice(id, err))
}

func respondOrderAction(c *gin.Context, o order.Order, err error, notice notification.Notice) {
	status := http.StatusOK
	switch {
	case errors.Is(err, command.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition):
		status = http.StatusConflict
	case err != nil:
		status = http.StatusInternalServerError
	}

	resp := orderActionResponse{Notice: notice}
	if o.ID != "" {
		view := newOrderView(o)
		resp.Order = &view
	}
	c.JSON(status, resp)
}

// Catalogue Handlers

func (h *Handlers) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context(), catalog.Filter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		log.Printf("[API] Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) GetCategories(c *gin.Context) {
	tree, err := h.catalog.CategoryTree(c.Request.Context())
	if err != nil {
		log.Printf("[API] Failed to load categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tree)
}

// Restock Handlers

type restockRequest struct {
	Items []restock.Item `json:"items"`
}

func (h *Handlers) SubmitRestock(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"notice": notification.RestockNotice(err), "error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	v, ok, err := h.vendors.Get(ctx, middleware.GetVendorID(c))
	if err == nil && !ok {
		err = restock.ErrVendorRequired
	}
	var ids []string
	if err == nil {
		ids, err = h.restock.Submit(ctx, v, middleware.GetUserID(c), req.Items)
	}

	notice := notification.RestockNotice(err)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, restock.ErrVendorRequired) || errors.Is(err, restock.ErrNoItems) ||
			errors.Is(err, restock.ErrProductRequired) || errors.Is(err, restock.ErrInvalidQuantity) {
			status = http.StatusBadRequest
		}
		log.Printf("[API] Restock request failed: %v", err)
		c.JSON(status, gin.H{"notice": notice, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"notice": notice, "ids": ids})
}
