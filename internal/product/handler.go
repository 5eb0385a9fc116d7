package product

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CeliaIneza/celebstash-back/internal/api"
	"github.com/CeliaIneza/celebstash-back/internal/auth"
	"github.com/CeliaIneza/celebstash-back/internal/wallet"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      Create product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body product.CreateProductRequest true "Product payload"
// @Success      201 {object} product.Product
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /products [post]
func (h *Handler) Create(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInitialBidRequired), errors.Is(err, ErrInitialBidForbidden):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to create product"})
		}
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      List approved products
// @Tags         products
// @Produce      json
// @Success      200 {array} product.Product
// @Router       /products [get]
func (h *Handler) List(c *gin.Context) {
	products, err := h.service.ListApproved(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary      Get product
// @Tags         products
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} product.Product
// @Failure      404 {object} api.ErrorResponse
// @Router       /products/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load product"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      List my products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} product.Product
// @Failure      401 {object} api.ErrorResponse
// @Router       /products/mine [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	products, err := h.service.ListBySeller(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary      List all products (any status)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} product.Product
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/products [get]
func (h *Handler) ListAll(c *gin.Context) {
	products, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load products"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary      Approve or reject product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Param        request body product.StatusUpdateRequest true "Moderation decision"
// @Success      200 {object} product.Product
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/products/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "status must be approved or rejected"})
		return
	}

	p, err := h.service.Moderate(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update product status"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Promote product to auction
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Param        request body product.PromoteRequest true "Auction settings"
// @Success      200 {object} product.Product
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /products/{id}/promote [post]
func (h *Handler) Promote(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "initial_bid_price_cents must be positive"})
		return
	}

	p, err := h.service.Promote(c.Request.Context(), id, userID, req.InitialBidPriceCents)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "only the seller can promote a product"})
		case errors.Is(err, ErrProductNotApproved):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "product must be approved first"})
		case errors.Is(err, ErrAlreadyAuction):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "product is already an auction"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to promote product"})
		}
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Buy product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Success      200 {object} product.PurchaseResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /products/{id}/purchase [post]
func (h *Handler) Purchase(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	resp, err := h.service.Purchase(c.Request.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
		case errors.Is(err, ErrProductNotApproved), errors.Is(err, ErrNotPurchasable):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrOutOfStock):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "product is out of stock"})
		case errors.Is(err, wallet.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "insufficient wallet balance"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to complete purchase"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
