package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CeliaIneza/celebstash-back/internal/api"
	"github.com/CeliaIneza/celebstash-back/internal/auth"
	"github.com/CeliaIneza/celebstash-back/internal/product"
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

// @Summary      Add item to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body cart.AddItemRequest true "Item payload"
// @Success      201 {object} cart.CartItem
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /cart [post]
func (h *Handler) AddItem(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
		case errors.Is(err, ErrAuctionNotCartable):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "auction products cannot be added to a cart"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to add item to cart"})
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// @Summary      View cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} cart.CartResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// @Summary      Update item quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        productId path int true "Product ID"
// @Param        request body cart.UpdateQuantityRequest true "Quantity payload"
// @Success      200 {object} cart.CartItem
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /cart/{productId} [patch]
func (h *Handler) UpdateQuantity(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "quantity must be at least 1"})
		return
	}

	item, err := h.service.UpdateQuantity(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to update cart item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// @Summary      Remove item from cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        productId path int true "Product ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /cart/{productId} [delete]
func (h *Handler) RemoveItem(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	if err := h.service.RemoveItem(c.Request.Context(), userID, productID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "item removed"})
}

// @Summary      Clear cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} api.MessageResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /cart [delete]
func (h *Handler) Clear(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	if err := h.service.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "cart cleared"})
}

// @Summary      Check out cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} cart.CheckoutResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /cart/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCartEmpty):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "cart is empty"})
		case errors.Is(err, wallet.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "insufficient wallet balance"})
		case errors.Is(err, product.ErrOutOfStock):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to check out cart"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
