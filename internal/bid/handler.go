package bid

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

// @Summary      Place bid
// @Tags         bids
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product ID"
// @Param        request body bid.PlaceBidRequest true "Bid payload"
// @Success      200 {object} bid.BidView
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /products/{id}/bid [post]
func (h *Handler) PlaceBid(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "user not authenticated"})
		return
	}

	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "amount_cents must be positive"})
		return
	}

	_, tr, err := h.service.PlaceBid(c.Request.Context(), userID, productID, req.AmountCents)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
		case errors.Is(err, ErrNotAuction), errors.Is(err, ErrNotApproved), errors.Is(err, ErrBiddingClosed):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrBidTooLow):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "bid is below the minimum acceptable amount"})
		case errors.Is(err, ErrOwnProduct):
			c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "sellers cannot bid on their own products"})
		case errors.Is(err, wallet.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, api.ErrorResponse{Error: "insufficient wallet balance"})
		case errors.Is(err, ErrBidConflict):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "another bid is being processed, try again"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to place bid"})
		}
		return
	}

	view, err := h.service.GetBidDetails(c.Request.Context(), productID, userID)
	if err != nil {
		// The bid itself committed; fall back to the bare transaction.
		c.JSON(http.StatusOK, gin.H{"transaction_id": tr.ID})
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary      Auction details
// @Tags         bids
// @Produce      json
// @Param        id path int true "Product ID"
// @Success      200 {object} bid.BidView
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /products/{id}/bid [get]
func (h *Handler) GetBidDetails(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid product id"})
		return
	}

	// The caller's own hold and winner flag ride along in the view.
	userID, _ := auth.GetUserID(c)

	view, err := h.service.GetBidDetails(c.Request.Context(), productID, userID)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "product not found"})
		case errors.Is(err, ErrNotAuction):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "product is not an auction"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load auction details"})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// @Summary      List auctions
// @Tags         bids
// @Produce      json
// @Success      200 {array} bid.BidView
// @Router       /auctions [get]
func (h *Handler) ListAuctions(c *gin.Context) {
	views, err := h.service.ListAuctions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "failed to load auctions"})
		return
	}

	c.JSON(http.StatusOK, views)
}
