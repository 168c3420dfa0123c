package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/campus-admin-api/internal/middleware"
	"github.com/campushq/campus-admin-api/internal/service"
	appErrors "github.com/campushq/campus-admin-api/pkg/errors"
	"github.com/campushq/campus-admin-api/pkg/response"
)

// LibraryHandler exposes the catalog and lending endpoints.
type LibraryHandler struct {
	service *service.LendingService
	cache   *service.CacheService
}

// NewLibraryHandler creates a new handler.
func NewLibraryHandler(svc *service.LendingService, cache *service.CacheService) *LibraryHandler {
	return &LibraryHandler{service: svc, cache: cache}
}

// SearchBooks godoc
// @Summary Search books
// @Description Search the catalog by title, author, ISBN or category
// @Tags Library
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {object} response.Envelope
// @Router /library/books [get]
func (h *LibraryHandler) SearchBooks(c *gin.Context) {
	books, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, books, nil)
}

// GetBook godoc
// @Summary Get book
// @Description Fetch one catalog entry by id
// @Tags Library
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library/books/{id} [get]
func (h *LibraryHandler) GetBook(c *gin.Context) {
	book, err := h.service.Book(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}

// Borrow godoc
// @Summary Borrow book
// @Description Lend one copy to the user
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.LendingRequest true "Lending payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /library/borrow [post]
func (h *LibraryHandler) Borrow(c *gin.Context) {
	var req service.LendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lending payload"))
		return
	}

	loan, err := h.service.Borrow(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.Created(c, loan)
}

// Return godoc
// @Summary Return book
// @Description Close the active loan and restore the copy
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.LendingRequest true "Lending payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library/return [post]
func (h *LibraryHandler) Return(c *gin.Context) {
	var req service.LendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lending payload"))
		return
	}

	loan, err := h.service.Return(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, loan, nil)
}

// Renew godoc
// @Summary Renew loan
// @Description Extend the active loan's due date
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.LendingRequest true "Lending payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /library/renew [post]
func (h *LibraryHandler) Renew(c *gin.Context) {
	var req service.LendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lending payload"))
		return
	}

	loan, err := h.service.Renew(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, loan, nil)
}

// Reserve godoc
// @Summary Reserve book
// @Description Queue a reservation for a fully lent book
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.LendingRequest true "Lending payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /library/reserve [post]
func (h *LibraryHandler) Reserve(c *gin.Context) {
	var req service.LendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lending payload"))
		return
	}

	res, err := h.service.Reserve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.Created(c, res)
}

// CancelReservation godoc
// @Summary Cancel reservation
// @Description Cancel a waiting reservation
// @Tags Library
// @Accept json
// @Produce json
// @Param payload body service.LendingRequest true "Lending payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /library/reserve/cancel [post]
func (h *LibraryHandler) CancelReservation(c *gin.Context) {
	var req service.LendingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lending payload"))
		return
	}

	res, err := h.service.CancelReservation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	middleware.InvalidateResponses(c, h.cache, "")
	response.JSON(c, http.StatusOK, res, nil)
}

// ListLoans godoc
// @Summary List loans
// @Description List a user's loans with book details
// @Tags Library
// @Produce json
// @Param userId path string true "User ID"
// @Param active query bool false "Active loans only"
// @Success 200 {object} response.Envelope
// @Router /library/loans/{userId} [get]
func (h *LibraryHandler) ListLoans(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	loans, err := h.service.Loans(c.Request.Context(), c.Param("userId"), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loans, nil)
}

// ListReservations godoc
// @Summary List reservations
// @Description List a user's waiting reservations with book details
// @Tags Library
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /library/reservations/{userId} [get]
func (h *LibraryHandler) ListReservations(c *gin.Context) {
	reservations, err := h.service.Reservations(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations, nil)
}
