package delivery

import (
	"errors"
	"net/http"
	"time"

	bookingdomain "meetsync-backend/internal/booking/domain"
	magicdomain "meetsync-backend/internal/magiclink/domain"
	"meetsync-backend/internal/reschedule/domain"
	"meetsync-backend/internal/reschedule/usecase"
	"meetsync-backend/pkg/token"

	"github.com/gin-gonic/gin"
)

// RescheduleHandler handles the link-authenticated negotiation surface plus
// the host-authenticated link issuance endpoint.
type RescheduleHandler struct {
	rescheduleUsecase usecase.RescheduleUsecase
}

// NewRescheduleHandler creates a new RescheduleHandler
func NewRescheduleHandler(rescheduleUsecase usecase.RescheduleUsecase) *RescheduleHandler {
	return &RescheduleHandler{
		rescheduleUsecase: rescheduleUsecase,
	}
}

// IssueLinkRequest represents the request body for issuing a propose link
type IssueLinkRequest struct {
	Recipient string `json:"recipient" binding:"required,oneof=host guest"`
}

// ProposeBody represents the request body for proposing a new time
type ProposeBody struct {
	Token string    `json:"token" binding:"required"`
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
	Note  string    `json:"note"`
}

// DecideBody represents the request body for deciding on a proposal
type DecideBody struct {
	Token        string     `json:"token" binding:"required"`
	Action       string     `json:"action" binding:"required,oneof=agree cancel propose"`
	CounterStart *time.Time `json:"counter_start"`
	CounterEnd   *time.Time `json:"counter_end"`
	Note         string     `json:"note"`
}

// IssueLink mints a propose-reschedule link for one party of a booking
// POST /api/bookings/:id/reschedule-link
func (h *RescheduleHandler) IssueLink(c *gin.Context) {
	userID := c.GetString("userID")
	bookingID := c.Param("id")

	var req IssueLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issued, err := h.rescheduleUsecase.IssueProposeLink(c.Request.Context(), userID, bookingID, bookingdomain.PartyRole(req.Recipient))
	if err != nil {
		if errors.Is(err, bookingdomain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":        issued.URL,
		"expires_at": issued.ExpiresAt,
	})
}

// CancelBooking cancels one of the host's bookings and notifies both parties
// POST /api/bookings/:id/cancel
func (h *RescheduleHandler) CancelBooking(c *gin.Context) {
	userID := c.GetString("userID")
	bookingID := c.Param("id")

	booking, err := h.rescheduleUsecase.CancelBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		if errors.Is(err, bookingdomain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		if errors.Is(err, bookingdomain.ErrStaleSequence) {
			c.JSON(http.StatusConflict, gin.H{"error": "booking changed concurrently, retry"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// ListProposals lists reschedule proposals for one of the host's bookings
// GET /api/bookings/:id/proposals
func (h *RescheduleHandler) ListProposals(c *gin.Context) {
	userID := c.GetString("userID")
	bookingID := c.Param("id")

	proposals, err := h.rescheduleUsecase.ListProposals(userID, bookingID)
	if err != nil {
		if errors.Is(err, bookingdomain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposals": proposals})
}

// View returns booking and proposal details for any active link
// GET /api/r/view?token=...
func (h *RescheduleHandler) View(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	resp, err := h.rescheduleUsecase.View(rawToken)
	if err != nil {
		h.linkError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Propose creates a pending reschedule proposal
// POST /api/r/propose
func (h *RescheduleHandler) Propose(c *gin.Context) {
	var body ProposeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := h.rescheduleUsecase.Propose(c.Request.Context(), usecase.ProposeRequest{
		Token: body.Token,
		Start: body.Start,
		End:   body.End,
		Note:  body.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
			return
		}
		h.linkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// Decide applies a decision to a pending proposal, consuming the link
// POST /api/r/decide
func (h *RescheduleHandler) Decide(c *gin.Context) {
	var body DecideBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.rescheduleUsecase.Decide(c.Request.Context(), usecase.DecideRequest{
		Token:        body.Token,
		Action:       usecase.DecideAction(body.Action),
		CounterStart: body.CounterStart,
		CounterEnd:   body.CounterEnd,
		Note:         body.Note,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "counter-proposal needs a valid time range"})
			return
		}
		h.linkError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// linkError maps token, ledger and state-machine failures to HTTP statuses.
// Forged and unknown tokens are indistinguishable to the caller.
func (h *RescheduleHandler) linkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, token.ErrMalformed),
		errors.Is(err, token.ErrInvalidSignature),
		errors.Is(err, magicdomain.ErrLinkNotFound),
		errors.Is(err, magicdomain.ErrPurposeMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid link"})
	case errors.Is(err, token.ErrExpired), errors.Is(err, magicdomain.ErrLinkExpired):
		c.JSON(http.StatusGone, gin.H{"error": "link expired"})
	case errors.Is(err, magicdomain.ErrLinkAlreadyUsed):
		c.JSON(http.StatusConflict, gin.H{"error": "link already used"})
	case errors.Is(err, domain.ErrPreconditionFailed):
		c.JSON(http.StatusConflict, gin.H{"error": "proposal already decided"})
	case errors.Is(err, domain.ErrProposalNotFound), errors.Is(err, bookingdomain.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
