package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsdash/ledgercore/internal/core/domain"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
	"github.com/opsdash/ledgercore/internal/middleware"
)

// ledgerHandler handles HTTP requests for journal entries and account ledgers.
type ledgerHandler struct {
	ledgerService  portssvc.LedgerSvc
	balanceService portssvc.BalanceSvc
}

func newLedgerHandler(ls portssvc.LedgerSvc, bs portssvc.BalanceSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls, balanceService: bs}
}

// registerLedgerRoutes registers routes for journal entries and balances.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc, balanceService portssvc.BalanceSvc) {
	h := newLedgerHandler(ledgerService, balanceService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/entries", h.postEntry)
		ledger.GET("/entries/:entryID", h.getEntry)
		ledger.POST("/entries/:entryID/reverse", h.reverseEntry)
		ledger.GET("/accounts/:code/postings", h.listAccountPostings)
		ledger.GET("/accounts/:code/balance", h.getBalance)
		ledger.GET("/accounts/:code/period-balance", h.getPeriodBalance)
	}
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and appends a balanced journal entry
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry with postings"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 422 {object} map[string]string "Unbalanced entry or bad account"
// @Router /ledger/entries [post]
func (h *ledgerHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for postEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), req, domain.SourceManual, actorID(c))
	if err != nil {
		logger.Warn("Failed to post entry", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted", slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry, nil))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its postings
// @Tags ledger
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /ledger/entries/{entryID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	entry, postings, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("entryID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry, postings))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Creates a linked reversing entry; the original is never mutated
// @Tags ledger
// @Produce  json
// @Param   entryID path string true "Entry ID to reverse"
// @Success 201 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Router /ledger/entries/{entryID}/reverse [post]
func (h *ledgerHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	reversal, err := h.ledgerService.ReverseEntry(c.Request.Context(), entryID, actorID(c))
	if err != nil {
		logger.Warn("Failed to reverse entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to reverse entry")
		return
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal, nil))
}

// listAccountPostings godoc
// @Summary List an account's postings
// @Description Retrieves an account's postings within a date range
// @Tags ledger
// @Produce  json
// @Param   code path string true "Account code"
// @Param   start query string true "Range start (YYYY-MM-DD)"
// @Param   end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} dto.PostingResponse
// @Failure 400 {object} map[string]string "Bad date range"
// @Router /ledger/accounts/{code}/postings [get]
func (h *ledgerHandler) listAccountPostings(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	postings, err := h.ledgerService.ListAccountPostings(c.Request.Context(), c.Param("code"), from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to list postings")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingResponses(postings))
}

// getBalance godoc
// @Summary Get an account balance
// @Description Returns the signed balance as of a date, normalized to the account's normal side
// @Tags ledger
// @Produce  json
// @Param   code path string true "Account code"
// @Param   asOf query string false "As-of date (YYYY-MM-DD), default today"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string "Account not found"
// @Router /ledger/accounts/{code}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	asOf, ok := bindAsOf(c)
	if !ok {
		return
	}

	code := c.Param("code")
	balance, err := h.balanceService.BalanceAsOf(c.Request.Context(), code, asOf)
	if err != nil {
		respondServiceError(c, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountCode": code, "asOf": asOf.Format("2006-01-02"), "balance": balance})
}

// getPeriodBalance godoc
// @Summary Get an account's period summary
// @Description Returns opening balance, period debits/credits and closing balance
// @Tags ledger
// @Produce  json
// @Param   code path string true "Account code"
// @Param   start query string true "Period start (YYYY-MM-DD)"
// @Param   end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} dto.PeriodBalanceResponse
// @Failure 400 {object} map[string]string "Bad date range"
// @Router /ledger/accounts/{code}/period-balance [get]
func (h *ledgerHandler) getPeriodBalance(c *gin.Context) {
	from, to, ok := bindDateRange(c)
	if !ok {
		return
	}

	pb, err := h.balanceService.BalancesForPeriod(c.Request.Context(), c.Param("code"), from, to)
	if err != nil {
		respondServiceError(c, err, "Failed to compute period balance")
		return
	}
	c.JSON(http.StatusOK, dto.PeriodBalanceResponse{
		AccountCode:    pb.AccountCode,
		OpeningBalance: pb.OpeningBalance,
		PeriodDebits:   pb.PeriodDebits,
		PeriodCredits:  pb.PeriodCredits,
		ClosingBalance: pb.ClosingBalance,
	})
}

// bindDateRange parses the start/end query params shared by range endpoints.
func bindDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing start date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing end date, expected YYYY-MM-DD"})
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end date must not precede start date"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

// bindAsOf parses the optional asOf query param, defaulting to today.
func bindAsOf(c *gin.Context) (time.Time, bool) {
	asOfStr := c.Query("asOf")
	if asOfStr == "" {
		return time.Now().UTC(), true
	}
	asOf, err := time.Parse("2006-01-02", asOfStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return asOf, true
}
