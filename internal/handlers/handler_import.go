package handlers

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opsdash/ledgercore/internal/core/domain"
	portssvc "github.com/opsdash/ledgercore/internal/core/ports/services"
	"github.com/opsdash/ledgercore/internal/dto"
	"github.com/opsdash/ledgercore/internal/importer"
	"github.com/opsdash/ledgercore/internal/middleware"
	"github.com/opsdash/ledgercore/pkg/config"
)

// importHandler handles statement uploads into the categorization pipeline.
type importHandler struct {
	importService portssvc.ImportSvc
	profiles      map[string]importer.Profile
}

func newImportHandler(is portssvc.ImportSvc) *importHandler {
	return &importHandler{
		importService: is,
		profiles:      importer.BuiltinProfiles(),
	}
}

// registerImportRoutes registers the rate-limited import route.
func registerImportRoutes(rg *gin.RouterGroup, cfg *config.Config, importService portssvc.ImportSvc) {
	h := newImportHandler(importService)

	transactions := rg.Group("/transactions")
	transactions.POST("/import", importRateLimiter(cfg), h.importStatement)
}

// importStatement godoc
// @Summary Import a bank or card statement
// @Description Parses an uploaded CSV or XLSX statement and runs every transaction through the categorization pipeline. Re-uploading the same file is safe; already-seen transactions are reported as duplicates.
// @Tags transactions
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Statement file (.csv or .xlsx)"
// @Param   profile formData string true "Statement layout profile (bank, card, bank-split)"
// @Param   sourceAccount formData string false "Cash account the statement belongs to"
// @Success 200 {object} dto.ImportSummaryResponse
// @Failure 400 {object} map[string]string "Unreadable file or unknown profile"
// @Failure 429 {object} map[string]string "Rate limited"
// @Router /transactions/import [post]
func (h *importHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ImportRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn("Failed to bind import form", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	profile, ok := h.profiles[req.Profile]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown profile: " + req.Profile})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing statement file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	var txns []domain.RawTransaction
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		txns, err = importer.ParseCSV(file, profile, req.SourceAccount)
	case ".xlsx":
		txns, err = importer.ParseXLSX(file, profile, req.SourceAccount)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type, expected .csv or .xlsx"})
		return
	}
	if err != nil {
		logger.Warn("Failed to parse statement", slog.String("filename", fileHeader.Filename), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse statement: " + err.Error()})
		return
	}

	logger.Info("Statement parsed",
		slog.String("filename", fileHeader.Filename),
		slog.String("profile", profile.Name),
		slog.Int("transactions", len(txns)))

	summary, err := h.importService.ImportBatch(c.Request.Context(), txns, actorID(c))
	if err != nil {
		// A cancelled batch still carries the partial summary; anything else
		// is an infrastructure failure before processing started.
		if summary != nil {
			c.JSON(http.StatusOK, dto.ToImportSummaryResponse(summary))
			return
		}
		logger.Error("Import batch failed", slog.String("error", err.Error()))
		respondServiceError(c, err, "Failed to import statement")
		return
	}

	c.JSON(http.StatusOK, dto.ToImportSummaryResponse(summary))
}
