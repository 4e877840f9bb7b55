package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/blogger-import/app/feed"
	"github.com/inkpress/blogger-import/app/importer"
)

// maxImportSize bounds the accepted export document at 64 MiB.
const maxImportSize = 64 << 20

func NewHandler(imp *importer.Importer, defaultAuthorID string, defaultOptions importer.Options) *Handler {
	return &Handler{
		importer:        imp,
		defaultAuthorID: defaultAuthorID,
		defaultOptions:  defaultOptions,
	}
}

// Import runs one import over the XML document in the request body.
// The configured import options can be overridden per request with the
// create_users and download_media query parameters.
func (h *Handler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		slog.Error("Failed to read import request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	opts := h.defaultOptions
	if value, ok := c.GetQuery("create_users"); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			opts.CreateNewUsers = parsed
		}
	}
	if value, ok := c.GetQuery("download_media"); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			opts.DownloadMedia = parsed
		}
	}

	users, err := h.importer.Run(c.Request.Context(), data, h.defaultAuthorID, opts)
	if err != nil {
		slog.Error("Import failed", "error", err)

		if errors.Is(err, feed.ErrMalformedInput) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error(), CreatedUsers: users})
		return
	}

	c.JSON(http.StatusOK, ImportResponse{CreatedUsers: users})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
