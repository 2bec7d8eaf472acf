package handlers

import (
	"fmt"
	"net/http"

	"github.com/tmarchal/boccia-manager/services"
)

type ExportHandler struct {
	exports services.ExportService
}

func NewExportHandler(es services.ExportService) *ExportHandler {
	return &ExportHandler{exports: es}
}

// ExportHandler handles GET /tournaments/{id}/export?format=json|csv. The
// rendered document is returned as a download; when snapshot storage is
// configured the public URL is exposed in a response header.
func (h *ExportHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	export, err := h.exports.Export(r.Context(), id, r.URL.Query().Get("format"))
	if err != nil {
		mapServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if export.URL != "" {
		w.Header().Set("X-Snapshot-URL", export.URL)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(export.Data); err != nil {
		logger.Error("failed to write export body", "error", err)
	}
}
