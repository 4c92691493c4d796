package handler

import (
	"net/http"

	"github.com/taskboard-dev/taskboard/shared/api"
	"github.com/taskboard-dev/taskboard/shared/utils"
)

func (h *Handler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateColumnRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	column, err := h.board.CreateColumn(r.Context(), principal(r), body.ToDomain(projectId))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, column)
}

func (h *Handler) MoveColumn(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	columnId, err := idParam(r, "column")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.MoveColumnRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	column, err := h.board.MoveColumn(r.Context(), principal(r), projectId, columnId, body.AfterId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, column)
}

func (h *Handler) ArchiveColumn(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	columnId, err := idParam(r, "column")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.ArchiveColumn(r.Context(), principal(r), projectId, columnId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
