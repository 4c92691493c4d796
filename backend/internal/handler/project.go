package handler

import (
	"net/http"

	"github.com/taskboard-dev/taskboard/shared/api"
	"github.com/taskboard-dev/taskboard/shared/utils"
)

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.board.ListProjects(r.Context(), principal(r))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, api.ProjectListResponse{Projects: projects})
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body api.CreateProjectRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	project, err := h.board.CreateProject(r.Context(), principal(r), body.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, project)
}

func (h *Handler) ArchiveProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.ArchiveProject(r.Context(), principal(r), projectId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ShareProject(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	userId, err := idParam(r, "user")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.ShareProjectRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.ShareProject(r.Context(), principal(r), projectId, userId, body.Role); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.board.GetBoard(r.Context(), principal(r), projectId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	response := api.BoardResponse{Project: board.Project, Columns: make([]api.ColumnResponse, 0, len(board.Columns))}
	for _, col := range board.Columns {
		cards := make([]api.CardResponse, 0, len(col.Cards))
		for _, card := range col.Cards {
			cards = append(cards, h.cardResponse(card))
		}
		response.Columns = append(response.Columns, api.ColumnResponse{Column: col.Column, Cards: cards})
	}
	writeJSON(w, response)
}
