package handler

import (
	"net/http"

	"github.com/taskboard-dev/taskboard/shared/api"
	"github.com/taskboard-dev/taskboard/shared/domain"
	"github.com/taskboard-dev/taskboard/shared/utils"
)

func (h *Handler) cardResponse(card domain.Card) api.CardResponse {
	resp := api.CardResponse{Card: card}
	if card.Description != nil && h.renderer != nil {
		resp.DescriptionHTML = h.renderer.Render(*card.Description)
	}
	return resp
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.CreateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.board.CreateCard(r.Context(), principal(r), body.ToDomain(projectId))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, h.cardResponse(card))
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	cardId, err := idParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateCardRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.board.UpdateCard(r.Context(), principal(r), projectId, cardId, body.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, h.cardResponse(card))
}

func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	cardId, err := idParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.MoveCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.board.MoveCard(r.Context(), principal(r), projectId, cardId, body.ToDomain())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, h.cardResponse(card))
}

func (h *Handler) ArchiveCard(w http.ResponseWriter, r *http.Request) {
	projectId, err := idParam(r, "project")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	cardId, err := idParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.board.ArchiveCard(r.Context(), principal(r), projectId, cardId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
