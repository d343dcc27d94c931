package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/plantops-hr/payroll-backend-go/internal/domain/roster"
	"github.com/plantops-hr/payroll-backend-go/internal/handler/http/response"
	"github.com/plantops-hr/payroll-backend-go/internal/pkg/validator"
)

type RosterHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	SaveSlot(w http.ResponseWriter, r *http.Request)
	AssignSupervisor(w http.ResponseWriter, r *http.Request)
	AssignLaborer(w http.ResponseWriter, r *http.Request)
	Commit(w http.ResponseWriter, r *http.Request)
	LaborerHours(w http.ResponseWriter, r *http.Request)
}

type RosterHandlerImpl struct {
	rosterService roster.RosterService
}

func NewRosterHandler(rosterService roster.RosterService) RosterHandler {
	return &RosterHandlerImpl{rosterService: rosterService}
}

func rosterQuery(r *http.Request) (roster.GetRosterRequest, error) {
	var errs validator.ValidationErrors
	req := roster.GetRosterRequest{
		PlantID: r.URL.Query().Get("plant_id"),
		Year:    queryInt(r, "year", &errs),
		Month:   queryInt(r, "month", &errs),
	}
	return req, errs.OrNil()
}

// Get implements RosterHandler.
func (h *RosterHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	req, err := rosterQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	resp, err := h.rosterService.GetRoster(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// SaveSlot implements RosterHandler.
func (h *RosterHandlerImpl) SaveSlot(w http.ResponseWriter, r *http.Request) {
	var req roster.SaveSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SaveSlot decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	slot, err := h.rosterService.SaveSlot(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Roster saved successfully", slot)
}

// AssignSupervisor implements RosterHandler.
func (h *RosterHandlerImpl) AssignSupervisor(w http.ResponseWriter, r *http.Request) {
	h.assign(w, r, h.rosterService.AssignSupervisor)
}

// AssignLaborer implements RosterHandler.
func (h *RosterHandlerImpl) AssignLaborer(w http.ResponseWriter, r *http.Request) {
	h.assign(w, r, h.rosterService.AssignLaborer)
}

func (h *RosterHandlerImpl) assign(w http.ResponseWriter, r *http.Request,
	toggle func(ctx context.Context, req roster.AssignRequest) (roster.RosterResponse, error)) {
	var req roster.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Assign decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := toggle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Commit implements RosterHandler.
func (h *RosterHandlerImpl) Commit(w http.ResponseWriter, r *http.Request) {
	var payload roster.RosterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Error("Commit decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.rosterService.CommitRoster(r.Context(), payload)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Roster saved successfully", resp)
}

// LaborerHours implements RosterHandler.
func (h *RosterHandlerImpl) LaborerHours(w http.ResponseWriter, r *http.Request) {
	req, err := rosterQuery(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	hours, err := h.rosterService.LaborerHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, hours)
}
