package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tarefa-api/internal/model"
	"github.com/BuzzLyutic/tarefa-api/internal/repo"
	"github.com/BuzzLyutic/tarefa-api/internal/service"
	"github.com/BuzzLyutic/tarefa-api/pkg/respond"
)

// BasePath is where the task collection is mounted.
const BasePath = "/Tarefa"

const (
	msgFetchByID     = "internal error, could not fetch task by id"
	msgFetchAll      = "internal error, could not fetch all tasks"
	msgFetchByTitle  = "internal error, could not fetch tasks by title"
	msgFetchByDate   = "internal error, could not fetch tasks by date"
	msgFetchByStatus = "internal error, could not fetch tasks by status"
	msgCreate        = "internal error, could not create task"
	msgUpdate        = "internal error, could not update task"
	msgDelete        = "internal error, could not delete task"
)

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleErrors(w, r, err, msgFetchByID)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.List(r.Context())
	if err != nil {
		h.handleErrors(w, r, err, msgFetchAll)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

// ByTitle treats a missing titulo as the empty substring, which every title contains.
func (h *TaskHandler) ByTitle(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.FindByTitle(r.Context(), r.URL.Query().Get("titulo"))
	if err != nil {
		h.handleErrors(w, r, err, msgFetchByTitle)
		return
	}
	if len(tasks) == 0 {
		respond.Error(w, r, http.StatusNotFound, "not found, no task matches this title")
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("data")
	if raw == "" {
		respond.Error(w, r, http.StatusBadRequest, "query parameter data is required")
		return
	}
	day, err := model.ParseDate(raw)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.service.FindByDate(r.Context(), day)
	if err != nil {
		h.handleErrors(w, r, err, msgFetchByDate)
		return
	}
	if len(tasks) == 0 {
		respond.Error(w, r, http.StatusNotFound, "not found, no task matches this date")
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

// ByStatus falls back to Pending when the status parameter is absent, the
// same default a task body without a status gets.
func (h *TaskHandler) ByStatus(w http.ResponseWriter, r *http.Request) {
	status := model.StatusPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := model.ParseStatus(raw)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, err.Error())
			return
		}
		status = parsed
	}

	tasks, err := h.service.FindByStatus(r.Context(), status)
	if err != nil {
		h.handleErrors(w, r, err, msgFetchByStatus)
		return
	}
	if len(tasks) == 0 {
		respond.Error(w, r, http.StatusNotFound, fmt.Sprintf("not found, no task matches status '%s'", status))
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleErrors(w, r, err, msgCreate)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%d", BasePath, task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	req, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	if _, err := h.service.Update(r.Context(), id, req); err != nil {
		h.handleErrors(w, r, err, msgUpdate)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleErrors(w, r, err, msgDelete)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Warn("store not ready", zap.Error(err))
		respond.Error(w, r, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *TaskHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *TaskHandler) decodeTask(w http.ResponseWriter, r *http.Request) (model.Task, bool) {
	var req model.Task
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode json", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return req, false
	}
	return req, true
}

// handleErrors maps service and repository errors to responses. Store
// failures are logged and answered with msg only.
func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "not found")
	case errors.As(err, &verr):
		respond.Error(w, r, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, repo.ErrorConflict):
		h.logger.Warn("constraint violation", zap.Error(err))
		respond.Error(w, r, http.StatusConflict, "conflict")
	default:
		h.logger.Error(msg,
			zap.Error(err),
			zap.Bool("store_unavailable", errors.Is(err, repo.ErrorUnavailable)),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		respond.Error(w, r, http.StatusInternalServerError, msg)
	}
}
