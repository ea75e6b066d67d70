package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/userdir/internal/adapters/repository"
	"github.com/okian/userdir/pkg/logger"
)

// Response texts.
const (
	msgUserNotFound = "User not found"
	msgDeletedFmt   = "%s is deleted."
)

// UserHandler serves the /user routes.
type UserHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps Dependencies, maxBodyBytes int64) *UserHandler {
	return &UserHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleGet handles GET /user/{name}.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	u, err := h.deps.Lookup(r.Context(), r.PathValue("name"))
	if err != nil {
		h.writeFailure(w, r, "api.get_user", err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// HandlePost handles POST /user/{name}/occupation/{occupation}.
// Age comes from the body; occupation comes from the path only.
func (h *UserHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	args, err := parseUserArgs(w, r, h.maxBodyBytes)
	if err != nil {
		h.writeFailure(w, r, "api.post_user", err)
		return
	}
	u, err := h.deps.Create(r.Context(), r.PathValue("name"), args.Age, r.PathValue("occupation"))
	if err != nil {
		h.writeFailure(w, r, "api.post_user", err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// HandlePut handles PUT /user/{name}. Age and occupation both come from
// the body.
func (h *UserHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	args, err := parseUserArgs(w, r, h.maxBodyBytes)
	if err != nil {
		h.writeFailure(w, r, "api.put_user", err)
		return
	}
	u, outcome, err := h.deps.Upsert(r.Context(), r.PathValue("name"), args.Age, args.Occupation)
	if err != nil {
		h.writeFailure(w, r, "api.put_user", err)
		return
	}
	status := http.StatusOK
	if outcome == repository.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, u)
}

// HandleDelete handles DELETE /user/{name}. It succeeds whether or not the
// user existed.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, err := h.deps.Delete(r.Context(), name); err != nil {
		h.writeFailure(w, r, "api.delete_user", err)
		return
	}
	writeText(w, http.StatusOK, fmt.Sprintf(msgDeletedFmt, name))
}

// writeFailure maps domain and request errors to status codes.
func (h *UserHandler) writeFailure(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeText(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, repository.ErrConflict):
		writeText(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBodyTooLong):
		writeText(w, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrEmptyName):
		writeText(w, http.StatusBadRequest, msgBadRequest)
	default:
		logger.Get().Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	logger.Get().Debug(ctx, "request rejected", logger.String("op", op), logger.Error(err))
}
