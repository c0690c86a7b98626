package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/crucial707/userlist/internal/repo"
	chimw "github.com/go-chi/chi/v5/middleware"
)

var errTrailingData = errors.New("unexpected data after JSON body")

// MessageUserAdded is the plain-text body of a successful create.
const MessageUserAdded = "User added"

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Repo *repo.UserRepo

	// RequireName rejects absent or empty names with 400. When false, names are stored as given.
	RequireName bool
}

// createUserRequest is the body of POST /users. Name is kept raw so any JSON
// value can be stored; see nameValue.
type createUserRequest struct {
	Name json.RawMessage `json:"name"`
}

// nameValue converts the raw name into the value stored in the column.
// Absent or null is nil (NULL), a string is its text, and any other value
// (number, bool, object, array) is stored as its compact JSON text.
func (in createUserRequest) nameValue() *string {
	raw := bytes.TrimSpace(in.Name)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var s string
	if raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return &s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		s = string(raw)
		return &s
	}
	s = buf.String()
	return &s
}

// ==========================
// Create User
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var input createUserRequest

	// An empty body is the same as {}. Anything after the first JSON value is rejected.
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(&input)
	if err == nil {
		if extra := dec.Decode(&json.RawMessage{}); !errors.Is(extra, io.EOF) {
			err = errTrailingData
			var maxErr *http.MaxBytesError
			if errors.As(extra, &maxErr) {
				err = extra
			}
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			JSONError(w, "request body must be a JSON object", http.StatusBadRequest)
			return
		}
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	name := input.nameValue()
	if h.RequireName && (name == nil || *name == "") {
		JSONValidationError(w, "validation failed", map[string]string{"name": "required"}, http.StatusBadRequest)
		return
	}

	user, err := h.Repo.Create(r.Context(), name)
	if err != nil {
		storageFailure(w, r, err)
		return
	}

	slog.Debug("user created", "request_id", chimw.GetReqID(r.Context()), "id", user.ID)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, MessageUserAdded)
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.List(r.Context())
	if err != nil {
		storageFailure(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(users)
}

// storageFailure logs err and answers 500 with the generic message.
func storageFailure(w http.ResponseWriter, r *http.Request, err error) {
	op := ""
	var se *repo.StorageError
	if errors.As(err, &se) {
		op = se.Op
	}
	slog.Error("storage error",
		"request_id", chimw.GetReqID(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"op", op,
		"err", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
