package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/userlist/internal/repo"
)

func TestUserHandler_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(name\)`).
		WithArgs("Ada").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Ada"))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	body, _ := json.Marshal(map[string]string{"name": "Ada"})
	req := httptest.NewRequest("POST", "/users", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("CreateUser status: got %d, want 200", rr.Code)
	}
	if rr.Body.String() != MessageUserAdded {
		t.Errorf("CreateUser body: got %q", rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("CreateUser content type: got %q", ct)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_OmittedNameStoredAsNull(t *testing.T) {
	for name, body := range map[string]string{
		"empty object": `{}`,
		"null name":    `{"name":null}`,
		"empty body":   ``,
		"other fields": `{"nick":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery(`INSERT INTO users \(name\)`).
				WithArgs(nil).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, nil))

			h := &UserHandler{Repo: repo.NewUserRepo(db)}
			req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
			rr := httptest.NewRecorder()
			h.CreateUser(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rr.Code)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestUserHandler_CreateUser_EmptyNameAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(name\)`).
		WithArgs("").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, ""))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":""}`))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_RequireName(t *testing.T) {
	for _, body := range []string{`{}`, `{"name":""}`} {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock.New: %v", err)
		}

		h := &UserHandler{Repo: repo.NewUserRepo(db), RequireName: true}
		req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.CreateUser(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want 400", body, rr.Code)
		}
		var out ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if out.Fields["name"] != "required" {
			t.Errorf("%s: unexpected error body: %+v", body, out)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		db.Close()
	}
}

func TestUserHandler_CreateUser_InvalidJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":`))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "invalid JSON" {
		t.Errorf("unexpected error body: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(name\)`).
		WithArgs("Ada").
		WillReturnError(errors.New("pq: connection refused"))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("POST", "/users", strings.NewReader(`{"name":"Ada"}`))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != ErrMessageInternal {
		t.Errorf("unexpected error body: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_ListUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "alice").
			AddRow(2, "bob"))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}

	req := httptest.NewRequest("GET", "/users", nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("ListUsers status: got %d, want 200", rr.Code)
	}
	var list []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alice" || list[1].Name != "bob" {
		t.Errorf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_ListUsers_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("GET", "/users", nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("body: got %q, want []", got)
	}
}

func TestUserHandler_ListUsers_NullName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM users ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(3, nil))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("GET", "/users", nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	if got := strings.TrimSpace(rr.Body.String()); got != `[{"id":3,"name":null}]` {
		t.Errorf("body: got %s", got)
	}
}

func TestUserHandler_ListUsers_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM users`).
		WillReturnError(errors.New("pq: database is shutting down"))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("GET", "/users", nil)
	rr := httptest.NewRecorder()
	h.ListUsers(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_NonStringNameStoredAsText(t *testing.T) {
	for body, want := range map[string]string{
		`{"name":123}`:       "123",
		`{"name":true}`:      "true",
		`{"name":1.5e3}`:     "1.5e3",
		`{"name":[1, 2]}`:    "[1,2]",
		`{"name":{"a": 1}}`:  `{"a":1}`,
		`{"name":"  Ada  "}`: "  Ada  ",
	} {
		t.Run(body, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()

			mock.ExpectQuery(`INSERT INTO users \(name\)`).
				WithArgs(want).
				WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, want))

			h := &UserHandler{Repo: repo.NewUserRepo(db)}
			req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
			rr := httptest.NewRecorder()
			h.CreateUser(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestUserHandler_CreateUser_TrailingDataRejected(t *testing.T) {
	for _, body := range []string{`{"name":"a"} xyz`, `{"name":"a"}{"name":"b"}`} {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock.New: %v", err)
		}

		h := &UserHandler{Repo: repo.NewUserRepo(db)}
		req := httptest.NewRequest("POST", "/users", strings.NewReader(body))
		rr := httptest.NewRecorder()
		h.CreateUser(rr, req)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status got %d, want 400", body, rr.Code)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		db.Close()
	}
}

func TestUserHandler_CreateUser_TrailingWhitespaceAccepted(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users \(name\)`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "a"))

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("POST", "/users", strings.NewReader("{\"name\":\"a\"}\n  "))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rr.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestUserHandler_CreateUser_NonObjectBody(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &UserHandler{Repo: repo.NewUserRepo(db)}
	req := httptest.NewRequest("POST", "/users", strings.NewReader(`"Ada"`))
	rr := httptest.NewRecorder()
	h.CreateUser(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
	var out map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out["error"] != "request body must be a JSON object" {
		t.Errorf("unexpected error body: %v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
