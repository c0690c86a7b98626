package main

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"os"

	"github.com/crucial707/userlist/internal/client"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

//go:embed templates
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

const (
	defaultPort = "3000"
	envWebPort  = "WEB_PORT"
	envAPIURL   = "USERS_API_URL"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	port := getEnv(envWebPort, defaultPort)
	apiBase := getEnv(envAPIURL, client.DefaultBaseURL)

	page := newRoster(client.New(apiBase))

	slog.Info("web UI running", "url", "http://localhost:"+port, "api", apiBase)
	if err := http.ListenAndServe(":"+port, newRouter(page)); err != nil {
		slog.Error("web UI stopped", "err", err)
		os.Exit(1)
	}
}

func newRouter(page *roster) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/", showUsers(page))
	r.Post("/users", addUser(page))
	return r
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// showUsers lists users once per page load and renders the snapshot.
func showUsers(page *roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page.Refresh(r.Context())
		renderPage(w, page)
	}
}

// addUser creates the user from the form, refreshes, and sends the browser
// back to the page, which renders with an empty input.
func addUser(page *roster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		page.Add(r.Context(), r.FormValue("name"))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func renderPage(w http.ResponseWriter, page *roster) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := map[string]interface{}{
		"Users":      page.Snapshot(),
		"Submitting": page.State() == stateSubmitting,
	}
	if err := pageTmpl.Execute(w, data); err != nil {
		slog.Error("template execute", "err", err)
	}
}
