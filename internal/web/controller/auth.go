package controller

import (
	"errors"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"wikiref/internal/auth"
	"wikiref/internal/web/viewmodels"
)

// Auth provides auth handlers
type Auth struct {
	AuthService *auth.Service
	Templates   map[string]*template.Template
	Logger      *zap.Logger
}

// Register registers the auth routes
func (a *Auth) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", a.loginGet)
	mux.HandleFunc("POST /login", a.loginPost)
	mux.HandleFunc("GET /logout", a.logout)
	mux.HandleFunc("GET /register", a.registerGet)
	mux.HandleFunc("POST /register", a.registerPost)
}

func (a *Auth) loginGet(w http.ResponseWriter, r *http.Request) {
	render(w, a.Logger, a.Templates["login.html"], viewmodels.PageData{})
}

func (a *Auth) loginPost(w http.ResponseWriter, r *http.Request) {
	login := r.FormValue("login")
	password := r.FormValue("password")
	_, err := a.AuthService.Login(w, r, login, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		w.WriteHeader(http.StatusUnauthorized)
		render(w, a.Logger, a.Templates["login.html"], viewmodels.PageData{Error: "Invalid credentials"})
		return
	}
	if err != nil {
		serverError(w, a.Logger, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *Auth) logout(w http.ResponseWriter, r *http.Request) {
	a.AuthService.Logout(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *Auth) registerGet(w http.ResponseWriter, r *http.Request) {
	render(w, a.Logger, a.Templates["register.html"], viewmodels.PageData{})
}

func (a *Auth) registerPost(w http.ResponseWriter, r *http.Request) {
	login := r.FormValue("login")
	displayName := r.FormValue("display_name")
	password := r.FormValue("password")

	if login == "" || password == "" {
		w.WriteHeader(http.StatusBadRequest)
		render(w, a.Logger, a.Templates["register.html"], viewmodels.PageData{Error: "Login and password are required"})
		return
	}
	if displayName == "" {
		displayName = login
	}

	_, err := a.AuthService.RegisterUser(r.Context(), login, displayName, password, false)
	if errors.Is(err, auth.ErrUserExists) {
		w.WriteHeader(http.StatusConflict)
		render(w, a.Logger, a.Templates["register.html"], viewmodels.PageData{Error: "Login is already taken"})
		return
	}
	if err != nil {
		serverError(w, a.Logger, err)
		return
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}
