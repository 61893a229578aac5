package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"librarydesk/internal/app"
	"librarydesk/internal/ratelimit"
	"librarydesk/internal/util"
	"librarydesk/pkg/domain"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App *app.App

	// Redis settings for the login limiter. An empty address disables
	// rate limiting, which is only acceptable for local development.
	RedisAddr               string
	RedisPassword           string
	LoginRateLimitPerMinute int

	TrustForwardedFor bool
}

// Server exposes the HTTP API for the library desk.
type Server struct {
	app            *app.App
	mux            *http.ServeMux
	loginLimiter   *ratelimit.FixedWindowLimiter
	trustForwarded bool
}

// New constructs the server with routes configured.
func New(cfg Config) (*Server, error) {
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" {
		limit := cfg.LoginRateLimitPerMinute
		if limit <= 0 {
			limit = 10
		}
		var err error
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "librarydesk:ratelimit:login", limit, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init login limiter: %w", err)
		}
	}
	s := &Server{
		app:            cfg.App,
		mux:            http.NewServeMux(),
		loginLimiter:   limiter,
		trustForwarded: cfg.TrustForwardedFor,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler wrapped in the shared middleware.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog(util.WithSecurityHeaders(util.WithCORS(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	// auth
	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.HandleFunc("/auth/logout", s.handleLogout)
	s.mux.Handle("/auth/me", s.authenticated(s.handleMe))

	// catalog
	s.mux.Handle("/books", s.authenticated(s.handleBooks))
	s.mux.Handle("/books/", s.authenticated(s.handleBookByID))

	// membership
	s.mux.Handle("/members", s.authenticated(s.handleMembers))
	s.mux.Handle("/members/", s.authenticated(s.handleMemberByID))

	// staff
	s.mux.Handle("/staff", s.authenticated(s.handleStaff))
	s.mux.Handle("/staff/", s.authenticated(s.handleStaffByID))

	// lending
	s.mux.Handle("/loans", s.authenticated(s.handleLoans))
	s.mux.Handle("/loans/overdue", s.authenticated(s.handleOverdueLoans))
	s.mux.Handle("/loans/", s.authenticated(s.handleLoanByID))

	// review
	s.mux.Handle("/pulls", s.authenticated(s.handlePulls))
	s.mux.Handle("/pulls/", s.authenticated(s.handlePullByID))

	// dashboard
	s.mux.Handle("/dashboard", s.authenticated(s.handleDashboard))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auth wrappers
type staffHandler func(http.ResponseWriter, *http.Request, domain.Staff)

func (s *Server) authenticated(next staffHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		staff, ok := s.app.CurrentStaff(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r, staff)
	})
}

func (s *Server) adminOnly(next staffHandler) staffHandler {
	return func(w http.ResponseWriter, r *http.Request, staff domain.Staff) {
		if staff.Role != domain.RoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden")
			return
		}
		next(w, r, staff)
	}
}

// auth handlers
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowLogin(w, r) {
		return
	}
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	staff, token, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Staff: staff})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := s.app.Logout(token); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, staff domain.Staff) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, staff)
}

// catalog handlers
func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	switch r.Method {
	case http.MethodGet:
		books, err := s.app.ListBooks()
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeList(w, books)
	case http.MethodPost:
		var req app.BookInput
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		book, err := s.app.CreateBook(req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, book)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	id, rest, ok := splitResourcePath(r.URL.Path, "/books/")
	if !ok || rest != "" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		book, err := s.app.GetBook(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodPatch:
		var req app.BookUpdate
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		book, err := s.app.UpdateBook(id, req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, book)
	case http.MethodDelete:
		if err := s.app.DeleteBook(id); err != nil {
			s.writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// membership handlers
func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	switch r.Method {
	case http.MethodGet:
		members, err := s.app.ListMembers()
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeList(w, members)
	case http.MethodPost:
		var req app.MemberInput
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		member, err := s.app.CreateMember(req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, member)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleMemberByID(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	id, rest, ok := splitResourcePath(r.URL.Path, "/members/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch rest {
	case "":
	case "suspend":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		member, err := s.app.SuspendMember(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
		return
	case "activate":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		member, err := s.app.ActivateMember(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
		return
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		member, err := s.app.GetMember(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	case http.MethodPatch:
		var req app.MemberUpdate
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		member, err := s.app.UpdateMember(id, req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, member)
	case http.MethodDelete:
		if err := s.app.DeleteMember(id); err != nil {
			s.writeAppError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// staff handlers
func (s *Server) handleStaff(w http.ResponseWriter, r *http.Request, staff domain.Staff) {
	switch r.Method {
	case http.MethodGet:
		roster, err := s.app.ListStaff()
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeList(w, roster)
	case http.MethodPost:
		s.adminOnly(s.handleCreateStaff)(w, r, staff)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	var req app.StaffInput
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.app.CreateStaff(req)
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleStaffByID(w http.ResponseWriter, r *http.Request, staff domain.Staff) {
	id, rest, ok := splitResourcePath(r.URL.Path, "/staff/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch rest {
	case "":
	case "deactivate":
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			updated, err := s.app.DeactivateStaff(id)
			if err != nil {
				s.writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, updated)
		})(w, r, staff)
		return
	case "activate":
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			updated, err := s.app.ActivateStaff(id)
			if err != nil {
				s.writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, updated)
		})(w, r, staff)
		return
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, err := s.app.GetStaffMember(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	case http.MethodPatch:
		s.adminOnly(func(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
			var req app.StaffUpdate
			if err := decodeBody(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid JSON body")
				return
			}
			updated, err := s.app.UpdateStaff(id, req)
			if err != nil {
				s.writeAppError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, updated)
		})(w, r, staff)
	case http.MethodDelete:
		s.adminOnly(func(w http.ResponseWriter, _ *http.Request, _ domain.Staff) {
			if err := s.app.DeleteStaff(id); err != nil {
				s.writeAppError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})(w, r, staff)
	default:
		methodNotAllowed(w)
	}
}

// lending handlers
func (s *Server) handleLoans(w http.ResponseWriter, r *http.Request, staff domain.Staff) {
	switch r.Method {
	case http.MethodGet:
		loans, err := s.app.ListLoans()
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeList(w, loans)
	case http.MethodPost:
		var req issueRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		loan, err := s.app.IssueBook(req.BookID, req.MemberID, staff.ID)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, loan)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleOverdueLoans(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	loans, err := s.app.OverdueLoans()
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeList(w, loans)
}

func (s *Server) handleLoanByID(w http.ResponseWriter, r *http.Request, staff domain.Staff) {
	id, rest, ok := splitResourcePath(r.URL.Path, "/loans/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch rest {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		loan, err := s.app.GetLoan(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loan)
	case "return":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		loan, err := s.app.ReturnBook(id, staff.ID)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, loan)
	default:
		http.NotFound(w, r)
	}
}

// review handlers
func (s *Server) handlePulls(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	switch r.Method {
	case http.MethodGet:
		status := domain.ReviewStatus(r.URL.Query().Get("status"))
		pulls, err := s.app.ListPullRequests(status)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeList(w, pulls)
	case http.MethodPost:
		var req app.PullRequestInput
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		pr, err := s.app.SubmitPullRequest(req)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, pr)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handlePullByID(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	id, rest, ok := splitResourcePath(r.URL.Path, "/pulls/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch rest {
	case "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		pr, err := s.app.GetPullRequest(id)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pr)
	case "review":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		var req manualReviewRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.Approved == nil {
			writeError(w, http.StatusBadRequest, "approved is required")
			return
		}
		pr, err := s.app.ManualReview(id, *req.Approved, req.Comment)
		if err != nil {
			s.writeAppError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pr)
	default:
		http.NotFound(w, r)
	}
}

// dashboard handler
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, _ domain.Staff) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	snapshot, err := s.app.DashboardSnapshot()
	if err != nil {
		s.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) allowLogin(w http.ResponseWriter, r *http.Request) bool {
	if s.loginLimiter == nil {
		return true
	}
	key := util.ClientIP(r, s.trustForwarded)
	if s.loginLimiter.Allow(key) {
		return true
	}
	w.Header().Set("Retry-After", "60")
	writeError(w, http.StatusTooManyRequests, "too many login attempts; try again later")
	return false
}

func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, app.ErrStaffInactive):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, app.ErrBookNotFound),
		errors.Is(err, app.ErrMemberNotFound),
		errors.Is(err, app.ErrStaffNotFound),
		errors.Is(err, app.ErrLoanNotFound),
		errors.Is(err, app.ErrPullRequestNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, app.ErrNoCopiesAvailable),
		errors.Is(err, app.ErrLoanAlreadyReturned):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// splitResourcePath peels "<id>" or "<id>/<action>" off the path after prefix.
func splitResourcePath(path, prefix string) (id, rest string, ok bool) {
	tail := strings.TrimPrefix(path, prefix)
	if tail == "" || tail == path {
		return "", "", false
	}
	if i := strings.IndexByte(tail, '/'); i >= 0 {
		return tail[:i], tail[i+1:], tail[:i] != ""
	}
	return tail, "", true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeBody(r *http.Request, dst any) error {
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	Staff domain.Staff `json:"staff"`
}

type issueRequest struct {
	BookID   string `json:"bookId"`
	MemberID string `json:"memberId"`
}

type manualReviewRequest struct {
	Approved *bool  `json:"approved"`
	Comment  string `json:"comment"`
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

func writeList[T any](w http.ResponseWriter, items []T) {
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
