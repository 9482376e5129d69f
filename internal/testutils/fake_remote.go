package testutils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/taskdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// FakeRemote is an in-process stand-in for the remote task service.
type FakeRemote struct {
	server *httptest.Server

	mu       sync.Mutex
	users    []storedUser
	tasks    map[int64]domain.Task
	nextUser int64
	nextTask int64
	tokenTTL time.Duration
	hits     map[string]int
}

type storedUser struct {
	domain.User
	hash []byte
}

// NewFakeRemote starts a fake service that is closed when the test ends.
func NewFakeRemote(t testing.TB) *FakeRemote {
	t.Helper()

	f := &FakeRemote{
		tasks:    make(map[int64]domain.Task),
		tokenTTL: TestTokenLifetime,
		hits:     make(map[string]int),
	}
	f.server = httptest.NewServer(f.routes())
	t.Cleanup(f.server.Close)
	return f
}

// BaseURL is the service root, including the /api prefix.
func (f *FakeRemote) BaseURL() string {
	return f.server.URL + "/api"
}

// SetTokenTTL changes the lifetime of tokens issued by later logins.
func (f *FakeRemote) SetTokenTTL(ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenTTL = ttl
}

// Hits returns how many times "METHOD /path-pattern" was served.
func (f *FakeRemote) Hits(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

// AddUser registers a user and returns its profile.
func (f *FakeRemote) AddUser(first, last, email, password string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUser++
	user := domain.User{ID: f.nextUser, FirstName: first, LastName: last, Email: email}
	f.users = append(f.users, storedUser{User: user, hash: hash})
	return user
}

// AddTask stores task, assigning an ID when it has none.
func (f *FakeRemote) AddTask(task domain.Task) domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked(task)
}

// Task returns the stored task with id.
func (f *FakeRemote) Task(id int64) (domain.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	return task, ok
}

func (f *FakeRemote) saveLocked(task domain.Task) domain.Task {
	if task.ID == 0 {
		f.nextTask++
		task.ID = f.nextTask
	} else if task.ID > f.nextTask {
		f.nextTask = task.ID
	}
	if task.Responsible != nil {
		task.ResponsibleID = task.Responsible.ID
	}
	for _, u := range f.users {
		if u.ID == task.ResponsibleID {
			profile := u.User.Profile()
			task.Responsible = &profile
			task.ResponsibleName = profile.FullName()
		}
	}
	f.tasks[task.ID] = task
	return task
}

func (f *FakeRemote) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(f.count)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", f.login)
		r.Post("/users", f.register)
		r.Get("/users/check-email", f.checkEmail)

		r.Group(func(r chi.Router) {
			r.Use(f.authenticate)
			r.Get("/users", f.listUsers)
			r.Get("/tasks", f.listTasks)
			r.Get("/tasks/search", f.searchTasks)
			r.Post("/tasks", f.createTask)
			r.Put("/tasks/{id}", f.updateTask)
			r.Delete("/tasks/{id}", f.deleteTask)
			r.Get("/reports/summary", f.summary)
			r.Post("/reports/recalculate", f.summary)
		})
	})
	return r
}

func (f *FakeRemote) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := chi.RouteContext(r.Context()).RoutePattern()
		f.mu.Lock()
		f.hits[r.Method+" "+pattern]++
		f.mu.Unlock()
	})
}

func (f *FakeRemote) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			return
		}

		_, err := jwt.Parse(raw, func(token *jwt.Token) (interface{}, error) {
			return []byte(TestJWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "TOKEN_EXPIRED"})
			return
		case err != nil:
			writeJSON(w, http.StatusUnauthorized, map[string]string{"code": "TOKEN_INVALID"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeRemote) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	f.mu.Lock()
	user, ok := f.findUserLocked(req.Email)
	ttl := f.tokenTTL
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}
	if bcrypt.CompareHashAndPassword(user.hash, []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		return
	}

	claims := jwt.RegisteredClaims{
		Subject:   user.Email,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestJWTSecret))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token": token,
		"email": user.Email,
		"user":  user.FullName(),
	})
}

func (f *FakeRemote) findUserLocked(email string) (storedUser, bool) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			return u, true
		}
	}
	return storedUser{}, false
}

func (f *FakeRemote) register(w http.ResponseWriter, r *http.Request) {
	var req domain.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	f.mu.Lock()
	_, exists := f.findUserLocked(req.Email)
	f.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusBadRequest, "Email already registered.")
		return
	}

	user := f.AddUser(req.FirstName, req.LastName, req.Email, req.Password)
	writeJSON(w, http.StatusOK, user)
}

func (f *FakeRemote) checkEmail(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	_, exists := f.findUserLocked(r.URL.Query().Get("email"))
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (f *FakeRemote) listUsers(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	users := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u.User.Profile())
	}
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

// listTasks answers with a bare list.
func (f *FakeRemote) listTasks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, f.filter(func(domain.Task) bool { return true }))
}

// searchTasks answers in page shape.
func (f *FakeRemote) searchTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	matches := f.filter(func(t domain.Task) bool {
		if d := q.Get("description"); d != "" &&
			!strings.Contains(strings.ToLower(t.PlannedDescription), strings.ToLower(d)) {
			return false
		}
		if s := q.Get("status"); s != "" && !strings.EqualFold(string(t.ExecutionStatus), s) {
			return false
		}
		if s := q.Get("situation"); s != "" && !strings.EqualFold(string(t.TaskSituation), s) {
			return false
		}
		if id := q.Get("responsibleId"); id != "" && strconv.FormatInt(t.ResponsibleID, 10) != id {
			return false
		}
		if d := q.Get("createDate"); d != "" && t.CreationDate != d {
			return false
		}
		if d := q.Get("dueDate"); d != "" && t.DueDate != d {
			return false
		}
		return true
	})
	writeJSON(w, http.StatusOK, map[string]any{"content": matches, "totalElements": len(matches)})
}

// filter returns matching tasks in descending id order.
func (f *FakeRemote) filter(keep func(domain.Task) bool) []domain.Task {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]domain.Task, 0, len(f.tasks))
	for _, t := range f.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f *FakeRemote) createTask(w http.ResponseWriter, r *http.Request) {
	var task domain.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	if task.Responsible == nil || task.Responsible.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Responsible user is required"})
		return
	}
	task.ID = 0
	if task.CreationDate == "" {
		task.CreationDate = time.Now().Format(domain.DateLayout)
	}
	if task.ExecutionStatus == "" {
		task.ExecutionStatus = domain.StatusPending
	}
	if task.TaskSituation == "" {
		task.TaskSituation = domain.SituationOpen
	}
	writeJSON(w, http.StatusOK, f.AddTask(task))
}

func (f *FakeRemote) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
		return
	}
	var task domain.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	task.ID = id
	writeJSON(w, http.StatusOK, f.saveLocked(task))
}

func (f *FakeRemote) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid id"})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Task not found"})
		return
	}
	delete(f.tasks, id)
	w.WriteHeader(http.StatusNoContent)
}

// summary reports per-user totals; no tasks means no content.
func (f *FakeRemote) summary(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.tasks) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	type row struct {
		total, done int
	}
	perUser := make(map[int64]*row)
	for _, t := range f.tasks {
		rw, ok := perUser[t.ResponsibleID]
		if !ok {
			rw = &row{}
			perUser[t.ResponsibleID] = rw
		}
		rw.total++
		if t.ExecutionStatus == domain.StatusDone {
			rw.done++
		}
	}

	ids := make([]int64, 0, len(perUser))
	for id := range perUser {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	rows := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		rw := perUser[id]
		rows = append(rows, map[string]any{
			"user_id":         id,
			"total_tasks":     rw.total,
			"completed_tasks": rw.done,
			"completion_rate": float64(rw.done) * 100 / float64(rw.total),
		})
	}
	writeJSON(w, http.StatusOK, rows)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
