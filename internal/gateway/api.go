package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskdesk/internal/domain"
)

// LoginPath is the credential exchange route.
const LoginPath = "/auth/login"

// LoginRequest is the payload of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the payload of POST /users.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=60"`
	LastName  string `json:"lastName"  validate:"required,max=60"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6,max=72"`
}

// createTaskRequest mirrors the create rule for POST /tasks.
type createTaskRequest struct {
	PlannedDescription string `json:"plannedDescription" validate:"required,max=40"`
	DueDate            string `json:"dueDate"            validate:"required,datetime=2006-01-02"`
}

// ReportRow is one row of a per-user report. Columns are defined by the
// service.
type ReportRow map[string]any

// loginResponse tolerates a structured user or a "First Last" string.
type loginResponse struct {
	Token string          `json:"token"`
	Email string          `json:"email"`
	User  json.RawMessage `json:"user"`
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	req := LoginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.check(req); err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, http.MethodPost, LoginPath, nil, req)
	if err != nil {
		return nil, err
	}

	var out loginResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Token) == "" {
		return nil, fmt.Errorf("%w: login response has no token", ErrMalformedResponse)
	}

	user, err := decodeLoginUser(out.User, out.Email)
	if err != nil {
		return nil, err
	}
	if user.Email == "" {
		user.Email = req.Email
	}
	return &domain.AuthResult{Token: out.Token, User: user}, nil
}

func decodeLoginUser(raw json.RawMessage, email string) (domain.User, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return domain.User{Email: email}, nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return domain.UserFromDisplayName(name, email), nil
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.User{}, fmt.Errorf("%w: unreadable user: %v", ErrMalformedResponse, err)
	}
	if user.Email == "" {
		user.Email = email
	}
	return user.Profile(), nil
}

// ListUsers returns every registered user.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	resp, err := c.do(ctx, http.MethodGet, "/users", nil, nil)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := decode(resp, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CheckEmail reports whether email is already registered. The service may
// answer with a bare boolean or an {"exists": bool} object.
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if err := c.validate.Var(email, "required,email"); err != nil {
		return false, domain.NewValidationError("email", domain.ErrInvalidEmail)
	}

	resp, err := c.do(ctx, http.MethodGet, "/users/check-email", url.Values{"email": {email}}, nil)
	if err != nil {
		return false, err
	}

	var exists bool
	if json.Unmarshal(resp.body, &exists) == nil {
		return exists, nil
	}
	var wrapped struct {
		Exists *bool `json:"exists"`
	}
	if err := decode(resp, &wrapped); err != nil {
		return false, err
	}
	if wrapped.Exists == nil {
		return false, fmt.Errorf("%w: check-email response has no exists field", ErrMalformedResponse)
	}
	return *wrapped.Exists, nil
}

// RegisterUser creates a new user account.
func (c *Client) RegisterUser(ctx context.Context, req RegisterRequest) (domain.User, error) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.check(req); err != nil {
		return domain.User{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/users", nil, req)
	if err != nil {
		return domain.User{}, err
	}
	var user domain.User
	if err := decode(resp, &user); err != nil {
		return domain.User{}, err
	}
	return user.Profile(), nil
}

// SearchTasks queries tasks and returns the raw body for normalization.
// An empty query lists every task.
func (c *Client) SearchTasks(ctx context.Context, query url.Values) (json.RawMessage, error) {
	path := "/tasks/search"
	if len(query) == 0 {
		path = "/tasks"
	}
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.body), nil
}

// CreateTask creates a task after checking the create rule locally.
func (c *Client) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if err := task.ValidateForCreate(); err != nil {
		return domain.Task{}, err
	}
	task = task.WithResponsibleRef()
	if err := c.check(createTaskRequest{
		PlannedDescription: strings.TrimSpace(task.PlannedDescription),
		DueDate:            strings.TrimSpace(task.DueDate),
	}); err != nil {
		return domain.Task{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, "/tasks", nil, task)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(resp, task)
}

// UpdateTask replaces the task identified by task.ID.
func (c *Client) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if task.ID <= 0 {
		return domain.Task{}, domain.NewValidationError("id", domain.ErrInvalidID)
	}
	task = task.WithResponsibleRef()
	resp, err := c.do(ctx, http.MethodPut, taskPath(task.ID), nil, task)
	if err != nil {
		return domain.Task{}, err
	}
	return decodeTask(resp, task)
}

// DeleteTask removes the task with id.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.NewValidationError("id", domain.ErrInvalidID)
	}
	_, err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
	return err
}

// ReportSummary returns the per-user task summary. No content means no rows.
func (c *Client) ReportSummary(ctx context.Context) ([]ReportRow, error) {
	return c.report(ctx, http.MethodGet, "/reports/summary")
}

// RecalculateCompletion asks the service to recompute completion rates and
// returns the updated rows.
func (c *Client) RecalculateCompletion(ctx context.Context) ([]ReportRow, error) {
	return c.report(ctx, http.MethodPost, "/reports/recalculate")
}

func (c *Client) report(ctx context.Context, method, path string) ([]ReportRow, error) {
	resp, err := c.do(ctx, method, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNoContent || len(strings.TrimSpace(string(resp.body))) == 0 {
		return nil, nil
	}
	var rows []ReportRow
	if err := decode(resp, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func taskPath(id int64) string {
	return "/tasks/" + strconv.FormatInt(id, 10)
}

// decodeTask decodes a task body, falling back to sent when the service
// answers without one.
func decodeTask(resp *response, sent domain.Task) (domain.Task, error) {
	if len(strings.TrimSpace(string(resp.body))) == 0 {
		return sent, nil
	}
	var task domain.Task
	if err := decode(resp, &task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// check validates req and converts the first failure into a
// domain.ValidationError.
func (c *Client) check(req any) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("failed to validate request: %w", err)
	}
	first := verrs[0]
	return domain.NewValidationError(first.Field(), tagError(first.Tag()))
}

// tagError maps validation tags to domain rule errors.
func tagError(tag string) error {
	switch tag {
	case "required":
		return domain.ErrEmptyField
	case "email":
		return domain.ErrInvalidEmail
	case "min":
		return domain.ErrFieldTooShort
	case "max":
		return domain.ErrFieldTooLong
	case "datetime":
		return domain.ErrInvalidDate
	default:
		return fmt.Errorf("failed on the %q rule", tag)
	}
}
