package ports

import (
	"context"

	"github.com/taskmaster/desk/internal/domain/entities"
)

// ContactService interface for address book operations
type ContactService interface {
	CreateContact(ctx context.Context, req CreateContactRequest) (*entities.Contact, error)
	GetContact(ctx context.Context, selector string) (*entities.Contact, error)
	UpdateContact(ctx context.Context, selector string, req UpdateContactRequest) (*entities.Contact, error)
	DeleteContact(ctx context.Context, selector string) (*entities.Contact, error)
	ListContacts(ctx context.Context, filter ContactFilter) ([]entities.Contact, error)
	ExportContacts(ctx context.Context, path string) (int, error)
	ExportData(ctx context.Context, format string) ([]byte, int, error)
	ImportContacts(ctx context.Context, path string) (int, error)
	ImportContactsData(ctx context.Context, data []byte) (int, error)
}

// TaskService interface for to-do list operations
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*entities.Task, error)
	GetTask(ctx context.Context, selector string) (*entities.Task, error)
	MarkDone(ctx context.Context, selector string) (*entities.Task, error)
	DeleteTask(ctx context.Context, selector string) (*entities.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
	Stats(ctx context.Context) (*TaskStats, error)
	Taunts(ctx context.Context) (*TauntReport, error)
}

// CalculatorService interface for the calculator and GST operations
type CalculatorService interface {
	Evaluate(expr string) (*EvalResponse, error)
	GST(req GSTRequest) (*entities.GSTResult, error)
	Press(key string) (*KeypadState, error)
	History() []string
}

// GameService interface for rock-paper-scissors rounds
type GameService interface {
	PlayRound(choice string) (*RoundResult, error)
}

// AuthService interface for API token operations
type AuthService interface {
	IssueToken(subject string) (*TokenResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Request/Response Types

// Contact related types
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateContactRequest replaces the whole record, as the edit form does.
type UpdateContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// Task related types
type CreateTaskRequest struct {
	Task     string            `json:"task" validate:"required"`
	Category entities.Category `json:"category"`
	Deadline string            `json:"deadline"`
}

type TaskStats struct {
	Total   int `json:"total"`
	Done    int `json:"done"`
	Pending int `json:"pending"`
}

type TauntReport struct {
	Now     string          `json:"now"`
	Missed  []entities.Task `json:"missed"`
	Taunts  []string        `json:"taunts"`
	Message string          `json:"message"`
}

// Calculator related types
type EvalRequest struct {
	Expression string `json:"expression" validate:"required"`
}

type EvalResponse struct {
	Expression string  `json:"expression"`
	Value      float64 `json:"value"`
	Display    string  `json:"display"`
}

type GSTRequest struct {
	Mode   entities.GSTMode `json:"mode" validate:"required,oneof=add remove calculate"`
	Amount float64          `json:"amount"`
	Rate   *float64         `json:"rate"`
}

type KeypadRequest struct {
	Key string `json:"key" validate:"required"`
}

type KeypadState struct {
	Input  string `json:"input"`
	Result string `json:"result"`
}

// Game related types
type RoundRequest struct {
	Choice string `json:"choice" validate:"required"`
}

type RoundResult struct {
	User     entities.Choice  `json:"user"`
	Computer entities.Choice  `json:"computer"`
	Outcome  entities.Outcome `json:"outcome"`
	Message  string           `json:"message"`
}

// Auth related types
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type Claims struct {
	Subject string `json:"sub"`
}

// Response types
type MessageResponse struct {
	Message string `json:"message"`
}

type CountResponse struct {
	Count int `json:"count"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
