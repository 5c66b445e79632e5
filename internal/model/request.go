package model

// CreateTaskRequest é o payload de criação de task
type CreateTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Estimate    *int     `json:"estimate"`
	Assignee    string   `json:"assignee"`
	Reporter    string   `json:"reporter"`
	Tags        []string `json:"tags"`
}

// UpdateTaskRequest é o payload de atualização de task.
// Ponteiros distinguem "campo ausente" de "campo zerado".
type UpdateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Estimate    *int      `json:"estimate"`
	Assignee    *string   `json:"assignee"`
	Reporter    *string   `json:"reporter"`
	Tags        *[]string `json:"tags"`
}

// TagRequest é o payload de criação/atualização de tag
type TagRequest struct {
	Name string `json:"name" binding:"required"`
}

// TaskListResponse é a resposta paginada da listagem de tasks
type TaskListResponse struct {
	Count    int    `json:"count"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Results  []Task `json:"results"`
}

// RewriteResult é a resposta do smart-rewrite
type RewriteResult struct {
	Title     string `json:"title"`
	UserStory string `json:"user_story"`
}

// SummaryResult é a resposta do smart-summary
type SummaryResult struct {
	Summary string `json:"summary"`
}

// ErrorResponse é a resposta padrão de erro da API
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
