package model

import "time"

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

type Task struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string     `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=4000"`
	Status      string     `json:"status" bson:"status" validate:"required,oneof=todo in_progress completed"`
	DueDate     *time.Time `json:"due_date,omitempty" bson:"due_date,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty" bson:"assigned_to,omitempty" validate:"omitempty,max=64"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	LoftID      string     `json:"loft_id,omitempty" bson:"loft_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

type TaskUpdate struct {
	Title       string     `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	Status      string     `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssignedTo  *string    `json:"assigned_to,omitempty" validate:"omitempty,max=64"`
	LoftID      *string    `json:"loft_id,omitempty" validate:"omitempty,mongodb"`
}

// OnlyStatus reports whether the update touches nothing but the status.
func (u *TaskUpdate) OnlyStatus() bool {
	return u.Status != "" &&
		u.Title == "" &&
		u.Description == nil &&
		u.DueDate == nil &&
		u.AssignedTo == nil &&
		u.LoftID == nil
}

type TaskFilter struct {
	Status string
	LoftID string
}
