package validator

import (
	"strings"
	"testing"

	"loftalgerie/pkg/logger"
	"loftalgerie/pkg/model"
)

func TestValidate(t *testing.T) {
	v := NewTaskValidator(logger.Discard())

	tests := []struct {
		name    string
		task    model.Task
		wantErr string
	}{
		{
			name: "valid task",
			task: model.Task{Title: "Change sheets", Status: model.TaskStatusTodo},
		},
		{
			name:    "missing title",
			task:    model.Task{Status: model.TaskStatusTodo},
			wantErr: "Title is required",
		},
		{
			name:    "unknown status",
			task:    model.Task{Title: "Fix tap", Status: "blocked"},
			wantErr: "Status must be one of",
		},
		{
			name:    "bad loft id",
			task:    model.Task{Title: "Fix tap", Status: model.TaskStatusTodo, LoftID: "hydra"},
			wantErr: "LoftID must be a valid MongoDB ObjectID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.task)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewTaskValidator(logger.Discard())

	if err := v.ValidateUpdate(&model.TaskUpdate{Status: model.TaskStatusCompleted}); err != nil {
		t.Errorf("expected status update to be valid, got %v", err)
	}
	if err := v.ValidateUpdate(&model.TaskUpdate{Title: "x"}); err == nil {
		t.Error("expected one-character title to be rejected")
	}
}
