package repository

import (
	"testing"

	"loftalgerie/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name   string
		scope  model.Scope
		filter model.TaskFilter
		want   bson.M
	}{
		{
			name:  "all tasks",
			scope: model.Scope{All: true},
			want:  bson.M{},
		},
		{
			name:   "member with status filter",
			scope:  model.Scope{AssigneeID: "user-7"},
			filter: model.TaskFilter{Status: model.TaskStatusTodo},
			want:   bson.M{"assigned_to": "user-7", "status": "todo"},
		},
		{
			name:   "loft filter",
			scope:  model.Scope{All: true},
			filter: model.TaskFilter{LoftID: "507f1f77bcf86cd799439012"},
			want:   bson.M{"loft_id": "507f1f77bcf86cd799439012"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildFilter(tt.scope, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("buildFilter() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("filter[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestBuildFilter_DenyMatchesNothing(t *testing.T) {
	got := buildFilter(model.Scope{Deny: true}, model.TaskFilter{})
	if _, ok := got["_id"]; !ok {
		t.Errorf("expected an impossible _id clause, got %v", got)
	}
}
