package mongo

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsStandaloneError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "illegal operation on standalone",
			err:  mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"},
			want: true,
		},
		{
			name: "wrapped message",
			err:  fmt.Errorf("insert: %w", errors.New("Transaction numbers are only allowed on a replica set member or mongos")),
			want: true,
		},
		{
			name: "other illegal operation",
			err:  mongo.CommandError{Code: 20, Message: "cannot run on a capped collection"},
			want: false,
		},
		{
			name: "write conflict",
			err:  mongo.CommandError{Code: 112, Message: "WriteConflict"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStandaloneError(tt.err); got != tt.want {
				t.Errorf("isStandaloneError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
