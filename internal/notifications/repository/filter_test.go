package repository

import "testing"

func TestUserFilter(t *testing.T) {
	all := userFilter("user-1", false)
	if all["user_id"] != "user-1" || len(all) != 1 {
		t.Errorf("unexpected filter %v", all)
	}

	unread := userFilter("user-1", true)
	if unread["is_read"] != false || len(unread) != 2 {
		t.Errorf("expected unread clause, got %v", unread)
	}
}
