package store

import (
	"testing"
	"time"
)

func TestSessions_AddAndFind(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	sessions := NewSessions(db)

	if err := sessions.Add(user.ID, "token-1", "iphone"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rec, err := sessions.FindByToken(user.ID, "token-1")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if rec == nil {
		t.Fatal("FindByToken() = nil, expected record")
	}
	if rec.Device != "iphone" {
		t.Errorf("Device = %q, expected %q", rec.Device, "iphone")
	}
}

func TestSessions_FindByToken_Absent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	sessions := NewSessions(db)

	rec, err := sessions.FindByToken(user.ID, "never-issued")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if rec != nil {
		t.Errorf("FindByToken() = %+v, expected nil", rec)
	}
}

func TestSessions_FindByToken_ScopedToUser(t *testing.T) {
	db := newTestDB(t)
	alice := seedUser(t, db, "alice@b.com")
	bob := seedUser(t, db, "bob@b.com")
	sessions := NewSessions(db)

	if err := sessions.Add(alice.ID, "alice-token", "iphone"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rec, err := sessions.FindByToken(bob.ID, "alice-token")
	if err != nil {
		t.Fatalf("FindByToken() error = %v", err)
	}
	if rec != nil {
		t.Error("another user's token must not be found")
	}
}

func TestSessions_ReplaceByDevice(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	sessions := NewSessions(db)

	if err := sessions.ReplaceByDevice(user.ID, "iphone", "token-1"); err != nil {
		t.Fatalf("ReplaceByDevice() error = %v", err)
	}
	if err := sessions.ReplaceByDevice(user.ID, "iphone", "token-2"); err != nil {
		t.Fatalf("ReplaceByDevice() error = %v", err)
	}

	list, err := sessions.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(sessions) = %d, expected 1 (same device replaces)", len(list))
	}
	if list[0].Token != "token-2" {
		t.Errorf("Token = %q, expected %q", list[0].Token, "token-2")
	}

	// A second device coexists
	if err := sessions.ReplaceByDevice(user.ID, "laptop", "token-3"); err != nil {
		t.Fatalf("ReplaceByDevice() error = %v", err)
	}
	list, _ = sessions.ListForUser(user.ID)
	if len(list) != 2 {
		t.Errorf("len(sessions) = %d, expected 2 (distinct devices coexist)", len(list))
	}
}

func TestSessions_ReplaceToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	sessions := NewSessions(db)

	if err := sessions.Add(user.ID, "old-token", "iphone"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	matched, err := sessions.ReplaceToken(user.ID, "old-token", "new-token")
	if err != nil {
		t.Fatalf("ReplaceToken() error = %v", err)
	}
	if !matched {
		t.Fatal("ReplaceToken() matched = false, expected true")
	}

	if rec, _ := sessions.FindByToken(user.ID, "old-token"); rec != nil {
		t.Error("old token should be gone after rotation")
	}

	rec, _ := sessions.FindByToken(user.ID, "new-token")
	if rec == nil {
		t.Fatal("new token should be present after rotation")
	}
	if rec.Device != "iphone" {
		t.Errorf("Device = %q, expected preserved %q", rec.Device, "iphone")
	}
}

func TestSessions_ReplaceToken_StaleValue(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	sessions := NewSessions(db)

	if err := sessions.Add(user.ID, "current", "iphone"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// First rotation wins
	if matched, _ := sessions.ReplaceToken(user.ID, "current", "next"); !matched {
		t.Fatal("first rotation should match")
	}

	// A concurrent attempt holding the stale value loses
	matched, err := sessions.ReplaceToken(user.ID, "current", "other")
	if err != nil {
		t.Fatalf("ReplaceToken() error = %v", err)
	}
	if matched {
		t.Error("rotation with an already-replaced value must not match")
	}
}

func TestSessions_RemoveByToken(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	sessions := NewSessions(db)

	sessions.Add(user.ID, "token-1", "iphone")
	sessions.Add(user.ID, "token-2", "laptop")

	if err := sessions.RemoveByToken(user.ID, "token-1"); err != nil {
		t.Fatalf("RemoveByToken() error = %v", err)
	}

	list, _ := sessions.ListForUser(user.ID)
	if len(list) != 1 {
		t.Fatalf("len(sessions) = %d, expected 1", len(list))
	}
	if list[0].Token != "token-2" {
		t.Errorf("remaining token = %q, expected %q", list[0].Token, "token-2")
	}
}

func TestSessions_ClearAll(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	other := seedUser(t, db, "other@b.com")
	sessions := NewSessions(db)

	sessions.Add(user.ID, "token-1", "iphone")
	sessions.Add(user.ID, "token-2", "laptop")
	sessions.Add(other.ID, "token-3", "iphone")

	if err := sessions.ClearAll(user.ID); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	list, _ := sessions.ListForUser(user.ID)
	if len(list) != 0 {
		t.Errorf("len(sessions) = %d, expected 0", len(list))
	}

	// Other users are untouched
	otherList, _ := sessions.ListForUser(other.ID)
	if len(otherList) != 1 {
		t.Errorf("other user's sessions = %d, expected 1", len(otherList))
	}
}

func TestSessions_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@b.com")
	sessions := NewSessions(db)

	sessions.Add(user.ID, "old", "iphone")
	sessions.Add(user.ID, "fresh", "laptop")

	// Backdate one record past the cutoff
	db.Model(&struct{}{}).Table("sessions").
		Where("token = ?", "old").
		Update("created_at", time.Now().Add(-30*24*time.Hour))

	removed, err := sessions.DeleteExpired(time.Now().Add(-7 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, expected 1", removed)
	}

	if rec, _ := sessions.FindByToken(user.ID, "fresh"); rec == nil {
		t.Error("fresh session should survive cleanup")
	}
}
