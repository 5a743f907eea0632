package cms

import (
	"context"
	"testing"

	_ "modernc.org/sqlite"
)

// TestOptions verifies option set/get round trips and the unset default.
func TestOptions(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	// Unset option reads as empty, not as an error
	v, err := s.GetOption(ctx, OptionAPIToken)
	if err != nil {
		t.Fatalf("GetOption failed: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty value for unset option, got %q", v)
	}

	if err := s.SetOption(ctx, OptionAPIToken, "abc.def.ghi"); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}

	v, err = s.GetOption(ctx, OptionAPIToken)
	if err != nil {
		t.Fatalf("GetOption failed: %v", err)
	}
	if v != "abc.def.ghi" {
		t.Errorf("got %q, want %q", v, "abc.def.ghi")
	}

	// Overwrite (token cleared on deactivation)
	if err := s.SetOption(ctx, OptionAPIToken, ""); err != nil {
		t.Fatalf("SetOption failed: %v", err)
	}
	v, _ = s.GetOption(ctx, OptionAPIToken)
	if v != "" {
		t.Errorf("expected cleared token, got %q", v)
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, "jdoe", "J. Doe", "jdoe@example.com")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	u, err := s.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u.DisplayName != "J. Doe" || u.Email != "jdoe@example.com" {
		t.Errorf("unexpected user: %+v", u)
	}

	if _, err := s.GetUser(ctx, 9999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := s.CreateUser(ctx, "jdoe", "Other", "o@example.com"); err != ErrDuplicate {
		t.Errorf("expected ErrDuplicate for same login, got %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected 1 user, got %d", len(users))
	}
}

func TestCategories(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	newsID, err := s.CreateCategory(ctx, "News", "news")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	exists, err := s.CategoryExists(ctx, newsID)
	if err != nil {
		t.Fatalf("CategoryExists failed: %v", err)
	}
	if !exists {
		t.Errorf("expected category %d to exist", newsID)
	}

	exists, err = s.CategoryExists(ctx, 9999)
	if err != nil {
		t.Fatalf("CategoryExists failed: %v", err)
	}
	if exists {
		t.Errorf("expected category 9999 to not exist")
	}

	// Assignments
	cid, err := s.CreateContent(ctx, &Content{Title: "t", Body: "b", AuthorID: 1}, SaveOptions{})
	if err != nil {
		t.Fatalf("CreateContent failed: %v", err)
	}
	techID, err := s.CreateCategory(ctx, "Tech", "tech")
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	if err := s.SetContentCategories(ctx, cid, []int64{newsID, techID}); err != nil {
		t.Fatalf("SetContentCategories failed: %v", err)
	}

	got, err := s.GetContentCategories(ctx, cid)
	if err != nil {
		t.Fatalf("GetContentCategories failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(got))
	}

	// Replacement semantics
	if err := s.SetContentCategories(ctx, cid, []int64{techID}); err != nil {
		t.Fatalf("SetContentCategories failed: %v", err)
	}
	got, _ = s.GetContentCategories(ctx, cid)
	if len(got) != 1 || got[0] != techID {
		t.Errorf("expected only tech assignment, got %v", got)
	}
}

func TestContentTypes(t *testing.T) {
	t.Parallel()

	public := ContentTypes(true)
	for _, ct := range public {
		if !ct.Public {
			t.Errorf("public listing contains internal type %q", ct.Name)
		}
	}

	if !TypeExists("post") || !TypeExists("page") || !TypeExists(TypeRevision) {
		t.Errorf("built-in types missing from registry")
	}
	if TypeExists("bogus") {
		t.Errorf("unknown type reported as existing")
	}
}

func TestHashVerifyKey(t *testing.T) {
	t.Parallel()

	hash, err := HashKey("admin-secret")
	if err != nil {
		t.Fatalf("HashKey failed: %v", err)
	}

	if err := VerifyKey("admin-secret", hash); err != nil {
		t.Errorf("VerifyKey rejected correct credential: %v", err)
	}
	if err := VerifyKey("wrong", hash); err == nil {
		t.Errorf("VerifyKey accepted wrong credential")
	}
}

func TestPing(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
