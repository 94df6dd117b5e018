package mongodb

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/baechuer/task-manager/internal/domain"
)

func TestDatabaseName(t *testing.T) {
	cases := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017/Task_Manager", "Task_Manager"},
		{"mongodb://localhost:27017/other?retryWrites=true", "other"},
		{"mongodb://localhost:27017", DefaultDatabase},
		{"mongodb://user:pw@localhost:27017/", DefaultDatabase},
	}
	for _, tc := range cases {
		got, err := DatabaseName(tc.uri)
		if err != nil {
			t.Fatalf("DatabaseName(%q) err=%v", tc.uri, err)
		}
		if got != tc.want {
			t.Fatalf("DatabaseName(%q)=%q want %q", tc.uri, got, tc.want)
		}
	}
}

func TestDatabaseName_Invalid(t *testing.T) {
	if _, err := DatabaseName("http://nope"); err == nil {
		t.Fatal("expected error for non-mongodb scheme")
	}
}

func TestUserDocRoundTrip(t *testing.T) {
	now := time.Now().UTC()
	u := domain.User{
		Name: "Alice", Email: "a@x.com", PasswordHash: "h",
		ProfileImageURL: "https://cdn/a.png", Role: "admin", CreatedAt: now, UpdatedAt: now,
	}
	d := userDocFrom(u)
	d.ID = primitive.NewObjectID()

	got := d.toDomain()
	if got.ID != d.ID.Hex() {
		t.Fatalf("id=%q want %q", got.ID, d.ID.Hex())
	}
	if got.PasswordHash != "h" || got.ProfileImageURL != u.ProfileImageURL || !got.IsAdmin() {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestParseID(t *testing.T) {
	oid := primitive.NewObjectID()
	got, err := parseID(oid.Hex())
	if err != nil || got != oid {
		t.Fatalf("parseID valid: got=%v err=%v", got, err)
	}

	_, err = parseID("not-hex")
	if !domain.Is(err, "user_not_found") {
		t.Fatalf("expected user_not_found, got %v", err)
	}
}
