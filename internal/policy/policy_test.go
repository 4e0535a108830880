package policy

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"musicbox/internal/models"
)

func TestAdmin(t *testing.T) {
	tests := []struct {
		name string
		id   *models.Identity
		want error
	}{
		{name: "anonymous", id: nil, want: ErrUnauthenticated},
		{name: "empty identity", id: &models.Identity{}, want: ErrUnauthenticated},
		{name: "regular user", id: &models.Identity{UserID: "u1"}, want: ErrForbidden},
		{name: "admin", id: &models.Identity{UserID: "u1", IsAdmin: true}, want: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if err := Admin(tc.id); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSelfHasNoAdminOverride(t *testing.T) {
	admin := &models.Identity{UserID: "root", IsAdmin: true}
	if err := Self(admin, "u2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected admin to be refused for another user's favorites, got %v", err)
	}
	if err := SelfOrAdmin(admin, "u2"); err != nil {
		t.Fatalf("expected admin to read another user's playlists, got %v", err)
	}
}

func TestCanViewPlaylist(t *testing.T) {
	private := &models.Playlist{ID: "p1", UserID: "owner", IsPublic: false}
	public := &models.Playlist{ID: "p2", UserID: "owner", IsPublic: true}

	if !CanViewPlaylist(nil, public) {
		t.Fatalf("public playlist should be visible anonymously")
	}
	if CanViewPlaylist(nil, private) {
		t.Fatalf("private playlist should be hidden from anonymous callers")
	}
	if CanViewPlaylist(&models.Identity{UserID: "other"}, private) {
		t.Fatalf("private playlist should be hidden from other users")
	}
	if !CanViewPlaylist(&models.Identity{UserID: "owner"}, private) {
		t.Fatalf("owner should see private playlist")
	}
	if !CanViewPlaylist(&models.Identity{UserID: "x", IsAdmin: true}, private) {
		t.Fatalf("admin should see private playlist")
	}
}

func TestProperty_OwnerOrAdmin(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("allowed iff caller is owner or admin", prop.ForAll(
		func(caller, owner string, admin bool) bool {
			id := &models.Identity{UserID: caller, IsAdmin: admin}
			err := OwnerOrAdmin(id, owner)
			switch {
			case caller == "":
				return errors.Is(err, ErrUnauthenticated)
			case admin || caller == owner:
				return err == nil
			default:
				return errors.Is(err, ErrForbidden)
			}
		},
		gen.OneGenOf(gen.Const(""), gen.Const("alice"), gen.Const("bob"), gen.Identifier()),
		gen.OneGenOf(gen.Const("alice"), gen.Const("bob"), gen.Identifier()),
		gen.Bool(),
	))

	properties.Property("admin implies authenticated for every predicate", prop.ForAll(
		func(caller string, admin bool) bool {
			id := &models.Identity{UserID: caller, IsAdmin: admin}
			if Admin(id) == nil {
				return Authenticated(id) == nil && OwnerOrAdmin(id, "anyone") == nil
			}
			return true
		},
		gen.Identifier(),
		gen.Bool(),
	))

	properties.Property("nil identity is always unauthenticated", prop.ForAll(
		func(target string) bool {
			return errors.Is(Admin(nil), ErrUnauthenticated) &&
				errors.Is(OwnerOrAdmin(nil, target), ErrUnauthenticated) &&
				errors.Is(Self(nil, target), ErrUnauthenticated) &&
				errors.Is(SelfOrAdmin(nil, target), ErrUnauthenticated)
		},
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
