package library

import "testing"

func TestParseRoleClosedSet(t *testing.T) {
	cases := map[string]Role{
		"user":        RoleUser,
		"Admin":       RoleAdmin,
		" verwaltung": RoleStaff,
		"AUTHOR":      RoleAuthor,
	}
	for in, want := range cases {
		got, ok := ParseRole(in)
		if !ok || got != want {
			t.Fatalf("ParseRole(%q) = %q ok=%v, want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Fatalf("unknown role must not parse")
	}
}

func TestRoleCapabilities(t *testing.T) {
	if !RoleAdmin.CanChangeRoles() || RoleStaff.CanChangeRoles() || RoleUser.CanChangeRoles() {
		t.Fatalf("only admin may change roles")
	}
	if !RoleAdmin.CanForceReturn() || !RoleStaff.CanForceReturn() || RoleUser.CanForceReturn() {
		t.Fatalf("admin and staff may force-return")
	}
	if !RoleStaff.CanManageMedia() || RoleAuthor.CanManageMedia() {
		t.Fatalf("staff manages media, authors do not")
	}
}

func TestAssignableRoles(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleAdmin, RoleStaff} {
		if !r.Assignable() {
			t.Fatalf("%q must be assignable", r)
		}
	}
	if RoleAuthor.Assignable() {
		t.Fatalf("author accounts are not assignable via menus")
	}
}
