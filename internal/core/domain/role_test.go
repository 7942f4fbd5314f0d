package domain

import "testing"

func TestAllow_TruthTable(t *testing.T) {
	all := []Role{RoleFounder, RoleAdmin, RoleStaff, RoleUser}

	// want[actor][required] for single-role requirements.
	want := map[Role]map[Role]bool{
		RoleFounder: {RoleFounder: true, RoleAdmin: true, RoleStaff: true, RoleUser: true},
		RoleAdmin:   {RoleFounder: false, RoleAdmin: true, RoleStaff: true, RoleUser: true},
		RoleStaff:   {RoleFounder: false, RoleAdmin: false, RoleStaff: true, RoleUser: true},
		RoleUser:    {RoleFounder: false, RoleAdmin: false, RoleStaff: false, RoleUser: true},
	}

	for _, actor := range all {
		for _, required := range all {
			got := Allow(actor, NewRoleSet(required))
			if got != want[actor][required] {
				t.Errorf("Allow(%s, {%s}) = %v, want %v", actor, required, got, want[actor][required])
			}
		}
	}
}

func TestAllow_RoleSets(t *testing.T) {
	cases := []struct {
		name     string
		actor    Role
		required []Role
		want     bool
	}{
		{"public operation admits anyone", RoleUser, nil, true},
		{"public operation admits unknown role", Role("guest"), nil, true},
		{"founder on founder-only", RoleFounder, []Role{RoleFounder}, true},
		{"admin on founder+admin", RoleAdmin, []Role{RoleFounder, RoleAdmin}, false},
		{"admin on admin+staff", RoleAdmin, []Role{RoleAdmin, RoleStaff}, true},
		{"staff on founder+admin", RoleStaff, []Role{RoleFounder, RoleAdmin}, false},
		{"staff on all roles", RoleStaff, AnyRole, true},
		{"user on staff-only", RoleUser, []Role{RoleStaff}, false},
		{"user on all roles", RoleUser, AnyRole, true},
		{"unknown role denied", Role("guest"), []Role{RoleUser}, false},
		{"empty role denied", Role(""), []Role{RoleUser}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allow(tc.actor, NewRoleSet(tc.required...)); got != tc.want {
				t.Fatalf("Allow(%q, %v) = %v, want %v", tc.actor, tc.required, got, tc.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("staff"); !ok || r != RoleStaff {
		t.Fatalf("expected staff, got %q %v", r, ok)
	}
	if _, ok := ParseRole("STAFF"); ok {
		t.Fatalf("role parsing must be exact")
	}
}

func TestUser_Sanitized(t *testing.T) {
	u := &User{ID: "1", FirstName: "Ana", PasswordHash: "$2a$hash"}
	s := u.Sanitized()
	if s.PasswordHash != "" {
		t.Fatalf("hash not stripped")
	}
	if u.PasswordHash == "" {
		t.Fatalf("original must be untouched")
	}
	if s.FirstName != "Ana" {
		t.Fatalf("fields lost: %+v", s)
	}
}

func TestValidSlug(t *testing.T) {
	for s, want := range map[string]bool{
		"hot-drinks":  true,
		"pastries":    true,
		"Hot-Drinks":  false,
		"hot--drinks": false,
		"-hot":        false,
		"":            false,
	} {
		if got := ValidSlug(s); got != want {
			t.Errorf("ValidSlug(%q) = %v, want %v", s, got, want)
		}
	}
}
