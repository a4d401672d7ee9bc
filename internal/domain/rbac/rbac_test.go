package rbac

import (
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRoleMap_Resolve(t *testing.T) {
	rm := ParseRoleMap(`{
		"Ana@Example.com ": "admin",
		"bia@example.com": "EDITOR",
		"caio@example.com": "superuser",
		"": "admin"
	}`, testLogger())

	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "точное совпадение, регистр ключа нормализован", email: "ana@example.com", want: RoleAdmin},
		{name: "email в другом регистре", email: "  ANA@EXAMPLE.COM", want: RoleAdmin},
		{name: "роль в верхнем регистре", email: "bia@example.com", want: RoleEditor},
		{name: "неизвестная роль отброшена -> viewer", email: "caio@example.com", want: RoleViewer},
		{name: "нет в карте -> viewer", email: "dani@example.com", want: RoleViewer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rm.Resolve(tt.email)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, хотели %q", tt.email, got, tt.want)
			}
		})
	}

	if rm.Len() != 2 {
		t.Errorf("Len() = %d, хотели 2", rm.Len())
	}
}

func TestRoleMap_Wildcard(t *testing.T) {
	rm := ParseRoleMap(`{"ana@example.com":"admin","*":"editor"}`, testLogger())

	if got := rm.Resolve("ana@example.com"); got != RoleAdmin {
		t.Errorf("Resolve(ana) = %q, хотели admin", got)
	}
	if got := rm.Resolve("qualquer@example.com"); got != RoleEditor {
		t.Errorf("Resolve(qualquer) = %q, хотели editor (wildcard)", got)
	}
}

func TestParseRoleMap_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "пустая строка", raw: ""},
		{name: "невалидный JSON", raw: `{"ana@example.com":`},
		{name: "массив вместо объекта", raw: `["admin"]`},
		{name: "значение не строка", raw: `{"ana@example.com": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rm := ParseRoleMap(tt.raw, testLogger())
			if rm.Len() != 0 {
				t.Errorf("Len() = %d, хотели 0", rm.Len())
			}
			if got := rm.Resolve("ana@example.com"); got != DefaultRole {
				t.Errorf("Resolve() = %q, хотели %q", got, DefaultRole)
			}
		})
	}
}

func TestRoleMap_NilResolve(t *testing.T) {
	var rm *RoleMap
	if got := rm.Resolve("ana@example.com"); got != RoleViewer {
		t.Errorf("Resolve() на nil = %q, хотели viewer", got)
	}
}

func TestHasAnyRole(t *testing.T) {
	if !HasAnyRole(RoleEditor, RoleAdmin, RoleEditor) {
		t.Error("editor должен входить в {admin, editor}")
	}
	if HasAnyRole(RoleViewer, RoleAdmin, RoleEditor) {
		t.Error("viewer не должен входить в {admin, editor}")
	}
	if HasAnyRole(RoleAdmin) {
		t.Error("пустой набор не должен разрешать ничего")
	}
}

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		role string
		want bool
	}{
		{RoleAdmin, true},
		{RoleEditor, true},
		{RoleViewer, true},
		{"readonly", false},
		{"", false},
		{"Admin", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := IsValidRole(tt.role)
			if got != tt.want {
				t.Errorf("IsValidRole(%q) = %v, хотели %v", tt.role, got, tt.want)
			}
		})
	}
}
