package database

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@h:5432/db", "postgres://u:p@h:5432/db"},
		{"postgresql://u:p@h/db", "postgresql://u:p@h/db"},
		{"postgresql+asyncpg://u:p@h/db", "postgresql://u:p@h/db"},
		{"postgres+asyncpg://u:p@h/db", "postgres://u:p@h/db"},
		{"postgresql+pgx://u:p@h/db", "postgresql://u:p@h/db"},
		{"  postgres://u:p@h/db \n", "postgres://u:p@h/db"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeDSN(c.in); got != c.want {
			t.Errorf("normalizeDSN(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
