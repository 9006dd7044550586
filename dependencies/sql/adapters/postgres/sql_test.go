package postgres

import "testing"

func TestConvertSQL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT `m`.`id` FROM `member` `m` WHERE `m`.`age` >= ? AND `m`.`age` <= ?",
			`SELECT "m"."id" FROM "member" "m" WHERE "m"."age" >= $1 AND "m"."age" <= $2`},
		{"SELECT 1 WHERE `name` LIKE ? ESCAPE '!' AND '?' = ?",
			`SELECT 1 WHERE "name" LIKE $1 ESCAPE '!' AND '?' = $2`},
	}
	for _, tt := range tests {
		if got := ConvertSQL(tt.in); got != tt.want {
			t.Errorf("ConvertSQL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
