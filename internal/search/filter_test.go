package search

import (
	"strings"
	"testing"
)

func TestParseDeceasedFilterEmpty(t *testing.T) {
	t.Parallel()

	cond, err := ParseDeceasedFilter("   ")
	if err != nil {
		t.Fatalf("parse empty filter: %v", err)
	}
	if cond.Clause != "" || len(cond.Params) != 0 {
		t.Fatalf("empty filter condition = %+v, want zero value", cond)
	}
}

func TestParseDeceasedFilterComparisons(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		filter     string
		wantClause string
		wantParams []any
	}{
		{
			name:       "name equality",
			filter:     `full_name = "Pedro Soto"`,
			wantClause: "d.full_name = ?",
			wantParams: []any{"Pedro Soto"},
		},
		{
			name:       "rut equality",
			filter:     `rut = "12.345.678-5"`,
			wantClause: "d.rut = ?",
			wantParams: []any{"12.345.678-5"},
		},
		{
			name:       "date range",
			filter:     `date_of_death >= "2026-01-01" AND date_of_death < "2027-01-01"`,
			wantClause: "(d.date_of_death >= ? AND d.date_of_death < ?)",
			wantParams: []any{"2026-01-01", "2027-01-01"},
		},
		{
			name:       "plot or space",
			filter:     `plot_id = 4 OR space_id = 9`,
			wantClause: "(d.plot_id = ? OR d.space_id = ?)",
			wantParams: []any{int64(4), int64(9)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cond, err := ParseDeceasedFilter(tc.filter)
			if err != nil {
				t.Fatalf("parse filter: %v", err)
			}
			if cond.Clause != tc.wantClause {
				t.Fatalf("clause = %q, want %q", cond.Clause, tc.wantClause)
			}
			if len(cond.Params) != len(tc.wantParams) {
				t.Fatalf("params len = %d, want %d", len(cond.Params), len(tc.wantParams))
			}
			for i, param := range cond.Params {
				if param != tc.wantParams[i] {
					t.Fatalf("param[%d] = %v, want %v", i, param, tc.wantParams[i])
				}
			}
		})
	}
}

func TestParseDeceasedFilterRejectsUnknownField(t *testing.T) {
	t.Parallel()

	_, err := ParseDeceasedFilter(`secret_column = "x"`)
	if err == nil {
		t.Fatal("expected unknown field error")
	}
	if !strings.Contains(err.Error(), "secret_column") {
		t.Fatalf("error = %v, want mention of the field", err)
	}
}

func TestParseDeceasedFilterRejectsMalformedExpression(t *testing.T) {
	t.Parallel()

	if _, err := ParseDeceasedFilter(`full_name = `); err == nil {
		t.Fatal("expected parse error")
	}
}
