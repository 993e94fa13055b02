package urban

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidParameter reports a malformed query parameter. The routing layer
// turns it into a 400 before any query runs.
var ErrInvalidParameter = eris.New("urban: invalid parameter")

// AgeRange is an inclusive min-max age band.
type AgeRange struct {
	Min int
	Max int
}

// DemographicFilter is the explicit set of recognized demographic filters.
// Nil fields are unset.
type DemographicFilter struct {
	AgeRange      *AgeRange
	MinIncome     *int
	HouseholdSize *string
}

// ParseAgeRange parses a "min-max" string into an AgeRange.
func ParseAgeRange(s string) (AgeRange, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return AgeRange{}, eris.Wrapf(ErrInvalidParameter, "age range %q", s)
	}
	minAge, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return AgeRange{}, eris.Wrapf(ErrInvalidParameter, "age range %q", s)
	}
	maxAge, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return AgeRange{}, eris.Wrapf(ErrInvalidParameter, "age range %q", s)
	}
	return AgeRange{Min: minAge, Max: maxAge}, nil
}

// whereClause maps the filter to a SQL WHERE fragment and its arguments.
// Placeholders use the given format verb style: "$%d" for postgres, "?" for
// sqlite. The household filter matches listings that carry the given
// household-size category.
func (f DemographicFilter) whereClause(postgres bool) (string, []any) {
	var conds []string
	var args []any

	placeholder := func() string {
		if postgres {
			return fmt.Sprintf("$%d", len(args))
		}
		return "?"
	}

	if f.AgeRange != nil {
		args = append(args, f.AgeRange.Min)
		p1 := placeholder()
		args = append(args, f.AgeRange.Max)
		p2 := placeholder()
		conds = append(conds, fmt.Sprintf("age_distribution >= %s AND age_distribution <= %s", p1, p2))
	}
	if f.MinIncome != nil {
		args = append(args, *f.MinIncome)
		p := placeholder()
		// Income is stored as a decimal-comma string; the guard keeps the
		// cast from blowing up on free-text values.
		if postgres {
			conds = append(conds, fmt.Sprintf(
				"income ~ '^[0-9.,]+$' AND replace(replace(income, '.', ''), ',', '.')::numeric >= %s", p))
		} else {
			conds = append(conds, fmt.Sprintf(
				"CAST(replace(replace(income, '.', ''), ',', '.') AS REAL) >= %s", p))
		}
	}
	if f.HouseholdSize != nil {
		args = append(args, *f.HouseholdSize)
		p := placeholder()
		if postgres {
			conds = append(conds, fmt.Sprintf("household_sizes ? %s", p))
		} else {
			conds = append(conds, fmt.Sprintf(
				"EXISTS (SELECT 1 FROM json_each(household_sizes) WHERE json_each.key = %s)", p))
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
