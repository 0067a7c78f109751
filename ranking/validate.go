package ranking

import (
	"fmt"
	"strings"
)

// ValidationError lists integrity problems in a course record. The engine
// tolerates these; callers reject them before persisting.
type ValidationError struct {
	CourseID string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid course %q: %s", e.CourseID, strings.Join(e.Problems, "; "))
}

func Validate(c Course) error {
	var problems []string
	if c.TotalVacancies < 0 {
		problems = append(problems, "total vacancies must not be negative")
	}
	if c.RemainingVacancies < 0 {
		problems = append(problems, "remaining vacancies must not be negative")
	}
	if c.RemainingVacancies > c.TotalVacancies {
		problems = append(problems, "remaining vacancies exceed total vacancies")
	}
	if c.Date != "" {
		if _, ok := ParseDate(c.Date, nil); !ok {
			problems = append(problems, "date must be DD/MM/YYYY")
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{CourseID: c.ID, Problems: problems}
}
