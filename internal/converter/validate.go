package converter

import (
	"sort"

	"github.com/fjglira/GoSkeptic/internal/domain"
	"github.com/fjglira/GoSkeptic/pkg/rt"
)

// ValidateTemplate checks that body is a usable format string, so that a
// broken template fails generation rather than every test using it.
func ValidateTemplate(body string) error {
	_, err := rt.Format(body, "")
	return err
}

func sortedNames(templates map[string]domain.Template) []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
