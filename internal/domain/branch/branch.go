package branch

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gadgetstock/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Branch is a location that owns inventory. Exactly one branch is expected to be
// the administrative (warehouse) branch where stock is received from suppliers.
type Branch struct {
	shared.BaseEntity
	Name    string
	Slug    string
	IsAdmin bool
}

// NewBranch creates a new branch with a slug derived from the name
func NewBranch(name string, isAdmin bool) (*Branch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Branch name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Branch name cannot exceed 100 characters")
	}
	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Branch name must contain letters or digits")
	}
	return &Branch{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		IsAdmin:    isAdmin,
	}, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, folds accents ("Córdoba" -> "cordoba") and joins words with '-'
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(folded), "-")
	return strings.Trim(slug, "-")
}
