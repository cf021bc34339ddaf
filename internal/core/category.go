package core

import "strings"

// Known category tags. Anything outside this set is a custom category.
const (
	CategoryFood          = "food"
	CategoryTransport     = "transport"
	CategoryUtilities     = "utilities"
	CategoryEntertainment = "entertainment"
	CategorySalary        = "salary"
	CategoryFreelance     = "freelance"
	CategoryInvestment    = "investment"
	CategoryGift          = "gift"
	CategoryOther         = "other"
)

var knownCategories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryUtilities,
	CategoryEntertainment,
	CategorySalary,
	CategoryFreelance,
	CategoryInvestment,
	CategoryGift,
	CategoryOther,
}

// Category is either one of the known tags or a custom label.
// The zero value is an empty category and fails validation.
type Category struct {
	name   string
	custom bool
}

// KnownCategories lists the known tags in display order.
func KnownCategories() []string {
	return append([]string(nil), knownCategories...)
}

// ParseCategory maps s to a known category when it matches a tag
// (case-insensitively) and to a custom category otherwise.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	if s == "" {
		return Category{}
	}
	lower := strings.ToLower(s)
	for _, k := range knownCategories {
		if lower == k {
			return Category{name: k}
		}
	}
	return Category{name: s, custom: true}
}

// KnownCategory returns the category for a known tag. ok is false when tag
// is not one of the known tags.
func KnownCategory(tag string) (c Category, ok bool) {
	c = ParseCategory(tag)
	return c, !c.custom && !c.IsZero()
}

// CustomCategory returns a custom category for label. A label that spells
// a known tag resolves to the known category.
func CustomCategory(label string) Category {
	return ParseCategory(label)
}

func (c Category) String() string { return c.name }

// IsCustom reports whether c carries a free-text label.
func (c Category) IsCustom() bool { return c.custom }

func (c Category) IsZero() bool { return c.name == "" }

// Key is the lookup form of c: the label with ASCII letters lower-cased,
// matching SQLite's NOCASE collation. "Groceries" and "groceries" share a key.
func (c Category) Key() string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, c.name)
}

// SameAs reports whether c and other name the same category, ignoring case.
func (c Category) SameAs(other Category) bool { return c.Key() == other.Key() }
