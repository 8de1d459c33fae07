package entity

import "strings"

// NameBook supplies given names for initials expansion. Implementations are
// locale-specific; the resolver only needs names keyed by their first letter.
type NameBook interface {
	// GivenNames returns given names starting with the initial, lowercase.
	GivenNames(initial rune) []string
}

// StaticNameBook is a NameBook backed by a fixed list of given names.
type StaticNameBook struct {
	byInitial map[rune][]string
}

// NewStaticNameBook indexes the given names by first letter.
func NewStaticNameBook(names []string) *StaticNameBook {
	book := &StaticNameBook{byInitial: make(map[rune][]string)}
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		initial := []rune(name)[0]
		book.byInitial[initial] = append(book.byInitial[initial], name)
	}
	return book
}

// GivenNames returns the names filed under the initial.
func (b *StaticNameBook) GivenNames(initial rune) []string {
	return b.byInitial[initial]
}

// DefaultNameBook returns a book of common Czech and Slovak given names.
// Regions with different locales plug in their own book.
func DefaultNameBook() NameBook {
	return NewStaticNameBook([]string{
		"adam", "adela", "alena", "ales", "alzbeta", "andrea", "aneta",
		"anna", "antonin", "barbora", "bohumil", "dana", "daniel", "david",
		"dominik", "eliska", "emil", "eva", "filip", "frantisek", "gabriela",
		"hana", "helena", "igor", "ilona", "irena", "iva", "ivan", "ivana",
		"jakub", "jan", "jana", "jarmila", "jaroslav", "jiri", "jitka",
		"josef", "jozef", "kamila", "karel", "katerina", "kristyna", "ladislav",
		"lenka", "libor", "lucie", "ludmila", "lukas", "marek", "marie",
		"martin", "martina", "matej", "michaela", "michal", "milan", "miroslav",
		"monika", "nikola", "ondrej", "pavel", "pavla", "petr", "petra",
		"radek", "renata", "roman", "simona", "stanislav", "stepan", "tereza",
		"tomas", "vaclav", "vera", "veronika", "viktor", "vit", "vladimir",
		"vojtech", "zdenek", "zuzana",
	})
}
