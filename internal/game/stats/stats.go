package stats

import (
	"fmt"
	"strings"
)

// Resource names one of a character's pools.
type Resource int

const (
	Vitality Resource = iota
	Energy
	Hunger
	Hygiene
	Loyalty
)

// Resources lists every resource in declaration order.
var Resources = [...]Resource{Vitality, Energy, Hunger, Hygiene, Loyalty}

var resourceNames = [...]string{"vitality", "energy", "hunger", "hygiene", "loyalty"}

func (r Resource) String() string {
	if r < 0 || int(r) >= len(resourceNames) {
		return fmt.Sprintf("resource(%d)", int(r))
	}
	return resourceNames[r]
}

// Attribute is a character trait used by skillchecks and stat modifiers.
// None means "no check".
type Attribute int

const (
	None Attribute = iota
	Strength
	Accuracy
	Agility
	Toughness
	Charisma
)

// Attributes lists the checkable attributes (None excluded).
var Attributes = [...]Attribute{Strength, Accuracy, Agility, Toughness, Charisma}

var attributeNames = [...]string{"none", "strength", "accuracy", "agility", "toughness", "charisma"}

func (a Attribute) String() string {
	if a < 0 || int(a) >= len(attributeNames) {
		return fmt.Sprintf("attribute(%d)", int(a))
	}
	return attributeNames[a]
}

// ParseAttribute resolves a case-insensitive attribute name. The empty
// string parses as None.
func ParseAttribute(s string) (Attribute, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for i, n := range attributeNames {
		if n == s {
			return Attribute(i), nil
		}
	}
	return None, fmt.Errorf("stats.ParseAttribute: unknown attribute %q", s)
}
