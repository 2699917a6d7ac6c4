// Package mention resolves free text and pasted marketplace links into
// typed entities that can be mentioned inside a document.
package mention

import "fmt"

// Type tags what kind of record a mention points at.
type Type string

const (
	TypeMember      Type = "member"
	TypeReview      Type = "review"
	TypeMembership  Type = "membership"
	TypeGroup       Type = "group"
	TypeCollection  Type = "collection"
	TypeUser        Type = "user"
	TypeReward      Type = "reward"
	TypeAsset       Type = "asset"
	TypeQuality     Type = "quality"
	TypeTag         Type = "tag"
	TypeArticle     Type = "article"
	TypeLeaderboard Type = "leaderboard"
	TypeBuyer       Type = "buyer"
)

var knownTypes = map[Type]struct{}{
	TypeMember: {}, TypeReview: {}, TypeMembership: {}, TypeGroup: {},
	TypeCollection: {}, TypeUser: {}, TypeReward: {}, TypeAsset: {},
	TypeQuality: {}, TypeTag: {}, TypeArticle: {}, TypeLeaderboard: {},
	TypeBuyer: {},
}

// ParseType validates a raw type tag.
func ParseType(raw string) (Type, error) {
	t := Type(raw)
	if _, ok := knownTypes[t]; !ok {
		return "", fmt.Errorf("unknown mention type %q", raw)
	}
	return t, nil
}

// Valid reports whether t belongs to the closed set of mention types.
func (t Type) Valid() bool {
	_, ok := knownTypes[t]
	return ok
}

// Entity is one resolved mention candidate. An empty URL means the record
// has no canonical page.
type Entity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  Type   `json:"type"`
	URL   string `json:"url"`
}

// DisplayLabel is the label, or the id when the label is empty.
func (e Entity) DisplayLabel() string {
	if e.Label != "" {
		return e.Label
	}
	return e.ID
}
