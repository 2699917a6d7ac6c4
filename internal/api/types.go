package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// QueryParams holds URL query string values.
type QueryParams map[string]string

// --- Localized Text ---

// LocalizedText is a locale-keyed JSON object like {"FR_FR": "..."}.
// Key order is kept as sent so the first available value is stable.
type LocalizedText struct {
	Keys   []string
	Values map[string]string
}

func (l *LocalizedText) UnmarshalJSON(data []byte) error {
	l.Keys = nil
	l.Values = map[string]string{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("localized text: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value *string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("localized text %q: %w", key, err)
		}
		if _, seen := l.Values[key]; !seen {
			l.Keys = append(l.Keys, key)
		}
		if value != nil {
			l.Values[key] = *value
		} else {
			l.Values[key] = ""
		}
	}
	_, err = dec.Token()
	return err
}

func (l LocalizedText) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range l.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(key)
		v, _ := json.Marshal(l.Values[key])
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Pick returns the value for locale, else the first non-empty value.
func (l LocalizedText) Pick(locale string) string {
	if v := l.Values[locale]; v != "" {
		return v
	}
	for _, key := range l.Keys {
		if v := l.Values[key]; v != "" {
			return v
		}
	}
	return ""
}

// --- Shared Shapes ---

// Owner is the member owning a review, collection or membership.
type Owner struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NamedRef is a nested record that only carries a display name.
type NamedRef struct {
	Name string `json:"name"`
}

// SlugRef is a nested record that only carries a slug.
type SlugRef struct {
	Slug string `json:"slug"`
}

// --- Records ---

// MemberRecord is a marketplace member.
type MemberRecord struct {
	Name     string `json:"name"`
	PublicID string `json:"public_id"`
	Slug     string `json:"slug"`
}

// TagRecord is a service tag, optionally nested under a parent tag.
type TagRecord struct {
	Label    LocalizedText `json:"label"`
	PublicID string        `json:"public_id"`
	Slug     string        `json:"slug"`
	Parent   *SlugRef      `json:"parent"`
}

// OrganizationGroupRecord is a buyer organization group.
type OrganizationGroupRecord struct {
	Parent   *NamedRef `json:"parent"`
	PublicID string    `json:"public_id"`
}

// Contact is the reviewer side of an endorsement.
type Contact struct {
	FullName string    `json:"full_name"`
	Account  *NamedRef `json:"account"`
}

// EndorsementRecord is a review left on a member profile.
type EndorsementRecord struct {
	Contact       *Contact  `json:"contact"`
	PublicID      string    `json:"public_id"`
	Owner         Owner     `json:"owner"`
	PublicAccount *NamedRef `json:"public_account"`
}

// PageMetadata is one localized metadata entry of a marketplace page.
type PageMetadata struct {
	Title string `json:"title"`
}

// Marketplace page kinds.
const (
	PageKindArticle     = "ARTICLE"
	PageKindLeaderboard = "LEADERBOARD"
)

// MarketplacePageRecord is an article or leaderboard page.
type MarketplacePageRecord struct {
	Kind              string         `json:"kind"`
	PublicID          string         `json:"public_id"`
	Slug              string         `json:"slug"`
	Title             string         `json:"title"`
	LocalizedMetadata []PageMetadata `json:"localized_metadata"`
}

// CollectionRecord is a curated member collection.
type CollectionRecord struct {
	Title    LocalizedText `json:"title"`
	PublicID string        `json:"public_id"`
	Owner    Owner         `json:"owner"`
}

// MembershipRecord is a person listed on a member's culture page.
type MembershipRecord struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	PublicID  string `json:"public_id"`
	Owner     Owner  `json:"owner"`
}

// --- Envelopes ---

// SearchResponse is the grouped payload of /mentions/search.
type SearchResponse struct {
	Members            []MemberRecord            `json:"search_members"`
	Tags               []TagRecord               `json:"search_tags"`
	OrganizationGroups []OrganizationGroupRecord `json:"search_organization_groups"`
	Endorsements       []EndorsementRecord       `json:"search_endorsements"`
	MarketplacePages   []MarketplacePageRecord   `json:"search_marketplace_pages"`
	MemberCollections  []CollectionRecord        `json:"search_members_collections"`
	Memberships        []MembershipRecord        `json:"search_memberships"`
}

type articleEnvelope struct {
	MarketplacePages []MarketplacePageRecord `json:"marketplace_pages"`
}

type memberEnvelope struct {
	Members []MemberRecord `json:"members"`
}

type tagEnvelope struct {
	Tags []TagRecord `json:"tags"`
}

type reviewEnvelope struct {
	Endorsements []EndorsementRecord `json:"endorsements"`
}
