package mention

import (
	"fmt"
	"strings"

	"github.com/gravitrone/richtext/internal/api"
)

const hiddenName = "***"

// mapper turns raw API records into entities.
type mapper struct {
	marketplaceURL string
	locale         string
}

func (m mapper) link(format string, args ...any) string {
	return m.marketplaceURL + fmt.Sprintf(format, args...)
}

// flatten concatenates every search group in a fixed order, keeping the
// order inside each group.
func (m mapper) flatten(resp *api.SearchResponse) []Entity {
	if resp == nil {
		return nil
	}
	out := make([]Entity, 0,
		len(resp.Members)+len(resp.Tags)+len(resp.OrganizationGroups)+
			len(resp.Endorsements)+len(resp.MarketplacePages)+
			len(resp.MemberCollections)+len(resp.Memberships))

	for _, item := range resp.Members {
		out = append(out, m.member(item))
	}
	for _, item := range resp.Tags {
		out = append(out, m.tag(item))
	}
	for _, item := range resp.OrganizationGroups {
		out = append(out, m.buyer(item))
	}
	for _, item := range resp.Endorsements {
		out = append(out, m.review(item))
	}
	for _, item := range resp.MarketplacePages {
		if entity, ok := m.page(item); ok {
			out = append(out, entity)
		}
	}
	for _, item := range resp.MemberCollections {
		out = append(out, m.collection(item))
	}
	for _, item := range resp.Memberships {
		out = append(out, m.membership(item))
	}
	return out
}

func (m mapper) member(item api.MemberRecord) Entity {
	return Entity{
		ID:    item.PublicID,
		Label: item.Name,
		Type:  TypeMember,
		URL:   m.link("/profil/%s", item.Slug),
	}
}

func (m mapper) tag(item api.TagRecord) Entity {
	url := m.link("/membres/services/%s", item.Slug)
	if item.Parent != nil {
		url = m.link("/membres/%s/%s", item.Parent.Slug, item.Slug)
	}
	return Entity{
		ID:    item.PublicID,
		Label: item.Label.Pick(m.locale),
		Type:  TypeTag,
		URL:   url,
	}
}

func (m mapper) buyer(item api.OrganizationGroupRecord) Entity {
	label := ""
	if item.Parent != nil {
		label = item.Parent.Name
	}
	return Entity{
		ID:    item.PublicID,
		Label: label,
		Type:  TypeBuyer,
		URL:   m.link("/membres/clients/%s", item.PublicID),
	}
}

func (m mapper) review(item api.EndorsementRecord) Entity {
	return Entity{
		ID:    item.PublicID,
		Label: reviewLabel(item),
		Type:  TypeReview,
		URL:   m.link("/profil/%s/reference/%s", item.Owner.Slug, item.PublicID),
	}
}

// page maps articles and leaderboards; other page kinds are skipped.
func (m mapper) page(item api.MarketplacePageRecord) (Entity, bool) {
	label := item.Slug
	if len(item.LocalizedMetadata) > 0 && item.LocalizedMetadata[0].Title != "" {
		label = item.LocalizedMetadata[0].Title
	}
	entity := Entity{
		ID:    item.PublicID,
		Label: label,
		Type:  Type(strings.ToLower(item.Kind)),
	}
	switch item.Kind {
	case api.PageKindArticle:
		entity.URL = m.link("/articles/%s", item.Slug)
	case api.PageKindLeaderboard:
		entity.URL = m.link("/membres/leaderboards/%s", item.Slug)
	default:
		return Entity{}, false
	}
	return entity, true
}

func (m mapper) collection(item api.CollectionRecord) Entity {
	return Entity{
		ID:    item.PublicID,
		Label: fmt.Sprintf("[%s] %s", item.Owner.Name, item.Title.Pick(m.locale)),
		Type:  TypeCollection,
		URL:   m.link("/profil/%s/collection/%s", item.Owner.Slug, item.PublicID),
	}
}

func (m mapper) membership(item api.MembershipRecord) Entity {
	return Entity{
		ID:    item.PublicID,
		Label: fmt.Sprintf("[%s] %s %s", item.Owner.Name, item.FirstName, item.LastName),
		Type:  TypeMembership,
		URL:   m.link("/profil/%s/culture#%s", item.Owner.Slug, item.PublicID),
	}
}

// reviewLabel renders "[owner] contact @account", hiding missing names.
func reviewLabel(item api.EndorsementRecord) string {
	contact := hiddenName
	account := hiddenName
	if item.Contact != nil {
		if item.Contact.FullName != "" {
			contact = item.Contact.FullName
		}
		if item.Contact.Account != nil && item.Contact.Account.Name != "" {
			account = item.Contact.Account.Name
		}
	}
	if account == hiddenName && item.PublicAccount != nil && item.PublicAccount.Name != "" {
		account = item.PublicAccount.Name
	}
	return fmt.Sprintf("[%s] %s @%s", item.Owner.Name, contact, account)
}
