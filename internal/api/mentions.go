package api

import "context"

// --- Mention Lookups ---

// SearchMentions runs the grouped free-text search.
func (c *Client) SearchMentions(ctx context.Context, query string) (*SearchResponse, error) {
	data, err := c.get(ctx, buildQuery("/api/rest/mentions/search", QueryParams{"search": query}))
	if err != nil {
		return nil, err
	}
	return decodeInto[SearchResponse](data)
}

// ArticleBySlug fetches the marketplace page behind /articles/<slug>.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (*MarketplacePageRecord, error) {
	data, err := c.get(ctx, buildQuery("/api/rest/mentions/article", QueryParams{"slug": slug}))
	if err != nil {
		return nil, err
	}
	env, err := decodeInto[articleEnvelope](data)
	if err != nil {
		return nil, err
	}
	return first(env.MarketplacePages, "article", slug)
}

// MemberBySlug fetches the member behind /profil/<slug>.
func (c *Client) MemberBySlug(ctx context.Context, slug string) (*MemberRecord, error) {
	data, err := c.get(ctx, buildQuery("/api/rest/mentions/member", QueryParams{"slug": slug}))
	if err != nil {
		return nil, err
	}
	env, err := decodeInto[memberEnvelope](data)
	if err != nil {
		return nil, err
	}
	return first(env.Members, "member", slug)
}

// TagBySlug fetches the tag behind /membres/<parent>/<slug>.
func (c *Client) TagBySlug(ctx context.Context, slug string) (*TagRecord, error) {
	data, err := c.get(ctx, buildQuery("/api/rest/mentions/tag", QueryParams{"slug": slug}))
	if err != nil {
		return nil, err
	}
	env, err := decodeInto[tagEnvelope](data)
	if err != nil {
		return nil, err
	}
	return first(env.Tags, "tag", slug)
}

// ReviewByID fetches the endorsement behind /profil/<owner>/reference/<id>.
func (c *Client) ReviewByID(ctx context.Context, id string) (*EndorsementRecord, error) {
	data, err := c.get(ctx, buildQuery("/api/rest/mentions/review", QueryParams{"id": id}))
	if err != nil {
		return nil, err
	}
	env, err := decodeInto[reviewEnvelope](data)
	if err != nil {
		return nil, err
	}
	return first(env.Endorsements, "review", id)
}

func first[T any](items []T, kind, key string) (*T, error) {
	if len(items) == 0 {
		return nil, &NotFoundError{Kind: kind, Key: key}
	}
	return &items[0], nil
}
