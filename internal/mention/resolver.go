package mention

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/gravitrone/richtext/internal/api"
)

// MinQueryLength is the shortest query that triggers a lookup.
const MinQueryLength = 3

// Lookup is the backend the resolver queries. *api.Client satisfies it.
type Lookup interface {
	SearchMentions(ctx context.Context, query string) (*api.SearchResponse, error)
	ArticleBySlug(ctx context.Context, slug string) (*api.MarketplacePageRecord, error)
	MemberBySlug(ctx context.Context, slug string) (*api.MemberRecord, error)
	TagBySlug(ctx context.Context, slug string) (*api.TagRecord, error)
	ReviewByID(ctx context.Context, id string) (*api.EndorsementRecord, error)
}

// Options tunes a Resolver. Zero fields fall back to defaults.
type Options struct {
	MarketplaceURL  string
	MarketplaceHost string
	Locale          string
	Timeout         time.Duration
	CacheTTL        time.Duration
	CacheEntries    int
	Logger          *log.Logger
}

// Resolver turns a query into mention candidates. It never fails: every
// lookup or decoding error ends up as an empty result.
type Resolver struct {
	lookup  Lookup
	mapper  mapper
	host    string
	timeout time.Duration
	cache   *resultCache
	flight  singleflight.Group
	logger  *log.Logger
}

// NewResolver builds a resolver over lookup.
func NewResolver(lookup Lookup, opts Options) *Resolver {
	if opts.MarketplaceURL == "" {
		opts.MarketplaceURL = "https://trustfolio.dev"
	}
	if opts.MarketplaceHost == "" {
		opts.MarketplaceHost = "trustfolio.co"
	}
	if opts.Locale == "" {
		opts.Locale = "FR_FR"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{
		lookup: lookup,
		mapper: mapper{
			marketplaceURL: strings.TrimRight(opts.MarketplaceURL, "/"),
			locale:         opts.Locale,
		},
		host:    opts.MarketplaceHost,
		timeout: opts.Timeout,
		cache:   newResultCache(opts.CacheTTL, opts.CacheEntries),
		logger:  logger,
	}
}

// Resolve returns the candidates for query, or an empty slice.
func (r *Resolver) Resolve(ctx context.Context, query string) []Entity {
	if query == "" || utf8.RuneCountInString(query) < MinQueryLength {
		return nil
	}
	if items, ok := r.cache.get(query); ok {
		return items
	}

	// The shared lookup outlives any one caller so a closed session
	// cannot cancel it for the others waiting on the same query.
	ch := r.flight.DoChan(query, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		var (
			items []Entity
			err   error
		)
		if strings.HasPrefix(query, SecureScheme) {
			items, err = r.resolveURL(callCtx, query)
		} else {
			items, err = r.search(callCtx, query)
		}
		if err == nil {
			r.cache.put(query, items)
		}
		return items, err
	})

	select {
	case <-ctx.Done():
		r.logFailure(query, ctx.Err())
		return nil
	case res := <-ch:
		if res.Err != nil {
			r.logFailure(query, res.Err)
			return nil
		}
		return append([]Entity(nil), res.Val.([]Entity)...)
	}
}

func (r *Resolver) search(ctx context.Context, query string) ([]Entity, error) {
	resp, err := r.lookup.SearchMentions(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.mapper.flatten(resp), nil
}

// resolveURL looks up the single record a pasted link names.
func (r *Resolver) resolveURL(ctx context.Context, raw string) ([]Entity, error) {
	rt, err := classifyURL(raw, r.host)
	if err != nil {
		return nil, err
	}

	entity := Entity{Type: rt.kind, URL: raw}
	switch rt.kind {
	case TypeArticle:
		page, err := r.lookup.ArticleBySlug(ctx, rt.key)
		if err != nil {
			return nil, err
		}
		entity.ID, entity.Label = page.PublicID, page.Title
	case TypeMember:
		member, err := r.lookup.MemberBySlug(ctx, rt.key)
		if err != nil {
			return nil, err
		}
		entity.ID, entity.Label = member.PublicID, member.Name
	case TypeTag:
		tag, err := r.lookup.TagBySlug(ctx, rt.key)
		if err != nil {
			return nil, err
		}
		entity.ID, entity.Label = tag.PublicID, tag.Label.Pick(r.mapper.locale)
	case TypeReview:
		review, err := r.lookup.ReviewByID(ctx, rt.key)
		if err != nil {
			return nil, err
		}
		entity.ID, entity.Label = review.PublicID, reviewLabel(*review)
	}
	return []Entity{entity}, nil
}

func (r *Resolver) logFailure(query string, err error) {
	var (
		netErr   *api.NetworkError
		parseErr *api.ParseError
		notFound *api.NotFoundError
	)
	switch {
	case errors.As(err, &notFound):
		r.logger.Debug("mention lookup found nothing", "query", query, "err", err)
	case errors.Is(err, context.Canceled):
		r.logger.Debug("mention lookup canceled", "query", query)
	case errors.As(err, &netErr), errors.As(err, &parseErr):
		r.logger.Warn("mention lookup failed", "query", query, "err", err)
	default:
		r.logger.Error("mention lookup failed", "query", query, "err", err)
	}
}
