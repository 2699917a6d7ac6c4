package mention

import (
	"net/url"
	"strings"

	"github.com/gravitrone/richtext/internal/api"
)

// SecureScheme is the prefix that switches a query to link classification.
const SecureScheme = "https://"

// route is the record a pasted link points at.
type route struct {
	kind Type
	key  string
}

type pathPattern struct {
	kind  Type
	shape []string // literal segments, "" for a captured one
	key   int      // index of the captured segment used for the lookup
}

// Ordered, first match wins. Shapes are exact so a longer path never
// falls through to a shorter pattern.
var pathPatterns = []pathPattern{
	{kind: TypeArticle, shape: []string{"articles", ""}, key: 1},
	{kind: TypeMember, shape: []string{"profil", ""}, key: 1},
	{kind: TypeTag, shape: []string{"membres", "", ""}, key: 2},
	{kind: TypeReview, shape: []string{"profil", "", "reference", ""}, key: 3},
}

// classifyURL maps a pasted marketplace link to the record it names.
func classifyURL(raw, marketplaceHost string) (route, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return route{}, &api.ParseError{Op: "parse url", Err: err}
	}
	if !hostMatches(u.Hostname(), marketplaceHost) {
		return route{}, &api.NotFoundError{Kind: "marketplace host", Key: u.Hostname()}
	}

	segments := splitPath(u.Path)
	for _, p := range pathPatterns {
		if !p.matches(segments) {
			continue
		}
		return route{kind: p.kind, key: segments[p.key]}, nil
	}
	return route{}, &api.NotFoundError{Kind: "link pattern", Key: u.Path}
}

func (p pathPattern) matches(segments []string) bool {
	if len(segments) != len(p.shape) {
		return false
	}
	for i, literal := range p.shape {
		if literal != "" && segments[i] != literal {
			return false
		}
	}
	return true
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// hostMatches accepts the marketplace host itself and its subdomains.
func hostMatches(host, marketplaceHost string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	want := strings.ToLower(marketplaceHost)
	if host == "" || want == "" {
		return false
	}
	return host == want || strings.HasSuffix(host, "."+want)
}
