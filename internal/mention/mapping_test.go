package mention

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/richtext/internal/api"
)

func TestReviewLabelFallbacks(t *testing.T) {
	owner := api.Owner{Name: "Acme", Slug: "acme"}

	cases := []struct {
		name string
		item api.EndorsementRecord
		want string
	}{
		{
			name: "no contact no public account",
			item: api.EndorsementRecord{Owner: owner},
			want: "[Acme] *** @***",
		},
		{
			name: "contact without account uses public account",
			item: api.EndorsementRecord{
				Owner:         owner,
				Contact:       &api.Contact{FullName: "Jane Doe"},
				PublicAccount: &api.NamedRef{Name: "Globex"},
			},
			want: "[Acme] Jane Doe @Globex",
		},
		{
			name: "contact account wins over public account",
			item: api.EndorsementRecord{
				Owner:         owner,
				Contact:       &api.Contact{FullName: "Jane Doe", Account: &api.NamedRef{Name: "Initech"}},
				PublicAccount: &api.NamedRef{Name: "Globex"},
			},
			want: "[Acme] Jane Doe @Initech",
		},
		{
			name: "empty names are hidden",
			item: api.EndorsementRecord{
				Owner:   owner,
				Contact: &api.Contact{FullName: "", Account: &api.NamedRef{Name: ""}},
			},
			want: "[Acme] *** @***",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reviewLabel(tc.item))
		})
	}
}

func TestFlattenNilResponse(t *testing.T) {
	assert.Nil(t, mapper{}.flatten(nil))
	assert.Empty(t, mapper{}.flatten(&api.SearchResponse{}))
}

func TestBuyerWithoutParentHasEmptyLabel(t *testing.T) {
	e := mapper{marketplaceURL: "https://m.test"}.buyer(api.OrganizationGroupRecord{PublicID: "g-1"})
	assert.Equal(t, "", e.Label)
	assert.Equal(t, "g-1", e.DisplayLabel())
}

func TestParseType(t *testing.T) {
	typ, err := ParseType("leaderboard")
	require.NoError(t, err)
	assert.Equal(t, TypeLeaderboard, typ)

	_, err = ParseType("landing")
	assert.Error(t, err)
}

func TestClassifyURL(t *testing.T) {
	rt, err := classifyURL("https://trustfolio.co/articles/my-slug/", "trustfolio.co")
	require.NoError(t, err)
	assert.Equal(t, route{kind: TypeArticle, key: "my-slug"}, rt)

	rt, err = classifyURL("https://app.trustfolio.co/membres/creatifs/design?ref=x", "trustfolio.co")
	require.NoError(t, err)
	assert.Equal(t, route{kind: TypeTag, key: "design"}, rt)

	_, err = classifyURL("https://trustfolio.co/membres/creatifs/design/extra", "trustfolio.co")
	assert.Error(t, err)
}

func TestResultCacheExpiresAndEvicts(t *testing.T) {
	now := time.Unix(0, 0)
	c := newResultCache(time.Second, 2)
	c.now = func() time.Time { return now }

	c.put("aaa", []Entity{{ID: "1"}})
	c.put("bbb", []Entity{{ID: "2"}})
	c.put("ccc", []Entity{{ID: "3"}})
	assert.Equal(t, 2, c.len())

	_, ok := c.get("aaa")
	assert.False(t, ok, "oldest entry evicted")
	items, ok := c.get("CCC")
	require.True(t, ok)
	assert.Equal(t, "3", items[0].ID)

	now = now.Add(2 * time.Second)
	_, ok = c.get("bbb")
	assert.False(t, ok, "entry expired")
}

func TestResultCacheDisabled(t *testing.T) {
	c := newResultCache(0, 0)
	c.put("aaa", []Entity{{ID: "1"}})
	_, ok := c.get("aaa")
	assert.False(t, ok)
}
