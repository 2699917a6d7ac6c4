package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMentionsDecodesGroups(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/mentions/search", r.URL.Path)
		assert.Equal(t, "acme corp", r.URL.Query().Get("search"))
		writeJSON(w, map[string]any{
			"search_members": []map[string]any{{"name": "Acme", "public_id": "m-1", "slug": "acme"}},
			"search_tags": []map[string]any{{
				"label":     map[string]any{"EN_US": "Design", "FR_FR": "Conception"},
				"public_id": "t-1",
				"slug":      "design",
				"parent":    map[string]any{"slug": "services"},
			}},
			"search_endorsements": []map[string]any{{
				"public_id": "r-1",
				"owner":     map[string]any{"name": "Acme", "slug": "acme"},
				"contact":   nil,
			}},
			"search_marketplace_pages": []map[string]any{{
				"kind":               "ARTICLE",
				"public_id":          "p-1",
				"slug":               "hello",
				"localized_metadata": []map[string]any{{"title": "Hello"}},
			}},
		})
	})

	resp, err := client.SearchMentions(context.Background(), "acme corp")
	require.NoError(t, err)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, "acme", resp.Members[0].Slug)
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "Conception", resp.Tags[0].Label.Pick("FR_FR"))
	require.NotNil(t, resp.Tags[0].Parent)
	assert.Equal(t, "services", resp.Tags[0].Parent.Slug)
	require.Len(t, resp.Endorsements, 1)
	assert.Nil(t, resp.Endorsements[0].Contact)
	require.Len(t, resp.MarketplacePages, 1)
	assert.Equal(t, PageKindArticle, resp.MarketplacePages[0].Kind)
	assert.Empty(t, resp.MemberCollections)
	assert.Empty(t, resp.Memberships)
}

func TestArticleBySlug(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/mentions/article", r.URL.Path)
		assert.Equal(t, "my-slug", r.URL.Query().Get("slug"))
		writeJSON(w, map[string]any{"marketplace_pages": []map[string]any{{"title": "My article", "public_id": "p-9"}}})
	})

	page, err := client.ArticleBySlug(context.Background(), "my-slug")
	require.NoError(t, err)
	assert.Equal(t, "My article", page.Title)
	assert.Equal(t, "p-9", page.PublicID)
}

func TestReviewByID(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rest/mentions/review", r.URL.Path)
		assert.Equal(t, "r-7", r.URL.Query().Get("id"))
		writeJSON(w, map[string]any{"endorsements": []map[string]any{{
			"public_id":      "r-7",
			"owner":          map[string]any{"name": "Acme"},
			"contact":        map[string]any{"full_name": "Jane Doe", "account": nil},
			"public_account": map[string]any{"name": "Globex"},
		}}})
	})

	review, err := client.ReviewByID(context.Background(), "r-7")
	require.NoError(t, err)
	require.NotNil(t, review.Contact)
	assert.Equal(t, "Jane Doe", review.Contact.FullName)
	assert.Nil(t, review.Contact.Account)
	require.NotNil(t, review.PublicAccount)
	assert.Equal(t, "Globex", review.PublicAccount.Name)
}

func TestLookupEmptyEnvelopeIsNotFound(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/rest/mentions/member":
			writeJSON(w, map[string]any{"members": []any{}})
		case "/api/rest/mentions/tag":
			writeJSON(w, map[string]any{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	_, err := client.MemberBySlug(context.Background(), "ghost")
	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "member", notFound.Kind)
	assert.Equal(t, "ghost", notFound.Key)

	_, err = client.TagBySlug(context.Background(), "ghost")
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "tag", notFound.Kind)
}
