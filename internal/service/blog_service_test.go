package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
)

type mockBlogRepo struct {
	posts     map[string]*models.BlogPost
	slugIndex map[string]string
	comments  []models.BlogComment
}

func (m *mockBlogRepo) List(ctx context.Context, filter models.BlogPostFilter) ([]models.BlogPost, int, error) {
	out := make([]models.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *mockBlogRepo) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	if p, ok := m.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockBlogRepo) FindBySlug(ctx context.Context, slug string) (*models.BlogPostDetail, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return &models.BlogPostDetail{BlogPost: *p}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockBlogRepo) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	if owner, ok := m.slugIndex[slug]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockBlogRepo) Create(ctx context.Context, post *models.BlogPost) error {
	if m.posts == nil {
		m.posts = make(map[string]*models.BlogPost)
	}
	if post.ID == "" {
		post.ID = "generated"
	}
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *mockBlogRepo) Update(ctx context.Context, post *models.BlogPost) error {
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *mockBlogRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.posts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.posts, id)
	return nil
}

func (m *mockBlogRepo) CreateComment(ctx context.Context, comment *models.BlogComment) error {
	comment.ID = "comment-1"
	m.comments = append(m.comments, *comment)
	return nil
}

func validBlogPostRequest() CreateBlogPostRequest {
	return CreateBlogPostRequest{
		Slug:      "reussir-le-tef",
		Title:     "Comment reussir le TEF",
		Excerpt:   "Nos conseils pour le jour J",
		Content:   "Un guide complet pour preparer l'examen en trois mois.",
		Author:    "Equipe PrepaTEF",
		Published: true,
	}
}

func TestBlogServiceCreate(t *testing.T) {
	repo := &mockBlogRepo{}
	service := NewBlogService(repo, nil, nil, nil)

	post, err := service.Create(context.Background(), validBlogPostRequest())
	require.NoError(t, err)
	assert.Equal(t, "reussir-le-tef", post.Slug)
	assert.Len(t, repo.posts, 1)
}

func TestBlogServiceCreateRejectsBadSlug(t *testing.T) {
	service := NewBlogService(&mockBlogRepo{}, nil, nil, nil)

	for _, slug := range []string{"Bad Slug", "UPPER", "trailing-", "-leading", "double--dash", "accentué"} {
		req := validBlogPostRequest()
		req.Slug = slug
		_, err := service.Create(context.Background(), req)
		require.Error(t, err, "slug %q should be rejected", slug)
		appErr := appErrors.FromError(err)
		assert.Equal(t, http.StatusBadRequest, appErr.Status)
	}
}

func TestBlogServiceCreateAcceptsValidSlugs(t *testing.T) {
	service := NewBlogService(&mockBlogRepo{}, nil, nil, nil)

	for _, slug := range []string{"a", "tef-canada-2026", "100-jours"} {
		req := validBlogPostRequest()
		req.Slug = slug
		_, err := service.Create(context.Background(), req)
		require.NoError(t, err, "slug %q should be accepted", slug)
	}
}

func TestBlogServiceCreateSlugConflict(t *testing.T) {
	repo := &mockBlogRepo{slugIndex: map[string]string{"reussir-le-tef": "other"}}
	service := NewBlogService(repo, nil, nil, nil)

	_, err := service.Create(context.Background(), validBlogPostRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestBlogServiceDraftHiddenFromPublic(t *testing.T) {
	repo := &mockBlogRepo{posts: map[string]*models.BlogPost{
		"p1": {ID: "p1", Slug: "brouillon", Title: "Brouillon", Published: false},
	}}
	service := NewBlogService(repo, nil, nil, nil)

	_, err := service.GetPublishedBySlug(context.Background(), "brouillon")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)

	// The back office still sees the draft by id.
	post, err := service.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.False(t, post.Published)
}

func TestBlogServicePublicListFiltersDrafts(t *testing.T) {
	repo := &mockBlogRepo{posts: map[string]*models.BlogPost{
		"p1": {ID: "p1", Slug: "publie", Published: true},
		"p2": {ID: "p2", Slug: "brouillon", Published: false},
	}}
	service := NewBlogService(repo, nil, nil, nil)

	posts, pagination, err := service.List(context.Background(), BlogPostListRequest{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestBlogServiceAddComment(t *testing.T) {
	repo := &mockBlogRepo{posts: map[string]*models.BlogPost{
		"p1": {ID: "p1", Slug: "publie", Published: true},
	}}
	service := NewBlogService(repo, nil, nil, nil)

	comment, err := service.AddComment(context.Background(), "publie", CreateCommentRequest{
		Name:    "Karim",
		Comment: "Article tres utile, merci!",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", comment.PostID)
	assert.Len(t, repo.comments, 1)
}

func TestBlogServiceAddCommentOnDraft(t *testing.T) {
	repo := &mockBlogRepo{posts: map[string]*models.BlogPost{
		"p1": {ID: "p1", Slug: "brouillon", Published: false},
	}}
	service := NewBlogService(repo, nil, nil, nil)

	_, err := service.AddComment(context.Background(), "brouillon", CreateCommentRequest{
		Name:    "Karim",
		Comment: "Premier!",
	})
	require.Error(t, err)
	assert.Empty(t, repo.comments)
}
