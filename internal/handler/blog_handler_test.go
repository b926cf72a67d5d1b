package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/middleware"
	"github.com/prepatef/prepatef-api/internal/models"
	"github.com/prepatef/prepatef-api/internal/service"
)

type blogRepoStub struct {
	posts    map[string]*models.BlogPost
	comments []models.BlogComment
}

func (s *blogRepoStub) List(ctx context.Context, filter models.BlogPostFilter) ([]models.BlogPost, int, error) {
	out := []models.BlogPost{}
	for _, post := range s.posts {
		if filter.PublishedOnly && !post.Published {
			continue
		}
		out = append(out, *post)
	}
	return out, len(out), nil
}

func (s *blogRepoStub) FindByID(ctx context.Context, id string) (*models.BlogPost, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *post
	return &cp, nil
}

func (s *blogRepoStub) FindBySlug(ctx context.Context, slug string) (*models.BlogPostDetail, error) {
	for _, post := range s.posts {
		if post.Slug == slug {
			comments := []models.BlogComment{}
			for _, comment := range s.comments {
				if comment.PostID == post.ID {
					comments = append(comments, comment)
				}
			}
			return &models.BlogPostDetail{BlogPost: *post, Comments: comments}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *blogRepoStub) ExistsBySlug(ctx context.Context, slug string, excludeID string) (bool, error) {
	for _, post := range s.posts {
		if post.Slug == slug && post.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *blogRepoStub) Create(ctx context.Context, post *models.BlogPost) error {
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *blogRepoStub) Update(ctx context.Context, post *models.BlogPost) error {
	if _, ok := s.posts[post.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *post
	s.posts[post.ID] = &cp
	return nil
}

func (s *blogRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := s.posts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.posts, id)
	return nil
}

func (s *blogRepoStub) CreateComment(ctx context.Context, comment *models.BlogComment) error {
	s.comments = append(s.comments, *comment)
	return nil
}

func buildBlogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	repo := &blogRepoStub{posts: map[string]*models.BlogPost{
		"p1": {ID: "p1", Slug: "reussir-le-tef", Title: "Réussir le TEF", Excerpt: "Extrait", Content: "Contenu de l'article", Author: "Marie", Published: true},
		"p2": {ID: "p2", Slug: "brouillon", Title: "Brouillon", Excerpt: "Extrait", Content: "Contenu en cours", Author: "Marie", Published: false},
	}}
	h := NewBlogHandler(service.NewBlogService(repo, nil, nil, nil))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Test-Role"); role != "" {
			c.Set(middleware.ContextUserKey, &models.JWTClaims{
				UserID: "test-user",
				Role:   models.UserRole(role),
			})
		}
		c.Next()
	})

	blog := router.Group("/blog")
	blog.GET("/posts", h.PublicList)
	blog.GET("/posts/:slug", h.PublicGet)
	blog.POST("/posts/:slug/comments", h.AddComment)

	admin := router.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
	admin.DELETE("/blog/posts/:id", h.Delete)

	return router
}

func TestBlogRoutes(t *testing.T) {
	router := buildBlogRouter()

	t.Run("public list hides drafts", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/blog/posts", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), "reussir-le-tef")
		require.NotContains(t, resp.Body.String(), "brouillon")
	})

	t.Run("public get by slug", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/blog/posts/reussir-le-tef", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"comments"`)
	})

	t.Run("draft hidden from public detail", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/blog/posts/brouillon", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("comment on published post", func(t *testing.T) {
		payload := `{"name":"Karim","comment":"Très utile, merci"}`
		req, _ := http.NewRequest(http.MethodPost, "/blog/posts/reussir-le-tef/comments", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := performRequest(router, req)
		require.Equal(t, http.StatusCreated, resp.Code)
	})

	t.Run("delete requires admin", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/admin/blog/posts/p2", nil)
		req.Header.Set("X-Test-Role", string(models.RoleTeacher))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusForbidden, resp.Code)
	})

	t.Run("delete unauthenticated", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/admin/blog/posts/p2", nil)
		resp := performRequest(router, req)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	})

	t.Run("delete as admin", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, "/admin/blog/posts/p2", nil)
		req.Header.Set("X-Test-Role", string(models.RoleAdmin))
		resp := performRequest(router, req)
		require.Equal(t, http.StatusNoContent, resp.Code)
	})
}
