package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prepatef/prepatef-api/internal/service"
	appErrors "github.com/prepatef/prepatef-api/pkg/errors"
	"github.com/prepatef/prepatef-api/pkg/response"
)

// BlogHandler handles blog endpoints for both surfaces.
type BlogHandler struct {
	service *service.BlogService
}

// NewBlogHandler constructs a blog handler.
func NewBlogHandler(svc *service.BlogService) *BlogHandler {
	return &BlogHandler{service: svc}
}

// PublicList godoc
// @Summary List published blog posts
// @Tags Blog
// @Produce json
// @Param search query string false "Search keyword"
// @Param category query string false "Filter by category name"
// @Param tag query string false "Filter by tag name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /blog/posts [get]
func (h *BlogHandler) PublicList(c *gin.Context) {
	params := parsePageParams(c)
	posts, pagination, err := h.service.List(c.Request.Context(), service.BlogPostListRequest{
		Search:        searchQuery(c),
		Category:      c.Query("category"),
		Tag:           c.Query("tag"),
		PublishedOnly: true,
		Page:          params.Page,
		PageSize:      params.PageSize,
		SortBy:        params.SortBy,
		SortOrder:     params.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, pagination)
}

// PublicGet godoc
// @Summary Get a published post with its comments
// @Tags Blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} response.Envelope
// @Router /blog/posts/{slug} [get]
func (h *BlogHandler) PublicGet(c *gin.Context) {
	detail, err := h.service.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// AddComment godoc
// @Summary Add a comment to a published post
// @Tags Blog
// @Accept json
// @Produce json
// @Param slug path string true "Post slug"
// @Param payload body service.CreateCommentRequest true "Comment payload"
// @Success 201 {object} response.Envelope
// @Router /blog/posts/{slug}/comments [post]
func (h *BlogHandler) AddComment(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// List godoc
// @Summary List blog posts, drafts included
// @Tags Blog Admin
// @Produce json
// @Param search query string false "Search keyword"
// @Param category query string false "Filter by category name"
// @Param tag query string false "Filter by tag name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/blog/posts [get]
func (h *BlogHandler) List(c *gin.Context) {
	params := parsePageParams(c)
	posts, pagination, err := h.service.List(c.Request.Context(), service.BlogPostListRequest{
		Search:    searchQuery(c),
		Category:  c.Query("category"),
		Tag:       c.Query("tag"),
		Page:      params.Page,
		PageSize:  params.PageSize,
		SortBy:    params.SortBy,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, pagination)
}

// Get godoc
// @Summary Get a blog post by id
// @Tags Blog Admin
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Envelope
// @Router /admin/blog/posts/{id} [get]
func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// Create godoc
// @Summary Create a blog post
// @Tags Blog Admin
// @Accept json
// @Produce json
// @Param payload body service.CreateBlogPostRequest true "Post payload"
// @Success 201 {object} response.Envelope
// @Router /admin/blog/posts [post]
func (h *BlogHandler) Create(c *gin.Context) {
	var req service.CreateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	post, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// Update godoc
// @Summary Update a blog post
// @Tags Blog Admin
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param payload body service.UpdateBlogPostRequest true "Post payload"
// @Success 200 {object} response.Envelope
// @Router /admin/blog/posts/{id} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	var req service.UpdateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	post, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}

// Delete godoc
// @Summary Delete a blog post
// @Tags Blog Admin
// @Produce json
// @Param id path string true "Post ID"
// @Success 204
// @Router /admin/blog/posts/{id} [delete]
func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
