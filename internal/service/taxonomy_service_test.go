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

type mockCategoryRepo struct {
	items     map[string]*models.BlogCategory
	slugIndex map[string]string
	deleted   []string
}

func (m *mockCategoryRepo) List(ctx context.Context) ([]models.BlogCategory, error) {
	out := make([]models.BlogCategory, 0, len(m.items))
	for _, c := range m.items {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id string) (*models.BlogCategory, error) {
	if c, ok := m.items[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCategoryRepo) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	if owner, ok := m.slugIndex[slug]; ok {
		if excludeID == "" || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *models.BlogCategory) error {
	if m.items == nil {
		m.items = make(map[string]*models.BlogCategory)
	}
	if category.ID == "" {
		category.ID = "generated"
	}
	cp := *category
	m.items[category.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *models.BlogCategory) error {
	cp := *category
	m.items[category.ID] = &cp
	return nil
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockTagRepo struct {
	mockCategoryRepo
}

func (m *mockTagRepo) List(ctx context.Context) ([]models.BlogTag, error) {
	return nil, nil
}

func (m *mockTagRepo) FindByID(ctx context.Context, id string) (*models.BlogTag, error) {
	if c, ok := m.items[id]; ok {
		return &models.BlogTag{ID: c.ID, Name: c.Name, Slug: c.Slug}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTagRepo) Create(ctx context.Context, tag *models.BlogTag) error {
	return m.mockCategoryRepo.Create(ctx, &models.BlogCategory{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
}

func (m *mockTagRepo) Update(ctx context.Context, tag *models.BlogTag) error {
	return m.mockCategoryRepo.Update(ctx, &models.BlogCategory{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
}

type mockUsageCounter struct {
	counts map[string]int
}

func (m *mockUsageCounter) CountReferencingName(ctx context.Context, column, name string) (int, error) {
	return m.counts[column+":"+name], nil
}

func TestTaxonomyCreateCategory(t *testing.T) {
	repo := &mockCategoryRepo{}
	service := NewTaxonomyService(repo, &mockTagRepo{}, &mockUsageCounter{}, nil, nil, nil)

	category, err := service.CreateCategory(context.Background(), TaxonomyRequest{
		Name: "Conseils",
		Slug: "conseils",
	})
	require.NoError(t, err)
	assert.Equal(t, "Conseils", category.Name)
	assert.Len(t, repo.items, 1)
}

func TestTaxonomyCreateCategorySlugConflict(t *testing.T) {
	repo := &mockCategoryRepo{slugIndex: map[string]string{"conseils": "other"}}
	service := NewTaxonomyService(repo, &mockTagRepo{}, &mockUsageCounter{}, nil, nil, nil)

	_, err := service.CreateCategory(context.Background(), TaxonomyRequest{Name: "Conseils", Slug: "conseils"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestTaxonomyDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	repo := &mockCategoryRepo{items: map[string]*models.BlogCategory{
		"c1": {ID: "c1", Name: "Conseils", Slug: "conseils"},
	}}
	usage := &mockUsageCounter{counts: map[string]int{"categories:Conseils": 2}}
	service := NewTaxonomyService(repo, &mockTagRepo{}, usage, nil, nil, nil)

	err := service.DeleteCategory(context.Background(), "c1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Empty(t, repo.deleted)
}

func TestTaxonomyDeleteCategoryUnreferenced(t *testing.T) {
	repo := &mockCategoryRepo{items: map[string]*models.BlogCategory{
		"c1": {ID: "c1", Name: "Conseils", Slug: "conseils"},
	}}
	service := NewTaxonomyService(repo, &mockTagRepo{}, &mockUsageCounter{}, nil, nil, nil)

	err := service.DeleteCategory(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, repo.deleted)
}

func TestTaxonomyDeleteTagBlockedWhileReferenced(t *testing.T) {
	tags := &mockTagRepo{mockCategoryRepo: mockCategoryRepo{items: map[string]*models.BlogCategory{
		"t1": {ID: "t1", Name: "tef-canada", Slug: "tef-canada"},
	}}}
	usage := &mockUsageCounter{counts: map[string]int{"tags:tef-canada": 1}}
	service := NewTaxonomyService(&mockCategoryRepo{}, tags, usage, nil, nil, nil)

	err := service.DeleteTag(context.Background(), "t1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestTaxonomyUpdateCategoryNotFound(t *testing.T) {
	service := NewTaxonomyService(&mockCategoryRepo{}, &mockTagRepo{}, &mockUsageCounter{}, nil, nil, nil)

	_, err := service.UpdateCategory(context.Background(), "missing", TaxonomyRequest{Name: "Conseils", Slug: "conseils"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
