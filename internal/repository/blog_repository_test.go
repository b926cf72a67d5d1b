package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepatef/prepatef-api/internal/models"
)

func blogPostColumns() []string {
	return []string{"id", "slug", "title", "excerpt", "content", "author", "categories", "tags", "published", "created_at", "updated_at"}
}

func TestBlogRepositoryListPublished(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogPostRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(blogPostColumns()).
		AddRow("p1", "reussir-le-tef", "Réussir le TEF", "Extrait", "Contenu", "Marie", "{conseils}", "{tef-canada}", true, now, now)
	mock.ExpectQuery("FROM blog_posts WHERE 1=1 AND published = true ORDER BY created_at DESC LIMIT 20 OFFSET 0").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM blog_posts WHERE 1=1 AND published = true")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	posts, total, err := repo.List(context.Background(), models.BlogPostFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "reussir-le-tef", posts[0].Slug)
	assert.Equal(t, []string{"conseils"}, []string(posts[0].Categories))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRepositoryFindBySlug(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogPostRepository(db)

	now := time.Now()
	postRows := sqlmock.NewRows(blogPostColumns()).
		AddRow("p1", "reussir-le-tef", "Réussir le TEF", "Extrait", "Contenu", "Marie", "{conseils}", "{tef-canada}", true, now, now)
	mock.ExpectQuery("FROM blog_posts WHERE slug = ").
		WithArgs("reussir-le-tef").
		WillReturnRows(postRows)

	commentRows := sqlmock.NewRows([]string{"id", "post_id", "name", "comment", "created_at"}).
		AddRow("c1", "p1", "Karim", "Merci pour ces conseils", now)
	mock.ExpectQuery("FROM blog_comments WHERE post_id = ").
		WithArgs("p1").
		WillReturnRows(commentRows)

	detail, err := repo.FindBySlug(context.Background(), "reussir-le-tef")
	require.NoError(t, err)
	assert.Equal(t, "p1", detail.ID)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Karim", detail.Comments[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRepositoryCountReferencingName(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogPostRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM blog_posts WHERE $1 = ANY(categories)")).
		WithArgs("Conseils").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountReferencingName(context.Background(), "categories", "Conseils")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlogRepositoryCountRejectsUnknownColumn(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewBlogPostRepository(db)

	_, err := repo.CountReferencingName(context.Background(), "authors", "Marie")
	require.Error(t, err)
}
