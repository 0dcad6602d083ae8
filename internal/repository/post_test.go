package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"plume/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	post := &models.Post{Text: "first light", AuthorID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "text", "published_at", "author_id", "group_id"}).
		AddRow(5, "hello", now, 101, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1 ORDER BY "posts"."id" LIMIT $2`)).
		WithArgs(5, 1).
		WillReturnRows(rows)

	// Preload Author; Group preload is skipped for a NULL group_id.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(101, "leo"))

	post, err := repo.GetByID(ctx, 5)
	assert.NoError(t, err)
	assert.Equal(t, "hello", post.Text)
	assert.Equal(t, "leo", post.Author.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE "posts"."id" = $1`)).
		WithArgs(99, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	post, err := repo.GetByID(ctx, 99)
	assert.Nil(t, post)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	newer := time.Now()
	older := newer.Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "text", "published_at", "author_id", "group_id"}).
		AddRow(2, "newer", newer, 101, nil).
		AddRow(1, "older", older, 101, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" ORDER BY published_at DESC LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(rows)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(101).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(101, "leo"))

	posts, err := repo.List(ctx, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Count(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.Count(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListFollowing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "text", "published_at", "author_id", "group_id"}).
		AddRow(3, "from a followed author", time.Now(), 201, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "posts" WHERE author_id IN (SELECT author_id FROM "follows" WHERE user_id = $1) ORDER BY published_at DESC LIMIT $2`)).
		WithArgs(1, 10).
		WillReturnRows(rows)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
		WithArgs(201).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(201, "followed"))

	posts, err := repo.ListFollowing(ctx, 1, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, uint(201), posts[0].AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts" WHERE "posts"."id" = $1`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 99)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
