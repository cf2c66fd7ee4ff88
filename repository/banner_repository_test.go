package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"go-banner-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newMockBannerRepo(t *testing.T) (*BannerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBannerRepository(db), mock
}

func TestBannerRepository_CreateBanner(t *testing.T) {
	repo, mock := newMockBannerRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO banners`)).
		WithArgs("Summer Sale", "desc", "/uploads/banners/x.png", "https://example.com", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))

	banner := &model.Banner{
		Title:       "Summer Sale",
		Description: "desc",
		ImageURL:    "/uploads/banners/x.png",
		Link:        "https://example.com",
		IsActive:    true,
	}
	err := repo.CreateBanner(banner)
	assert.NoError(t, err)
	assert.Equal(t, 1, banner.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBannerRepository_GetBannerByID_NotFound(t *testing.T) {
	repo, mock := newMockBannerRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, description, image_url, link, is_active, created_at, updated_at FROM banners WHERE id=$1`)).
		WithArgs(9).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBannerByID(9)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestBannerRepository_DeleteBanner(t *testing.T) {
	repo, mock := newMockBannerRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM banners WHERE id=$1`)).
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteBanner(9), sql.ErrNoRows)
}
