package repository

import (
	"database/sql"
	"go-banner-api/model"
)

// IBannerRepository defines the contract for banner persistence.
type IBannerRepository interface {
	CreateBanner(banner *model.Banner) error
	GetBannerByID(id int) (*model.Banner, error)
	GetAllBanners() ([]*model.Banner, error)
	UpdateBanner(banner *model.Banner) error
	DeleteBanner(id int) error
}

type BannerRepository struct {
	DB *sql.DB
}

func NewBannerRepository(db *sql.DB) *BannerRepository {
	return &BannerRepository{DB: db}
}

func (r *BannerRepository) CreateBanner(banner *model.Banner) error {
	query := `INSERT INTO banners (title, description, image_url, link, is_active)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query, banner.Title, banner.Description, banner.ImageURL, banner.Link, banner.IsActive).
		Scan(&banner.ID, &banner.CreatedAt, &banner.UpdatedAt)
}

func (r *BannerRepository) GetBannerByID(id int) (*model.Banner, error) {
	banner := &model.Banner{}
	query := `SELECT id, title, description, image_url, link, is_active, created_at, updated_at FROM banners WHERE id=$1`
	err := r.DB.QueryRow(query, id).Scan(&banner.ID, &banner.Title, &banner.Description,
		&banner.ImageURL, &banner.Link, &banner.IsActive, &banner.CreatedAt, &banner.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return banner, nil
}

func (r *BannerRepository) GetAllBanners() ([]*model.Banner, error) {
	query := `SELECT id, title, description, image_url, link, is_active, created_at, updated_at FROM banners ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []*model.Banner
	for rows.Next() {
		banner := &model.Banner{}
		if err := rows.Scan(&banner.ID, &banner.Title, &banner.Description,
			&banner.ImageURL, &banner.Link, &banner.IsActive, &banner.CreatedAt, &banner.UpdatedAt); err != nil {
			return nil, err
		}
		banners = append(banners, banner)
	}
	return banners, rows.Err()
}

func (r *BannerRepository) UpdateBanner(banner *model.Banner) error {
	query := `UPDATE banners SET title=$1, description=$2, image_url=$3, link=$4, is_active=$5, updated_at=NOW()
		WHERE id=$6 RETURNING updated_at`
	err := r.DB.QueryRow(query, banner.Title, banner.Description, banner.ImageURL,
		banner.Link, banner.IsActive, banner.ID).Scan(&banner.UpdatedAt)
	if err != nil {
		return err
	}
	return nil
}

func (r *BannerRepository) DeleteBanner(id int) error {
	result, err := r.DB.Exec(`DELETE FROM banners WHERE id=$1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
