package service

import (
	"database/sql"
	"errors"
	"fmt"

	"go-banner-api/model"
	"go-banner-api/repository"
)

// BannerService handles banner business logic, including the lifecycle of the
// stored image files: a banner's image is deleted when it is replaced or when
// the banner itself is removed, and a freshly uploaded file is cleaned up
// again if the database write fails.
type BannerService struct {
	repo  repository.IBannerRepository
	store *UploadStore
}

func NewBannerService(repo repository.IBannerRepository, store *UploadStore) *BannerService {
	return &BannerService{repo: repo, store: store}
}

func (s *BannerService) GetAllBanners() ([]*model.Banner, error) {
	return s.repo.GetAllBanners()
}

func (s *BannerService) GetBannerByID(id int) (*model.Banner, error) {
	banner, err := s.repo.GetBannerByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBannerNotFound
		}
		return nil, fmt.Errorf("loading banner: %w", err)
	}
	return banner, nil
}

// CreateBanner persists a banner whose image has already been stored under
// imageURL. If the insert fails the stored file is removed again.
func (s *BannerService) CreateBanner(req model.BannerRequest, imageURL string) (*model.Banner, error) {
	banner := &model.Banner{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    imageURL,
		Link:        req.Link,
		IsActive:    req.IsActive,
	}

	if err := s.repo.CreateBanner(banner); err != nil {
		s.store.Remove(imageURL)
		return nil, fmt.Errorf("creating banner: %w", err)
	}
	return banner, nil
}

// UpdateBanner applies a partial update. When a replacement image is part of
// the update, the old file is removed on success; on any failure the newly
// uploaded file is removed instead, leaving the banner untouched.
func (s *BannerService) UpdateBanner(id int, upd model.BannerUpdate) (*model.Banner, error) {
	banner, err := s.repo.GetBannerByID(id)
	if err != nil {
		if upd.ImageURL != nil {
			s.store.Remove(*upd.ImageURL)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBannerNotFound
		}
		return nil, fmt.Errorf("loading banner: %w", err)
	}

	oldImageURL := banner.ImageURL

	if upd.Title != nil {
		banner.Title = *upd.Title
	}
	if upd.Description != nil {
		banner.Description = *upd.Description
	}
	if upd.Link != nil {
		banner.Link = *upd.Link
	}
	if upd.IsActive != nil {
		banner.IsActive = *upd.IsActive
	}
	if upd.ImageURL != nil {
		banner.ImageURL = *upd.ImageURL
	}

	if err := s.repo.UpdateBanner(banner); err != nil {
		if upd.ImageURL != nil {
			s.store.Remove(*upd.ImageURL)
		}
		return nil, fmt.Errorf("updating banner: %w", err)
	}

	if upd.ImageURL != nil && oldImageURL != *upd.ImageURL {
		s.store.Remove(oldImageURL)
	}
	return banner, nil
}

// DeleteBanner removes the banner row and its stored image file.
func (s *BannerService) DeleteBanner(id int) error {
	banner, err := s.repo.GetBannerByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBannerNotFound
		}
		return fmt.Errorf("loading banner: %w", err)
	}

	if err := s.repo.DeleteBanner(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBannerNotFound
		}
		return fmt.Errorf("deleting banner: %w", err)
	}

	s.store.Remove(banner.ImageURL)
	return nil
}
