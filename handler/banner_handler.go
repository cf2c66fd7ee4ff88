package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go-banner-api/common"
	"go-banner-api/logger"
	"go-banner-api/model"
	"go-banner-api/service"
)

// bannerImageField is the multipart form field carrying the image file.
const bannerImageField = "bannerImage"

type BannerHandler struct {
	service *service.BannerService
	store   *service.UploadStore
}

func NewBannerHandler(bannerService *service.BannerService, store *service.UploadStore) *BannerHandler {
	return &BannerHandler{service: bannerService, store: store}
}

// ListBanners godoc
// @Summary      List all banners
// @Tags         banners
// @Produce      json
// @Success      200  {array}  model.Banner
// @Router       /api/banners [get]
func (h *BannerHandler) ListBanners(w http.ResponseWriter, r *http.Request) *common.AppError {
	banners, err := h.service.GetAllBanners()
	if err != nil {
		return appErrorFrom(err, "Could not retrieve banners")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(banners)
	return nil
}

// GetBanner godoc
// @Summary      Get a banner by id
// @Tags         banners
// @Produce      json
// @Param        id path int true "Banner ID"
// @Success      200  {object}  model.Banner
// @Failure      404  {object}  common.AppError
// @Router       /api/banners/{id} [get]
func (h *BannerHandler) GetBanner(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid banner id", nil)
	}

	banner, svcErr := h.service.GetBannerByID(id)
	if svcErr != nil {
		return appErrorFrom(svcErr, "Could not retrieve banner")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(banner)
	return nil
}

// CreateBanner godoc
// @Summary      Create a banner
// @Description  Admin only. Multipart form with a required bannerImage file plus title, description, link and isActive fields.
// @Tags         banners
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        bannerImage formData file   true  "Banner image"
// @Param        title       formData string true  "Title"
// @Param        description formData string false "Description"
// @Param        link        formData string false "Target link"
// @Param        isActive    formData bool   false "Visibility flag"
// @Success      201  {object}  model.Banner
// @Failure      400  {object}  common.AppError
// @Router       /api/banners [post]
func (h *BannerHandler) CreateBanner(w http.ResponseWriter, r *http.Request) *common.AppError {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid multipart form", nil)
	}

	file, fileHeader, err := r.FormFile(bannerImageField)
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "No image file uploaded", nil)
	}
	defer file.Close()

	req := model.BannerRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Link:        r.FormValue("link"),
		IsActive:    r.FormValue("isActive") != "false",
	}
	if !common.ValidateStruct(w, &req) {
		return nil
	}

	imageURL, err := h.store.SaveImage(file, fileHeader.Filename, fileHeader.Size)
	if err != nil {
		return appErrorFrom(err, "Could not store banner image")
	}

	banner, svcErr := h.service.CreateBanner(req, imageURL)
	if svcErr != nil {
		return appErrorFrom(svcErr, "Could not create banner")
	}

	logger.Log.WithField("banner_id", banner.ID).Info("Banner created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(banner)
	return nil
}

// UpdateBanner godoc
// @Summary      Update a banner
// @Description  Admin only. All fields optional; a new bannerImage replaces (and deletes) the old file.
// @Tags         banners
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id          path     int    true  "Banner ID"
// @Param        bannerImage formData file   false "Replacement image"
// @Param        title       formData string false "Title"
// @Param        description formData string false "Description"
// @Param        link        formData string false "Target link"
// @Param        isActive    formData bool   false "Visibility flag"
// @Success      200  {object}  model.Banner
// @Failure      404  {object}  common.AppError
// @Router       /api/banners/{id} [put]
func (h *BannerHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid banner id", nil)
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid multipart form", nil)
	}

	upd := model.BannerUpdate{}
	if values, ok := r.MultipartForm.Value["title"]; ok && len(values) > 0 {
		upd.Title = &values[0]
	}
	if values, ok := r.MultipartForm.Value["description"]; ok && len(values) > 0 {
		upd.Description = &values[0]
	}
	if values, ok := r.MultipartForm.Value["link"]; ok && len(values) > 0 {
		upd.Link = &values[0]
	}
	if values, ok := r.MultipartForm.Value["isActive"]; ok && len(values) > 0 {
		isActive := values[0] == "true"
		upd.IsActive = &isActive
	}

	if file, fileHeader, err := r.FormFile(bannerImageField); err == nil {
		defer file.Close()
		imageURL, saveErr := h.store.SaveImage(file, fileHeader.Filename, fileHeader.Size)
		if saveErr != nil {
			return appErrorFrom(saveErr, "Could not store banner image")
		}
		upd.ImageURL = &imageURL
	}

	banner, svcErr := h.service.UpdateBanner(id, upd)
	if svcErr != nil {
		return appErrorFrom(svcErr, "Could not update banner")
	}

	logger.Log.WithField("banner_id", banner.ID).Info("Banner updated")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(banner)
	return nil
}

// DeleteBanner godoc
// @Summary      Delete a banner
// @Description  Admin only. Removes the banner and its stored image file.
// @Tags         banners
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Banner ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError
// @Router       /api/banners/{id} [delete]
func (h *BannerHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid banner id", nil)
	}

	if svcErr := h.service.DeleteBanner(id); svcErr != nil {
		return appErrorFrom(svcErr, "Could not delete banner")
	}

	logger.Log.WithField("banner_id", id).Info("Banner deleted")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Banner deleted successfully"})
	return nil
}
