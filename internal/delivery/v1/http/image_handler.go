package http

import (
	"net/http"

	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

type ImageHandler struct {
	imageUsecase usecase.ImageUC
	maxImageSize int64
	logger       logger.Logger
}

func NewImageHandler(imageUsecase usecase.ImageUC, maxImageSize int64, logger logger.Logger) *ImageHandler {
	return &ImageHandler{imageUsecase: imageUsecase, maxImageSize: maxImageSize, logger: logger}
}

// uploadImage
//
//	@Summary		Загрузка изображения товара
//	@Description	Принимает jpeg, png, webp. Возвращает публичный URL для поля imageUrl товара.
//	@Tags			admin
//	@Security		BearerAuth
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Изображение"
//	@Success		201		{object}	ImageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Router			/admin/images [post]
func (i *ImageHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	const (
		formOverhead = 1 << 20
		maxMemory    = 16 << 20
	)

	r.Body = http.MaxBytesReader(w, r.Body, i.maxImageSize+formOverhead)

	if err := ensureMultipartForm(r, maxMemory); err != nil {
		respondError(i.logger, w, r, err)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		respondError(i.logger, w, r, e.ErrNoImages)
		return
	}

	image, err := readImage(files[0], i.maxImageSize)
	if err != nil {
		respondError(i.logger, w, r, err)
		return
	}

	res, err := i.imageUsecase.UploadImage(r.Context(), image)
	if err != nil {
		respondError(i.logger, w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, ImageResponse{Key: res.Key, URL: res.URL})
}
