package usecase

import (
	"context"
	"strings"

	"github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/pkg/e"
)

const productImagesPrefix = "products"

// ImageUseCase загружает изображения товаров в объектное хранилище.
type ImageUseCase struct {
	imagesInfra ImagesInfra
	cfg         *cfg.MinIOCfg
}

func NewImageUC(imagesInfra ImagesInfra, cfg *cfg.MinIOCfg) *ImageUseCase {
	return &ImageUseCase{
		imagesInfra: imagesInfra,
		cfg:         cfg,
	}
}

// UploadImage проверяет тип и размер файла, загружает его и возвращает публичный URL.
func (i *ImageUseCase) UploadImage(ctx context.Context, image *ProductImage) (*UploadImageRes, error) {
	const op = "ImageUseCase.UploadImage"

	if image == nil || len(image.Data) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	if !strings.HasPrefix(image.MimeType, "image/") {
		return nil, e.Wrap(op, e.ErrUnsupportedMediaType)
	}

	if image.Size > i.cfg.MaxImageSize || int64(len(image.Data)) > i.cfg.MaxImageSize {
		return nil, e.Wrap(op, e.ErrFileTooLarge)
	}

	res, err := i.imagesInfra.UploadImages(ctx, NewUploadImagesReq(productImagesPrefix, []ProductImage{*image}))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.ImagesKeys) != 1 {
		i.imagesInfra.CleanupImages(res.ImagesKeys)
		return nil, e.Wrap(op, e.ErrInternalServerError)
	}

	key := res.ImagesKeys[0]
	return &UploadImageRes{
		Key: key,
		URL: i.cfg.PublicBaseURL + "/" + key,
	}, nil
}
