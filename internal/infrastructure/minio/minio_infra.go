package minio

import (
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plastyfilm/go-backend/internal/cfg"
	"github.com/plastyfilm/go-backend/internal/domain"
	"github.com/plastyfilm/go-backend/internal/infrastructure"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/jitter"
	"github.com/plastyfilm/go-backend/pkg/logger"
)

const (
	cleanupAttempts = 3
	cleanupTimeout  = 30 * time.Second
)

// MinioInfrastructure управляет загрузкой изображений товаров и компенсирующей очисткой в MinIO.
type MinioInfrastructure struct {
	imageRepo   usecase.ImageRepository
	cfg         *cfg.MinIOCfg
	logger      logger.Logger
	backoff     *jitter.Backoff
	shutdownCtx context.Context
	wg          sync.WaitGroup
}

func NewMinioInfrastructure(imageRepo usecase.ImageRepository, cfg *cfg.MinIOCfg, logger logger.Logger, shutdownCtx context.Context) *MinioInfrastructure {
	return &MinioInfrastructure{
		imageRepo:   imageRepo,
		cfg:         cfg,
		logger:      logger,
		backoff:     jitter.New(time.Second, 8*time.Second, jitter.DefaultFactor),
		shutdownCtx: shutdownCtx,
	}
}

// UploadImages загружает изображения параллельно, не более cfg.UploadImagesLimit одновременно.
// При первой ошибке отменяет остальные загрузки и в фоне удаляет уже загруженные объекты.
// Ключи возвращаются в порядке req.Images.
func (m *MinioInfrastructure) UploadImages(ctx context.Context, req *usecase.UploadImagesReq) (*usecase.UploadImagesRes, error) {
	const op = "MinioInfrastructure.UploadImages"

	if len(req.Images) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		idx int
		key string
		err error
	}

	resCh := make(chan result, len(req.Images))
	sem := make(chan struct{}, max(m.cfg.UploadImagesLimit, 1))

	var uploadWg sync.WaitGroup
	for idx, image := range req.Images {
		uploadWg.Add(1)
		go func() {
			defer uploadWg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				resCh <- result{idx: idx, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			ext, err := infrastructure.GetExtensionFromMIME(image.MimeType)
			if err != nil {
				resCh <- result{idx: idx, err: fmt.Errorf("invalid mime type %s for %s: %w", image.MimeType, image.Name, err)}
				return
			}

			imageID := uuid.NewString()
			objKey := path.Join(req.Prefix, imageID+"."+ext)
			newImage := domain.NewImage(imageID, m.cfg.BucketName, objKey, image.Data, image.MimeType)

			key, err := m.imageRepo.Upload(ctx, newImage)
			if err != nil {
				resCh <- result{idx: idx, err: fmt.Errorf("upload %s failed: %w", image.Name, err)}
				return
			}

			resCh <- result{idx: idx, key: key}
		}()
	}

	go func() {
		uploadWg.Wait()
		close(resCh)
	}()

	keys := make([]string, len(req.Images))
	uploaded := make([]string, 0, len(req.Images))
	var firstErr error

	for res := range resCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		keys[res.idx] = res.key
		uploaded = append(uploaded, res.key)
	}

	if firstErr != nil {
		m.CleanupImages(uploaded)
		return nil, e.Wrap(op, firstErr)
	}

	return usecase.NewUploadImagesRes(keys), nil
}

// CleanupImages запускает фоновую очистку указанных ключей MinIO
func (m *MinioInfrastructure) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	m.wg.Add(1)
	go m.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет объекты с экспоненциальной задержкой между попытками.
func (m *MinioInfrastructure) cleanupUploadedKeys(keys []string) {
	defer m.wg.Done()
	const op = "MinioInfrastructure.cleanupUploadedKeys"
	m.logger.Infof("%s: cleaning up %d uploaded key(s)", op, len(keys))

	ctx, cancel := context.WithTimeout(m.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := m.imageRepo.Delete(ctx, m.cfg.BucketName, key)
			if err == nil {
				break
			}

			if attempt == cleanupAttempts-1 {
				m.logger.Errorf(err, "%s: giving up on key=%s", op, key)
				break
			}

			if err := m.backoff.Sleep(ctx, attempt); err != nil {
				m.logger.Warnf("%s: interrupted by shutdown, key=%s", op, key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения фоновых очисток с учётом таймаута завершения приложения.
func (m *MinioInfrastructure) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("minio cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
