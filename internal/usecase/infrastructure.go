package usecase

import "context"

// TxManager выполняет fn в транзакции БД. Репозитории берут транзакцию из контекста.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// EventEncoder сериализует payload события для outbox.
type EventEncoder interface {
	Encode(eventType OutboxEventType, aggregateID string, fields map[string]any) ([]byte, error)
}
