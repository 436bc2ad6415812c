package transfer

import (
	"context"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/core/storage"
	"content-transfer/feature/transfer/objects"
)

// Service ties the batch loader and the adapter together for the HTTP
// handler and the CLI.
type Service struct {
	adapter *Adapter
	loader  *Loader
	logger  *zap.Logger
}

// NewService creates a transfer service. A non-empty user login is
// impersonated for every batch.
func NewService(repo repository.Repository, logger *zap.Logger, user string) *Service {
	return &Service{
		adapter: NewAdapter(repo, logger, user),
		loader:  NewLoader(),
		logger:  logger,
	}
}

// Send reconciles an already decoded batch.
func (s *Service) Send(ctx context.Context, batch []objects.Object) ([]objects.Object, error) {
	return s.adapter.Send(ctx, batch)
}

// SendRaw decodes and reconciles a raw batch definition.
func (s *Service) SendRaw(ctx context.Context, data []byte, asYAML bool) ([]objects.Object, error) {
	batch, err := s.loader.Decode(data, asYAML)
	if err != nil {
		return nil, err
	}
	return s.adapter.Send(ctx, batch)
}

// SendFile loads a batch definition from the local filesystem and
// reconciles it.
func (s *Service) SendFile(ctx context.Context, path string) ([]objects.Object, error) {
	batch, err := s.loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.adapter.Send(ctx, batch)
}

// SendBucketObject loads a batch definition from an S3-compatible bucket and
// reconciles it.
func (s *Service) SendBucketObject(ctx context.Context, client storage.Client, bucket, object string) ([]objects.Object, error) {
	batch, err := s.loader.LoadBucketObject(ctx, client, bucket, object)
	if err != nil {
		return nil, err
	}
	return s.adapter.Send(ctx, batch)
}
