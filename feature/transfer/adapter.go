package transfer

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// Adapter is the batch entry point. Send opens exactly one repository
// transaction, reconciles every object in order and commits only when all of
// them succeed; the first error rolls the whole batch back and propagates
// unchanged.
type Adapter struct {
	repo   repository.Repository
	logger *zap.Logger
	user   string
}

// NewAdapter creates an adapter. A non-empty user login is impersonated
// before each batch.
func NewAdapter(repo repository.Repository, logger *zap.Logger, user string) *Adapter {
	return &Adapter{repo: repo, logger: logger, user: user}
}

// Send reconciles the batch. The result holds the same objects in the same
// order, now carrying repository-assigned ids, with a nil slot wherever the
// action was Skip.
func (a *Adapter) Send(ctx context.Context, batch []objects.Object) ([]objects.Object, error) {
	if a.user != "" {
		if err := a.repo.SetCurrentUser(ctx, a.user); err != nil {
			return nil, fmt.Errorf("impersonate %q: %w", a.user, err)
		}
	}
	tx, err := a.repo.Begin(ctx)
	if err != nil {
		return nil, err
	}

	svc := NewObjectService(tx, a.logger)
	trees := NewTreeService(tx, a.logger, svc)

	results := make([]objects.Object, len(batch))
	for i, obj := range batch {
		result, err := a.process(ctx, svc, trees, obj)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				a.logger.Error("rollback failed", zap.Error(rbErr))
			}
			return nil, fmt.Errorf("object %d (%s): %w", i, obj.Kind(), err)
		}
		results[i] = result
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	a.logger.Info("batch committed", zap.Int("objects", len(batch)))
	return results, nil
}

func (a *Adapter) process(ctx context.Context, svc *ObjectService, trees *TreeService, obj objects.Object) (objects.Object, error) {
	switch obj.DesiredAction() {
	case objects.ActionSkip:
		return nil, nil
	case objects.ActionDelete:
		if tree, ok := obj.(*objects.TreeObject); ok {
			if _, err := trees.Remove(ctx, tree); err != nil {
				return nil, err
			}
			return obj, nil
		}
		if _, err := svc.Remove(ctx, obj); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		if tree, ok := obj.(*objects.TreeObject); ok {
			if err := trees.Publish(ctx, tree); err != nil {
				return nil, err
			}
			return obj, nil
		}
		if err := svc.CreateOrUpdate(ctx, obj); err != nil {
			return nil, err
		}
		return obj, nil
	}
}
