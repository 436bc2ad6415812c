package transfer

import (
	"context"

	"go.uber.org/zap"

	"content-transfer/core/repository"
	"content-transfer/feature/transfer/objects"
)

// TreeService publishes tree-shaped object graphs: each node's content is
// reconciled first, then its placement under the parent node's location.
// Existing child locations are matched by content id before a new one is
// created, so republishing the same tree never duplicates locations.
type TreeService struct {
	repo    repository.Services
	logger  *zap.Logger
	objects *ObjectService
}

// NewTreeService creates a tree service sharing the given dispatch service's
// repository session.
func NewTreeService(repo repository.Services, logger *zap.Logger, objects *ObjectService) *TreeService {
	return &TreeService{repo: repo, logger: logger, objects: objects}
}

// Publish reconciles the whole tree. The root's parent location comes from
// the tree object itself; every deeper node hangs off the location resolved
// for the node above it. Any failure aborts the remaining recursion and
// propagates; rollback is the enclosing transaction's job.
func (s *TreeService) Publish(ctx context.Context, tree *objects.TreeObject) error {
	if tree.ParentLocationID == 0 {
		return &objects.InvalidDataStructureError{Reason: "tree root carries no parent_location_id"}
	}
	return s.publishNode(ctx, tree, tree.ParentLocationID)
}

// Remove is not supported for trees; bulk deletion through a tree shape is
// too destructive to run implicitly. The call is a logged no-op so a batch
// carrying one does not abort.
func (s *TreeService) Remove(ctx context.Context, tree *objects.TreeObject) (bool, error) {
	s.logger.Warn("tree removal is not supported, object left untouched",
		zap.Int64("parent_location_id", tree.ParentLocationID))
	return false, nil
}

func (s *TreeService) publishNode(ctx context.Context, node *objects.TreeObject, parentLocationID int64) error {
	content, ok := node.Payload.(*objects.ContentObject)
	if !ok {
		return objects.NewUnsupportedObject("*objects.ContentObject", node.Payload)
	}
	if err := s.objects.CreateOrUpdate(ctx, content); err != nil {
		return err
	}
	location, err := s.resolveLocation(ctx, node, content.ContentID, parentLocationID)
	if err != nil {
		return err
	}
	if err := s.enforceLocationState(ctx, node, content.ContentID, location); err != nil {
		return err
	}
	for _, child := range node.Children {
		if err := s.publishNode(ctx, child, location.ID); err != nil {
			return err
		}
	}
	return nil
}

// resolveLocation reuses the existing child location holding the node's
// content, creating one under the parent only when none exists.
func (s *TreeService) resolveLocation(ctx context.Context, node *objects.TreeObject, contentID, parentLocationID int64) (*repository.Location, error) {
	children, err := s.repo.Locations().LoadLocationChildren(ctx, parentLocationID, 0, 0)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		if child.ContentID == contentID {
			return child, nil
		}
	}
	location, err := s.repo.Locations().CreateLocation(ctx, contentID, repository.LocationCreateStruct{
		ParentLocationID: parentLocationID,
		Priority:         node.Priority,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("tree location created",
		zap.Int64("content_id", contentID),
		zap.Int64("parent_location_id", parentLocationID),
		zap.Int64("location_id", location.ID))
	return location, nil
}

// enforceLocationState forces the main location when the node asks for it
// and aligns the hidden flag with the node's.
func (s *TreeService) enforceLocationState(ctx context.Context, node *objects.TreeObject, contentID int64, location *repository.Location) error {
	if node.IsMainObject() && !location.IsMainLocation {
		if err := s.repo.Locations().SetMainLocation(ctx, contentID, location.ID); err != nil {
			return err
		}
	}
	if node.Hidden != location.Hidden {
		var err error
		if node.Hidden {
			_, err = s.repo.Locations().HideLocation(ctx, location.ID)
		} else {
			_, err = s.repo.Locations().UnhideLocation(ctx, location.ID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
