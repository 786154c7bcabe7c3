package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelichko/catalog-api/internal/events"
	"github.com/avelichko/catalog-api/internal/imagestore"
	"github.com/avelichko/catalog-api/internal/logging"
	"github.com/avelichko/catalog-api/internal/models"
	"github.com/avelichko/catalog-api/internal/repo"
)

// imageFolder is the prefix under which all product images live in the
// object store.
const imageFolder = "products"

type CatalogService struct {
	Repo   *repo.GormRepo
	Images imagestore.Store
	Events *events.Producer
}

// ProductInput carries the multipart form fields of a create or update
// request. Nil means the field was not supplied.
type ProductInput struct {
	Name        *string
	Description *string
	IsAvailable *bool
}

// Cleanup reports the outcome of a best-effort removal of a stored image.
// A failed cleanup never fails the surrounding mutation; the orphaned
// remote object is an accepted leak.
type Cleanup struct {
	Attempted bool
	Err       error
}

func (c Cleanup) Failed() bool { return c.Attempted && c.Err != nil }

func (s *CatalogService) publish(ctx context.Context, key string, event map[string]any) {
	l := logging.FromContext(ctx)
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, key, event); err != nil {
		l.Error("event_publish_failed", "error", err)
	}
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput, image []byte) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	prod := models.Product{
		Name:        strings.TrimSpace(*in.Name),
		IsAvailable: true,
	}
	if in.Description != nil {
		prod.Description = *in.Description
	}
	if in.IsAvailable != nil {
		prod.IsAvailable = *in.IsAvailable
	}

	if image != nil {
		up, err := s.Images.Upload(ctx, image, imageFolder)
		if err != nil {
			l.Error("image_upload_failed", "error", err)
			return nil, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		prod.ImageURL = &up.Locator
		prod.ImageKey = &up.DeletionHandle
		l.Info("image_uploaded", "locator", up.Locator)
	}

	created, err := s.Repo.CreateProduct(ctx, &prod)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created.ID.String(), map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"name":      created.Name,
	})
	l.Info("create_product_success", "id", created.ID)
	return created, nil
}

func (s *CatalogService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.Repo.GetProduct(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.Repo.GetProducts(ctx)
}

// Update applies the supplied fields and, when image bytes are present,
// replaces the stored image. The old image is removed before the new one is
// uploaded; removal failure is reported in Cleanup but never aborts the
// update, while upload failure does.
func (s *CatalogService) Update(ctx context.Context, id uuid.UUID, in ProductInput, image []byte) (*models.Product, Cleanup, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.update", "id", id)
	cleanup := Cleanup{}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, cleanup, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, cleanup, err
	}

	if image != nil {
		if prod.ImageKey != nil {
			cleanup.Attempted = true
			if cleanup.Err = s.Images.Remove(ctx, *prod.ImageKey); cleanup.Err != nil {
				l.Warn("old_image_remove_failed", "handle", *prod.ImageKey, "error", cleanup.Err)
			}
		}
		up, err := s.Images.Upload(ctx, image, imageFolder)
		if err != nil {
			l.Error("image_upload_failed", "error", err)
			return nil, cleanup, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		prod.ImageURL = &up.Locator
		prod.ImageKey = &up.DeletionHandle
	}

	if in.Name != nil {
		prod.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		prod.Description = *in.Description
	}
	if in.IsAvailable != nil {
		prod.IsAvailable = *in.IsAvailable
	}

	updated, err := s.Repo.SaveProduct(ctx, prod)
	if err != nil {
		return nil, cleanup, err
	}

	s.publish(ctx, updated.ID.String(), map[string]any{
		"type":      "product_updated",
		"productID": updated.ID,
		"name":      updated.Name,
	})
	l.Info("update_product_success")
	return updated, cleanup, nil
}

// Delete removes the record unconditionally once it is known to exist; the
// stored image is removed best-effort first.
func (s *CatalogService) Delete(ctx context.Context, id uuid.UUID) (Cleanup, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.delete", "id", id)
	cleanup := Cleanup{}

	prod, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return cleanup, err
	}

	if prod.ImageKey != nil {
		cleanup.Attempted = true
		if cleanup.Err = s.Images.Remove(ctx, *prod.ImageKey); cleanup.Err != nil {
			l.Warn("image_remove_failed", "handle", *prod.ImageKey, "error", cleanup.Err)
		}
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return cleanup, err
	}

	s.publish(ctx, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	l.Info("delete_product_success")
	return cleanup, nil
}
