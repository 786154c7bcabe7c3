package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/avelichko/catalog-api/internal/logging"
	"github.com/avelichko/catalog-api/internal/service"
)

// maxImageSize bounds the accepted image payload.
const maxImageSize = 5 << 20

type ProductHTTP struct {
	Svc *service.CatalogService
}

// productInput collects the multipart form fields that were actually
// supplied; absent fields stay nil so updates leave them untouched.
func productInput(c echo.Context) service.ProductInput {
	in := service.ProductInput{}
	params, err := c.FormParams()
	if err != nil {
		return in
	}
	if v, ok := params["name"]; ok && len(v) > 0 {
		in.Name = &v[0]
	}
	if v, ok := params["description"]; ok && len(v) > 0 {
		in.Description = &v[0]
	}
	if v, ok := params["isAvailable"]; ok && len(v) > 0 {
		b := v[0] == "true"
		in.IsAvailable = &b
	}
	return in
}

// imageFromRequest reads the optional `image` multipart file. nil, nil
// means no file was attached.
func imageFromRequest(c echo.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, nil
	}

	if fh.Size > maxImageSize {
		return nil, errors.New("image exceeds 5MB limit")
	}
	if ct := fh.Header.Get(echo.HeaderContentType); !strings.HasPrefix(ct, "image/") {
		return nil, errors.New("only image files allowed")
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(io.LimitReader(src, maxImageSize))
}

func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	image, err := imageFromRequest(c)
	if err != nil {
		l.Warn("product_create_error", "status", 500, "reason", "rejected image file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	prod, err := h.Svc.Create(ctx, productInput(c), image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("product_create_error", "status", 500, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create product: "+err.Error())
		case errors.Is(err, service.ErrUpload):
			l.Error("product_create_error", "status", 500, "reason", "image upload failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to upload image")
		default:
			l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to create product")
		}
	}

	l.Info("create_product_success")
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	items, err := h.Svc.List(ctx)
	if err != nil {
		l.Error("get_products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch products")
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_product_failed", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	prod, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_product_failed", "status", 404)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch product")
	}

	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("product_update_error", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	image, err := imageFromRequest(c)
	if err != nil {
		l.Warn("product_update_error", "status", 500, "reason", "rejected image file", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	prod, cleanup, err := h.Svc.Update(ctx, id, productInput(c), image)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			l.Warn("product_update_error", "status", 404)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("product_update_error", "status", 500, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update product: "+err.Error())
		case errors.Is(err, service.ErrUpload):
			l.Error("product_update_error", "status", 500, "reason", "image upload failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to upload image")
		default:
			l.Error("product_update_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to update product")
		}
	}
	if cleanup.Failed() {
		l.Warn("stale_image_left_behind", "error", cleanup.Err)
	}

	l.Info("update_product_success")
	return c.JSON(http.StatusOK, prod)
}

func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("product_delete_error", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}

	cleanup, err := h.Svc.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("product_delete_error", "status", 404)
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		l.Error("product_delete_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete product")
	}
	if cleanup.Failed() {
		l.Warn("image_left_behind", "error", cleanup.Err)
	}

	l.Info("delete_product_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted successfully"})
}
