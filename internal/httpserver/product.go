package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/service"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
	"github.com/Skotchmaster/shop_api/internal/validation"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

// ListProducts godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *ProductHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	items, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_products_error", http.StatusInternalServerError, "cannot get products", err)
	}

	l.Info("list_products_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

// GetProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.Product
// @Failure 400 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := parseID(c)
	if err != nil {
		return bindFailed(l, "get_product_error", err)
	}

	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fail(l, "get_product_error", http.StatusNotFound, "product not found", err)
		}
		return fail(l, "get_product_error", http.StatusInternalServerError, "cannot get product", err)
	}
	return c.JSON(http.StatusOK, p)
}

// SearchProducts godoc
// @Summary Search products by name
// @Tags products
// @Produce json
// @Param q query string true "Search text"
// @Param page query int false "Page, starting at 1"
// @Param size query int false "Page size, at most 100"
// @Success 200 {object} transport.SearchResponse
// @Failure 400 {object} transport.ErrorResponse
// @Router /products/search [get]
func (h *ProductHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), from, limit)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return fail(l, "search_products_error", http.StatusBadRequest, "query parameter q is required", err)
		}
		return fail(l, "search_products_error", http.StatusInternalServerError, "cannot search products", err)
	}

	l.Info("search_products_success", "total", total)
	return c.JSON(http.StatusOK, transport.SearchResponse{Total: total, Products: items})
}

// CreateProduct godoc
// @Summary Create a product
// @Tags products
// @Accept json
// @Produce json
// @Param payload body transport.CreateProductRequest true "New product"
// @Success 201 {object} models.Product
// @Failure 400 {object} transport.ErrorResponse
// @Router /products [post]
// @Router /products/add [post]
func (h *ProductHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.CreateProductRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return bindFailed(l, "create_product_error", err)
	}

	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return fail(l, "create_product_error", http.StatusBadRequest, "name is required", err)
		}
		return fail(l, "create_product_error", http.StatusInternalServerError, "cannot create product", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

// UpdateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param payload body transport.PatchProductRequest true "Fields to change"
// @Success 200 {object} models.Product
// @Failure 400 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /products/{id} [put]
// @Router /products/update/{id} [post]
func (h *ProductHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		return bindFailed(l, "update_product_error", err)
	}

	var req transport.PatchProductRequest
	if err := validation.BindAndValidate(c, &req); err != nil {
		return bindFailed(l, "update_product_error", err)
	}

	p, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return fail(l, "update_product_error", http.StatusNotFound, "product not found", err)
		case errors.Is(err, service.ErrEmptyUpdate):
			return fail(l, "update_product_error", http.StatusBadRequest, "at least one field must be provided", err)
		case errors.Is(err, service.ErrValidation):
			return fail(l, "update_product_error", http.StatusBadRequest, "name must not be blank", err)
		default:
			return fail(l, "update_product_error", http.StatusInternalServerError, "cannot update product", err)
		}
	}

	l.Info("update_product_success", "product_id", p.ID)
	return c.JSON(http.StatusOK, p)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} transport.MessageResponse
// @Failure 400 {object} transport.ErrorResponse
// @Failure 404 {object} transport.ErrorResponse
// @Router /products/{id} [delete]
// @Router /products/delete/{id} [post]
func (h *ProductHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		return bindFailed(l, "delete_product_error", err)
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return fail(l, "delete_product_error", http.StatusNotFound, "product not found", err)
		}
		return fail(l, "delete_product_error", http.StatusInternalServerError, "cannot delete product", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "product deleted"})
}
