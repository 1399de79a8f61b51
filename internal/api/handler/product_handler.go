package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmtopup/storefront/internal/core/ports"
)

// ProductHandler serves the catalog and its admin maintenance.
type ProductHandler struct {
	service ports.CatalogService
}

func NewProductHandler(service ports.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Catalog handles GET /api/products.
//
// @Summary      Available products grouped by operator and category
// @Tags         products
// @Produce      json
// @Success      200  {object}  catalogResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/products [get]
func (h *ProductHandler) Catalog(c echo.Context) error {
	catalog, err := h.service.Catalog(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalogResponse{Products: catalog})
}

// List handles GET /api/products/all, the flat admin view including
// unavailable products. Optional operator and category query filters apply.
//
// @Summary      All products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        operator  query     string  false  "Operator"
// @Param        category  query     string  false  "Category"
// @Success      200       {object}  productListResponse
// @Failure      401       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Router       /api/products/all [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context(), ports.ProductFilter{
		Operator: c.QueryParam("operator"),
		Category: c.QueryParam("category"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productListResponse{Products: nonNil(products)})
}

// Get handles GET /api/products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: p})
}

// Create handles POST /api/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req createProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), actor, ports.CreateProductInput{
		ID:       req.ID,
		Operator: req.Operator,
		Category: req.Category,
		Name:     req.Name,
		PriceMMK: req.PriceMMK,
		PriceCr:  req.PriceCr,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, productResponse{Product: p})
}

// Update handles PUT /api/products/:id.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Product id"
// @Param        body  body      updateProductRequest  true  "Fields to change"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	var req updateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), ports.ProductUpdate{
		Operator:  req.Operator,
		Category:  req.Category,
		Name:      req.Name,
		PriceMMK:  req.PriceMMK,
		PriceCr:   req.PriceCr,
		Available: req.Available,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productResponse{Product: p})
}

// Delete handles DELETE /api/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}
