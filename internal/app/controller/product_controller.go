package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/errors"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

// GET /api/v1/products?limit=&offset=
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		errors.BadRequest(c, errors.ValidationInvalidInput, "limit must be a non-negative integer")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		errors.BadRequest(c, errors.ValidationInvalidInput, "offset must be a non-negative integer")
		return
	}

	products, total, err := ctrl.productService.List(limit, offset)
	if err != nil {
		errors.Respond(c, err, "fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"total":    total,
		"offset":   offset,
	})
}

// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.Get(id)
	if err != nil {
		errors.Respond(c, err, "fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}
