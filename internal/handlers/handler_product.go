package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/books_backend/internal/core/ports/services"
	"github.com/finbooks/books_backend/internal/dto"
	"github.com/finbooks/books_backend/internal/middleware"
)

// productHandler handles HTTP requests for the product catalog and stock.
type productHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func newProductHandler(inventoryService portssvc.InventorySvcFacade) *productHandler {
	return &productHandler{inventoryService: inventoryService}
}

func registerProductRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newProductHandler(inventoryService)
	products := rg.Group("/products")
	{
		products.POST("", h.createProduct)
		products.GET("", h.listProducts)
		products.GET("/low-stock", h.listLowStockProducts)
		products.GET("/:productID", h.getProduct)
		products.PUT("/:productID", h.updateProduct)
		products.POST("/:productID/deactivate", h.deactivateProduct)
		products.POST("/:productID/stock", h.adjustStock)
		products.GET("/:productID/stock", h.getStockMovements)
	}
}

// createProduct godoc
// @Summary Create a product
// @Tags products
// @Accept  json
// @Produce  json
// @Param   product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.ProductResponse
// @Failure 409 {object} map[string]string "Duplicate SKU"
// @Router /products [post]
func (h *productHandler) createProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createProduct", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), companyID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create product")
		return
	}

	logger.Info("Product created", slog.String("product_id", product.ProductID), slog.String("sku", product.SKU))
	c.JSON(http.StatusCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Tags products
// @Produce  json
// @Param   includeInactive query bool false "Include deactivated products"
// @Success 200 {object} map[string][]dto.ProductResponse
// @Router /products [get]
func (h *productHandler) listProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	includeInactive := c.Query("includeInactive") == "true"
	products, err := h.inventoryService.ListProducts(c.Request.Context(), companyID, includeInactive)
	if err != nil {
		respondError(c, logger, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": dto.ToProductResponses(products)})
}

// listLowStockProducts godoc
// @Summary List products at or below their low-stock threshold
// @Tags products
// @Produce  json
// @Success 200 {object} map[string][]dto.ProductResponse
// @Router /products/low-stock [get]
func (h *productHandler) listLowStockProducts(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	products, err := h.inventoryService.ListLowStockProducts(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, logger, err, "Failed to list low stock products")
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": dto.ToProductResponses(products)})
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {object} dto.ProductResponse
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{productID} [get]
func (h *productHandler) getProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	productID := c.Param("productID")

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	product, err := h.inventoryService.GetProductByID(c.Request.Context(), companyID, productID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// updateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   product body dto.CreateProductRequest true "Fields to update"
// @Success 200 {object} dto.ProductResponse
// @Router /products/{productID} [put]
func (h *productHandler) updateProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	productID := c.Param("productID")

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateProduct", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), companyID, productID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to update product")
		return
	}

	logger.Info("Product updated", slog.String("product_id", productID))
	c.JSON(http.StatusOK, dto.ToProductResponse(product))
}

// deactivateProduct godoc
// @Summary Deactivate a product
// @Tags products
// @Param   productID path string true "Product ID"
// @Success 204 "Deactivated"
// @Router /products/{productID}/deactivate [post]
func (h *productHandler) deactivateProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	productID := c.Param("productID")

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	if err := h.inventoryService.DeactivateProduct(c.Request.Context(), companyID, productID, userID); err != nil {
		respondError(c, logger, err, "Failed to deactivate product")
		return
	}

	logger.Info("Product deactivated", slog.String("product_id", productID))
	c.Status(http.StatusNoContent)
}

// adjustStock godoc
// @Summary Record a manual stock adjustment
// @Description Applies an IN, OUT or ADJUSTMENT movement against the product
// @Tags products
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   adjustment body dto.AdjustStockRequest true "Adjustment details"
// @Success 200 {object} dto.AdjustStockResponse
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Router /products/{productID}/stock [post]
func (h *productHandler) adjustStock(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	productID := c.Param("productID")

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for adjustStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identity(c)
	if !ok {
		return
	}

	movement, product, err := h.inventoryService.AdjustStock(c.Request.Context(), companyID, productID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to adjust stock")
		return
	}

	logger.Info("Stock adjusted",
		slog.String("product_id", productID),
		slog.String("movement_type", string(movement.MovementType)),
		slog.String("quantity", movement.Quantity.String()))
	c.JSON(http.StatusOK, dto.AdjustStockResponse{
		Product:  dto.ToProductResponse(product),
		Movement: dto.ToStockMovementResponse(movement),
	})
}

// getStockMovements godoc
// @Summary Get a product's stock movement history
// @Tags products
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   limit query int false "Page size"
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} map[string]interface{}
// @Router /products/{productID}/stock [get]
func (h *productHandler) getStockMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	productID := c.Param("productID")

	_, companyID, ok := identity(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit parameter"})
			return
		}
		limit = parsed
	}

	movements, nextToken, err := h.inventoryService.GetStockMovements(c.Request.Context(), companyID, productID, limit, c.Query("nextToken"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve stock movements")
		return
	}

	responses := make([]dto.StockMovementResponse, len(movements))
	for i := range movements {
		responses[i] = dto.ToStockMovementResponse(&movements[i])
	}
	resp := gin.H{"movements": responses}
	if nextToken != "" {
		resp["nextToken"] = nextToken
	}
	c.JSON(http.StatusOK, resp)
}
