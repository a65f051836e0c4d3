package service

import (
	"context"

	"furnistore/internal/errs"
	"furnistore/internal/models"
	"furnistore/internal/redisclient"
	"furnistore/internal/store"
	"furnistore/internal/util"

	"go.uber.org/zap"
)

// CatalogService covers products, color variants, reviews and
// wishlists. Stock quantities surface here read-only; mutation belongs
// to the batch and checkout flows.
type CatalogService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, redis *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// ProductRequest carries the admin create/update payload.
type ProductRequest struct {
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Price       int64  `json:"price" binding:"required,min=1"`
	MainImg     string `json:"main_img"`
}

// ColorRequest carries the color variant payload.
type ColorRequest struct {
	Name      string `json:"name" binding:"required"`
	ColorCode string `json:"color_code" binding:"required"`
	MainImg   string `json:"main_img"`
}

// ProductView is a product with its colors and review summary.
type ProductView struct {
	models.Product
	Colors    []models.ProductColor `json:"colors"`
	AvgRating float64               `json:"avg_rating"`
}

// ReviewRequest carries a customer review.
type ReviewRequest struct {
	ProductID int64  `json:"product_id" binding:"required"`
	OrderID   int64  `json:"order_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Content   string `json:"content"`
}

// CreateProduct creates a catalog product.
func (cs *CatalogService) CreateProduct(ctx context.Context, req *ProductRequest) (*models.Product, error) {
	p := &models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		MainImg:     req.MainImg,
	}
	if err := cs.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	cs.logger.Info("Product created", zap.String("sku", p.SKU))
	return p, nil
}

// GetProduct returns a product with colors and its average rating.
// Each color's quantity prefers the Redis cache when present.
func (cs *CatalogService) GetProduct(ctx context.Context, id int64) (*ProductView, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	p, err := cs.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	colors, err := cs.store.GetColorsByProductID(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range colors {
		if cached, ok, err := cs.redis.GetColorQuantity(ctx, colors[i].ID); err == nil && ok {
			colors[i].Quantity = cached
		}
	}

	avg, err := cs.store.AvgRatingByProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProductView{Product: *p, Colors: colors, AvgRating: avg}, nil
}

// ListProducts returns the catalog.
func (cs *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cs.store.ListProducts(ctx)
}

// UpdateProduct overwrites the mutable fields of a product.
func (cs *CatalogService) UpdateProduct(ctx context.Context, id int64, req *ProductRequest) (*models.Product, error) {
	p, err := cs.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.Price = req.Price
	p.MainImg = req.MainImg

	if err := cs.store.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProduct soft-deletes a product. Existing order lines keep
// their denormalized snapshot.
func (cs *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	return cs.store.SoftDeleteProduct(ctx, id)
}

// CreateColor adds a color variant with zero stock; only batch intake
// raises the quantity.
func (cs *CatalogService) CreateColor(ctx context.Context, productID int64, req *ColorRequest) (*models.ProductColor, error) {
	if _, err := cs.store.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	c := &models.ProductColor{
		ProductID: productID,
		Name:      req.Name,
		ColorCode: req.ColorCode,
		MainImg:   req.MainImg,
	}
	if err := cs.store.CreateProductColor(ctx, c); err != nil {
		return nil, err
	}
	c.ProductID = productID
	return c, nil
}

// UpdateColor overwrites a variant's display fields, never its stock.
func (cs *CatalogService) UpdateColor(ctx context.Context, colorID int64, req *ColorRequest) (*models.ProductColor, error) {
	c, err := cs.store.GetProductColorByID(ctx, colorID)
	if err != nil {
		return nil, err
	}

	c.Name = req.Name
	c.ColorCode = req.ColorCode
	c.MainImg = req.MainImg

	if err := cs.store.UpdateProductColor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddReview records a review for a delivered order the user owns.
func (cs *CatalogService) AddReview(ctx context.Context, userID int64, req *ReviewRequest) (*models.Review, error) {
	order, err := cs.store.GetOrderByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, errs.Unauthorized("order %d does not belong to you", req.OrderID)
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, errs.Validation("order %d has not been delivered yet", req.OrderID)
	}

	items, err := cs.store.GetOrderItemsByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	purchased := false
	for _, it := range items {
		if it.ProductID == req.ProductID {
			purchased = true
			break
		}
	}
	if !purchased {
		return nil, errs.Validation("product %d is not part of order %d", req.ProductID, req.OrderID)
	}

	review := &models.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Content:   req.Content,
	}
	if err := cs.store.InsertReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns a product's reviews, newest first.
func (cs *CatalogService) ListReviews(ctx context.Context, productID int64) ([]models.Review, error) {
	return cs.store.ListReviewsByProduct(ctx, productID)
}

// AddToWishlist saves a product for later; adding twice is a no-op.
func (cs *CatalogService) AddToWishlist(ctx context.Context, userID, productID int64) error {
	if _, err := cs.store.GetProductByID(ctx, productID); err != nil {
		return err
	}
	return cs.store.AddWishlistItem(ctx, userID, productID)
}

// RemoveFromWishlist drops a saved product.
func (cs *CatalogService) RemoveFromWishlist(ctx context.Context, userID, productID int64) error {
	return cs.store.RemoveWishlistItem(ctx, userID, productID)
}

// ListWishlist returns the user's saved products.
func (cs *CatalogService) ListWishlist(ctx context.Context, userID int64) ([]models.WishlistItem, error) {
	return cs.store.ListWishlist(ctx, userID)
}
