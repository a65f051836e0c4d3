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

// CartService manages the per-user staging cart. Carts are created
// lazily on first add and disappear when checkout finalizes.
type CartService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(store *store.Store, redis *redisclient.Client) *CartService {
	return &CartService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// AddItemRequest adds quantity of one color variant to the cart.
type AddItemRequest struct {
	ProductID      int64 `json:"product_id" binding:"required"`
	ProductColorID int64 `json:"product_color_id" binding:"required"`
	Quantity       int   `json:"quantity" binding:"required,min=1"`
}

// CartView is the cart with its lines for API responses.
type CartView struct {
	models.Cart
	Items []models.CartItem `json:"items"`
}

// getOrCreateCart returns the user's cart, creating it if absent.
func (cs *CartService) getOrCreateCart(ctx context.Context, userID int64) (*models.Cart, error) {
	cart, err := cs.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{UserID: userID}
	if err := cs.store.CreateCart(ctx, cart); err != nil {
		return nil, err
	}
	cart.UserID = userID
	return cart, nil
}

// Get returns the user's cart with its items. A user with no cart yet
// gets an empty view rather than an error.
func (cs *CartService) Get(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := cs.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &CartView{Cart: models.Cart{UserID: userID}, Items: []models.CartItem{}}, nil
	}

	items, err := cs.store.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	return &CartView{Cart: *cart, Items: items}, nil
}

// AddItem adds quantity of a color variant to the cart, merging into an
// existing line for the same variant. The unit price is denormalized
// from the catalog at add time; later catalog edits do not reprice the
// line.
func (cs *CartService) AddItem(ctx context.Context, userID int64, req *AddItemRequest) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	product, err := cs.store.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	color, err := cs.store.GetProductColorByID(ctx, req.ProductColorID)
	if err != nil {
		return nil, err
	}
	if color.ProductID != product.ID {
		return nil, errs.Validation("color %d does not belong to product %d", color.ID, product.ID)
	}

	cart, err := cs.getOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := cs.store.GetCartItem(ctx, cart.ID, req.ProductID, req.ProductColorID)
	if err != nil {
		return nil, err
	}

	requested := req.Quantity
	if existing != nil {
		requested += existing.Quantity
	}
	if err := cs.checkAvailability(ctx, color, requested); err != nil {
		return nil, err
	}

	if existing != nil {
		total := existing.Price * int64(requested)
		if err := cs.store.UpdateCartItemQuantity(ctx, existing.ID, requested, total); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:         cart.ID,
			ProductID:      req.ProductID,
			ProductColorID: req.ProductColorID,
			Price:          product.Price,
			Quantity:       req.Quantity,
			Total:          product.Price * int64(req.Quantity),
		}
		if err := cs.store.InsertCartItem(ctx, item); err != nil {
			return nil, err
		}
	}

	if err := cs.refreshAmount(ctx, cart.ID); err != nil {
		return nil, err
	}
	return cs.Get(ctx, userID)
}

// UpdateItemQuantity sets a line to an absolute quantity. Zero removes
// the line.
func (cs *CartService) UpdateItemQuantity(ctx context.Context, userID, itemID int64, quantity int) (*CartView, error) {
	if quantity < 0 {
		return nil, errs.Validation("quantity cannot be negative")
	}

	cart, err := cs.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errs.NotFound("cart not found for user %d", userID)
	}

	item, err := cs.findItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity == 0 {
		if err := cs.store.DeleteCartItem(ctx, item.ID); err != nil {
			return nil, err
		}
	} else {
		color, err := cs.store.GetProductColorByID(ctx, item.ProductColorID)
		if err != nil {
			return nil, err
		}
		if err := cs.checkAvailability(ctx, color, quantity); err != nil {
			return nil, err
		}
		total := item.Price * int64(quantity)
		if err := cs.store.UpdateCartItemQuantity(ctx, item.ID, quantity, total); err != nil {
			return nil, err
		}
	}

	if err := cs.refreshAmount(ctx, cart.ID); err != nil {
		return nil, err
	}
	return cs.Get(ctx, userID)
}

// RemoveItem deletes a line from the user's cart.
func (cs *CartService) RemoveItem(ctx context.Context, userID, itemID int64) (*CartView, error) {
	cart, err := cs.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errs.NotFound("cart not found for user %d", userID)
	}

	item, err := cs.findItem(ctx, cart.ID, itemID)
	if err != nil {
		return nil, err
	}
	if err := cs.store.DeleteCartItem(ctx, item.ID); err != nil {
		return nil, err
	}

	if err := cs.refreshAmount(ctx, cart.ID); err != nil {
		return nil, err
	}
	return cs.Get(ctx, userID)
}

// findItem loads a cart item and checks it belongs to the given cart,
// so one user cannot edit another's lines by guessing IDs.
func (cs *CartService) findItem(ctx context.Context, cartID, itemID int64) (*models.CartItem, error) {
	items, err := cs.store.GetCartItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, errs.NotFound("cart item not found: %d", itemID)
}

// checkAvailability compares the requested quantity against the color
// aggregate, preferring the Redis cache and falling back to the row.
// This is advisory only; the webhook transaction is the real gate.
func (cs *CartService) checkAvailability(ctx context.Context, color *models.ProductColor, requested int) error {
	available := color.Quantity
	if cached, ok, err := cs.redis.GetColorQuantity(ctx, color.ID); err == nil && ok {
		available = cached
	}
	if requested > available {
		return errs.Conflict("only %d units of color %d in stock", available, color.ID)
	}
	return nil
}

// refreshAmount recomputes the denormalized cart total from its lines.
func (cs *CartService) refreshAmount(ctx context.Context, cartID int64) error {
	items, err := cs.store.GetCartItems(ctx, cartID)
	if err != nil {
		return err
	}
	var amount int64
	for _, it := range items {
		amount += it.Total
	}
	return cs.store.UpdateCartAmount(ctx, cartID, amount)
}
