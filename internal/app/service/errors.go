package service

import (
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
)

var (
	ErrUserNotFound       = apperrors.New(apperrors.KindNotFound, apperrors.UserNotFound, "user not found")
	ErrEmailClaimRequired = apperrors.New(apperrors.KindValidation, apperrors.ValidationRequired, "identity token carries no email")

	ErrProductNotFound = apperrors.New(apperrors.KindNotFound, apperrors.ProductNotFound, "product not found")
	ErrInvalidVariant  = apperrors.New(apperrors.KindValidation, apperrors.ValidationInvalidVariant, "selected size or colour is not offered for this product")
	ErrInvalidQuantity = apperrors.New(apperrors.KindValidation, apperrors.ValidationInvalidInput, "quantity is out of range")

	ErrCartNotFound      = apperrors.New(apperrors.KindNotFound, apperrors.CartNotFound, "cart not found")
	ErrCartItemNotFound  = apperrors.New(apperrors.KindNotFound, apperrors.CartItemNotFound, "cart item not found")
	ErrEmptyCart         = apperrors.New(apperrors.KindInvalidState, apperrors.CartEmpty, "cart is empty")
	ErrCartChanged       = apperrors.New(apperrors.KindConflict, apperrors.CartChanged, "cart changed during checkout, please retry")
	ErrInsufficientStock = apperrors.New(apperrors.KindConflict, apperrors.InsufficientStock, "insufficient stock for a cart item")
	ErrLineQuantityLimit = apperrors.New(apperrors.KindValidation, apperrors.CartQuantityLimit, "cart line quantity cannot exceed 999")

	ErrOrderNotFound          = apperrors.New(apperrors.KindNotFound, apperrors.OrderNotFound, "order not found")
	ErrInvalidShippingAddress = apperrors.New(apperrors.KindInvalidState, apperrors.OrderInvalidAddress, "shipping address does not belong to the user")
	ErrInvalidOrderStatus     = apperrors.New(apperrors.KindValidation, apperrors.ValidationInvalidStatus, "invalid order or payment status")
	ErrEmptyStatusUpdate      = apperrors.New(apperrors.KindValidation, apperrors.ValidationRequired, "no status field to update")
	ErrPaymentMethodRequired  = apperrors.New(apperrors.KindValidation, apperrors.ValidationRequired, "payment method is required")
	ErrOrderInProgress        = apperrors.New(apperrors.KindConflict, apperrors.OrderRequestInProgress, "an order with this idempotency key is still being processed")

	ErrAddressNotFound       = apperrors.New(apperrors.KindNotFound, apperrors.AddressNotFound, "address not found")
	ErrAddressFieldsRequired = apperrors.New(apperrors.KindValidation, apperrors.ValidationRequired, "street, city, state, zipCode and country are required")

	ErrWishlistItemAlreadyExists = apperrors.New(apperrors.KindConflict, apperrors.WishlistItemExists, "product already in wishlist")
	ErrWishlistItemNotFound      = apperrors.New(apperrors.KindNotFound, apperrors.WishlistItemNotFound, "product not in wishlist")
)
