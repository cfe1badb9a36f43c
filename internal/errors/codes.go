package errors

// Error codes returned in the `error` field of every error response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to user facing text.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== AUTHZ_ ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput   = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID      = "VALIDATION_INVALID_ID"
	ValidationRequired       = "VALIDATION_REQUIRED"
	ValidationInvalidVariant = "VALIDATION_INVALID_VARIANT"
	ValidationInvalidStatus  = "VALIDATION_INVALID_STATUS"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== USER_ / PRODUCT_ ====================
	UserNotFound    = "USER_NOT_FOUND"
	ProductNotFound = "PRODUCT_NOT_FOUND"
	ProductSKUTaken = "PRODUCT_SKU_EXISTS"

	// ==================== CART_ ====================
	CartNotFound      = "CART_NOT_FOUND"
	CartItemNotFound  = "CART_ITEM_NOT_FOUND"
	CartEmpty         = "CART_EMPTY"
	CartChanged       = "CART_CHANGED"
	InsufficientStock = "CART_INSUFFICIENT_STOCK"
	CartQuantityLimit = "CART_QUANTITY_LIMIT"

	// ==================== ORDER_ ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidAddress    = "ORDER_INVALID_SHIPPING_ADDRESS"
	OrderRequestInProgress = "ORDER_REQUEST_IN_PROGRESS"

	// ==================== ADDRESS_ / WISHLIST_ ====================
	AddressNotFound       = "ADDRESS_NOT_FOUND"
	WishlistItemExists    = "WISHLIST_ITEM_EXISTS"
	WishlistItemNotFound  = "WISHLIST_ITEM_NOT_FOUND"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
