package errors

import (
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the classified form of an arbitrary error.
type ErrorInfo struct {
	Kind    Kind
	Code    string
	Message string
}

// ParseError translates store and network errors into a response code.
// Details that would leak schema information are dropped.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Kind: KindInternal, Code: InternalServerError, Message: "internal server error"}
	}

	var appErr *AppError
	if As(err, &appErr) {
		return ErrorInfo{Kind: appErr.Kind, Code: appErr.Code, Message: appErr.Message}
	}

	if Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Kind: KindNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}
	if Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}
	if Is(err, gorm.ErrForeignKeyViolated) {
		return ErrorInfo{Kind: KindNotFound, Code: ResourceNotFound, Message: "referenced record does not exist"}
	}

	errLower := strings.ToLower(err.Error())

	// postgres 23505 / sqlite UNIQUE
	if strings.Contains(errLower, "duplicate key") ||
		strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	// postgres 23503
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Kind: KindNotFound, Code: ResourceNotFound, Message: "referenced record does not exist"}
	}

	// postgres 22001
	if strings.Contains(errLower, "value too long") {
		return ErrorInfo{Kind: KindValidation, Code: ValidationInvalidInput, Message: "input value too long"}
	}

	// postgres 23514
	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Kind: KindValidation, Code: ValidationInvalidInput, Message: "input value out of range"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Kind:    KindInternal,
			Code:    InternalExternalAPI,
			Message: "upstream service unavailable, please try again later",
		}
	}

	return ErrorInfo{Kind: KindInternal, Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	switch {
	case strings.Contains(errLower, "sku"):
		return ErrorInfo{Kind: KindConflict, Code: ProductSKUTaken, Message: "a product with this SKU already exists"}
	case strings.Contains(errLower, "wishlist"):
		return ErrorInfo{Kind: KindConflict, Code: WishlistItemExists, Message: "product already in wishlist"}
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Kind: KindConflict, Code: ResourceAlreadyExists, Message: "email already in use"}
	case strings.Contains(errLower, "subject"):
		return ErrorInfo{Kind: KindConflict, Code: ResourceAlreadyExists, Message: "user already registered"}
	}

	return ErrorInfo{Kind: KindConflict, Code: ResourceAlreadyExists, Message: "record already exists"}
}

func notFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	for _, entity := range []string{"order", "cart", "address", "wishlist", "product", "user"} {
		if strings.Contains(contextLower, entity) {
			return entity + " not found"
		}
	}
	return "requested record not found"
}

func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "add"):
		return "failed to create record, please try again later"
	case strings.Contains(contextLower, "update"):
		return "failed to update record, please try again later"
	case strings.Contains(contextLower, "delete"), strings.Contains(contextLower, "remove"):
		return "failed to delete record, please try again later"
	}
	return "internal server error, please try again later"
}
