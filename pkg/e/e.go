package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest          = fmt.Errorf("bad request")
	ErrInvalidJSON               = fmt.Errorf("invalid json body")
	ErrExpectedMultipart         = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields             = fmt.Errorf("missing required fields")
	ErrInvalidQueryParam         = fmt.Errorf("invalid query parameter")
	ErrProductNameRequired       = fmt.Errorf("product name is required")
	ErrInvalidPrice              = fmt.Errorf("invalid price")
	ErrPricePrecision            = fmt.Errorf("price must be a whole number of pesos")
	ErrInvalidStock              = fmt.Errorf("stock must not be negative")
	ErrUnknownCategory           = fmt.Errorf("unknown category")
	ErrUnknownSubcategory        = fmt.Errorf("unknown subcategory for category")
	ErrOfferNameRequired         = fmt.Errorf("offer name is required")
	ErrInvalidDiscountPercentage = fmt.Errorf("invalid discount percentage")
	ErrInvalidOfferKind          = fmt.Errorf("invalid offer kind")
	ErrOfferProductsRequired     = fmt.Errorf("at least one product is required for a product offer")
	ErrOfferCategoryRequired     = fmt.Errorf("category is required for this offer kind")
	ErrOfferSubcategoryRequired  = fmt.Errorf("subcategory is required for a subcategory offer")
	ErrOfferStartRequired        = fmt.Errorf("offer start date is required")
	ErrOfferInvalidWindow        = fmt.Errorf("offer end date must be after start date")
	ErrContactNameRequired       = fmt.Errorf("contact name is required")
	ErrContactInvalidEmail       = fmt.Errorf("invalid contact email")
	ErrContactMessageRequired    = fmt.Errorf("contact message is required")
	ErrNoImages                  = fmt.Errorf("no image provided")
	ErrFileTooLarge              = fmt.Errorf("file too large")
	ErrUnsupportedMediaType      = fmt.Errorf("unsupported media type")

	// 401 Unauthorized
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthorized       = fmt.Errorf("unauthorized")

	// 404 Not Found
	ErrProductNotFound  = fmt.Errorf("product not found")
	ErrOfferNotFound    = fmt.Errorf("offer not found")
	ErrCategoryNotFound = fmt.Errorf("category not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
