package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/plastyfilm/go-backend/internal/usecase"
	"github.com/plastyfilm/go-backend/pkg/e"
	"github.com/plastyfilm/go-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// errorStatuses: соответствие sentinel-ошибок HTTP-статусам. Порядок важен: первая совпавшая.
var errorStatuses = []struct {
	err  error
	code int
}{
	{e.ErrStatusBadRequest, http.StatusBadRequest},
	{e.ErrInvalidJSON, http.StatusBadRequest},
	{e.ErrExpectedMultipart, http.StatusBadRequest},
	{e.ErrMissingFields, http.StatusBadRequest},
	{e.ErrInvalidQueryParam, http.StatusBadRequest},
	{e.ErrProductNameRequired, http.StatusBadRequest},
	{e.ErrInvalidPrice, http.StatusBadRequest},
	{e.ErrPricePrecision, http.StatusBadRequest},
	{e.ErrInvalidStock, http.StatusBadRequest},
	{e.ErrUnknownCategory, http.StatusBadRequest},
	{e.ErrUnknownSubcategory, http.StatusBadRequest},
	{e.ErrOfferNameRequired, http.StatusBadRequest},
	{e.ErrInvalidDiscountPercentage, http.StatusBadRequest},
	{e.ErrInvalidOfferKind, http.StatusBadRequest},
	{e.ErrOfferProductsRequired, http.StatusBadRequest},
	{e.ErrOfferCategoryRequired, http.StatusBadRequest},
	{e.ErrOfferSubcategoryRequired, http.StatusBadRequest},
	{e.ErrOfferStartRequired, http.StatusBadRequest},
	{e.ErrOfferInvalidWindow, http.StatusBadRequest},
	{e.ErrContactNameRequired, http.StatusBadRequest},
	{e.ErrContactInvalidEmail, http.StatusBadRequest},
	{e.ErrContactMessageRequired, http.StatusBadRequest},
	{e.ErrNoImages, http.StatusBadRequest},
	{e.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{e.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
	{e.ErrInvalidCredentials, http.StatusUnauthorized},
	{e.ErrUnauthorized, http.StatusUnauthorized},
	{e.ErrProductNotFound, http.StatusNotFound},
	{e.ErrOfferNotFound, http.StatusNotFound},
	{e.ErrCategoryNotFound, http.StatusNotFound},
}

// ToHTTPResponse возвращает статус и безопасное сообщение для клиента.
// Неизвестные ошибки скрываются за 500.
func ToHTTPResponse(err error) (int, string) {
	for _, s := range errorStatuses {
		if errors.Is(err, s.err) {
			return s.code, s.err.Error()
		}
	}
	return http.StatusInternalServerError, e.ErrInternalServerError.Error()
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON читает тело запроса в dst, отвергая неизвестные поля и лишние данные.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}
	if dec.More() {
		return e.Wrap(whereami.WhereAmI(), e.ErrInvalidJSON)
	}

	return nil
}

// parseDecimal разбирает число из JSON; пустое значение возвращает invalid.
func parseDecimal(n json.Number, invalid error) (decimal.Decimal, error) {
	if strings.TrimSpace(n.String()) == "" {
		return decimal.Zero, invalid
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, invalid
	}
	return d, nil
}

func queryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, e.Wrap(key, e.ErrInvalidQueryParam)
	}
	return &d, nil
}

// queryInt возвращает 0, если параметр не задан.
func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, e.Wrap(key, e.ErrInvalidQueryParam)
	}
	return v, nil
}

func bearerToken(r *http.Request) string {
	const prefix = "bearer "
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return e.Wrap(whereami.WhereAmI(), e.ErrFileTooLarge)
		}
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}
	return nil
}

// readImage читает файл из формы; тип определяется по содержимому, а не по заголовку клиента.
func readImage(fh *multipart.FileHeader, maxSize int64) (*usecase.ProductImage, error) {
	if fh.Size > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}

// respondError логирует ошибку по уровню статуса и пишет ответ клиенту.
func respondError(log logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s %s", code, r.Method, r.URL.Path)
	} else {
		log.Warnf("%d %s %s: %v", code, r.Method, r.URL.Path, err)
	}
	WriteError(w, err)
}
