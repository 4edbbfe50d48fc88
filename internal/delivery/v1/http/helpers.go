package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/go-recommender/pkg/e"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	statusSuccess = "success"
	statusError   = "error"

	maxBodySize = 1 << 20
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ErrorResponse struct {
	Status string `json:"status"`
	Code   int    `json:"code"`
	Detail string `json:"detail"`
}

func NewErrorResponse(code int, detail string) *ErrorResponse {
	return &ErrorResponse{
		Status: statusError,
		Code:   code,
		Detail: detail,
	}
}

// ToHTTPResponse сопоставляет доменную ошибку HTTP-коду и тексту ответа.
func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrInvalidRequestBody):
		return http.StatusBadRequest, e.ErrInvalidRequestBody.Error()
	case errors.Is(err, e.ErrInvalidUserID):
		return http.StatusBadRequest, e.ErrInvalidUserID.Error()
	case errors.Is(err, e.ErrInvalidTopN):
		return http.StatusBadRequest, e.ErrInvalidTopN.Error()
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrNoProfile):
		return http.StatusBadRequest, e.ErrNoProfile.Error()
	case errors.Is(err, e.ErrUserNotFound):
		return http.StatusBadRequest, e.ErrUserNotFound.Error()
	case errors.Is(err, e.ErrUpstreamFetch):
		return http.StatusBadGateway, e.ErrUpstreamFetch.Error()
	case errors.Is(err, e.ErrCatalogUnavailable):
		return http.StatusBadGateway, e.ErrCatalogUnavailable.Error()
	case errors.Is(err, e.ErrNotConfigured):
		return http.StatusServiceUnavailable, e.ErrNotConfigured.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteErrorCode(w, code, msg)
}

func WriteErrorCode(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeAndValidate читает JSON-тело запроса в dst и проверяет теги validate.
// Пустое тело трактуется как пустой объект.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", e.ErrInvalidRequestBody, err)
	}

	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}

	return nil
}

// validationError переводит ошибки валидатора в доменные.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", e.ErrInvalidRequestBody, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Field() == "UserID" {
			return fmt.Errorf("%w: %s", e.ErrInvalidUserID, fe.Tag())
		}
		fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
	}

	return fmt.Errorf("%w: %s", e.ErrInvalidRequestBody, strings.Join(fields, ", "))
}

func parseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidUserID
	}
	return id, nil
}

// parseTopN разбирает необязательный параметр top_n. Пустая строка даёт nil.
func parseTopN(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, e.ErrInvalidTopN
	}
	return &n, nil
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
