package interfaces

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/ExpenseTracker/internal/auth"
	financeErrors "github.com/sebuszqo/ExpenseTracker/internal/finance/errors"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
)

const dateOnlyLayout = "2006-01-02"

type respondJSONFunc = func(w http.ResponseWriter, status int, payload interface{})
type respondErrorFunc = func(w http.ResponseWriter, status int, message string)

// ValidatePathParamsMiddleware answers 404 for path ids that are not UUIDs:
// no stored record can have them.
func ValidatePathParamsMiddleware(respondError respondErrorFunc, next http.Handler, params ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			if _, err := uuid.Parse(r.PathValue(param)); err != nil {
				switch param {
				case "categoryID":
					respondError(w, http.StatusNotFound, financeErrors.ErrCategoryNotFound.Error())
				case "expenseID":
					respondError(w, http.StatusNotFound, financeErrors.ErrExpenseNotFound.Error())
				default:
					respondError(w, http.StatusNotFound, "Not found")
				}
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// parseDate accepts RFC 3339 timestamps and plain dates (UTC midnight).
func parseDate(value string) (time.Time, bool, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// errorStatus maps service errors to an HTTP status and client message.
// ok is false for errors that are not part of the finance error taxonomy.
func errorStatus(err error) (status int, message string, ok bool) {
	switch {
	case financeErrors.IsValidationError(err):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, financeErrors.ErrCategoryNotFound), errors.Is(err, financeErrors.ErrExpenseNotFound):
		return http.StatusNotFound, err.Error(), true
	case errors.Is(err, financeErrors.ErrExpenseForbidden):
		return http.StatusForbidden, err.Error(), true
	case errors.Is(err, financeErrors.ErrCategoryNameTaken):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, financeErrors.ErrCategoryInUse):
		return http.StatusBadRequest, err.Error(), true
	}
	return http.StatusInternalServerError, "Internal Server Error", false
}

func handleServiceError(w http.ResponseWriter, r *http.Request, log *slog.Logger, respondError respondErrorFunc, err error) {
	status, message, ok := errorStatus(err)
	if !ok {
		userID, _ := auth.UserIDFromContext(r.Context())
		log.Error("request failed",
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldUserID, userID,
			logger.FieldError, err,
		)
	}
	respondError(w, status, message)
}
