package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	zlog "github.com/rs/zerolog/log"

	"github.com/stwalsh4118/seattle-energy/internal/middleware"
	"github.com/stwalsh4118/seattle-energy/internal/scoring"
	"github.com/stwalsh4118/seattle-energy/internal/validation"
)

// StatusFailed is the status of every failure envelope.
const StatusFailed = "failed"

// Error kinds carried by failure envelopes
const (
	KindNotFound     = "not_found"
	KindBadRequest   = "bad_request"
	KindPrediction   = "prediction_error"
	KindInternal     = "internal_error"
	KindDatasetEmpty = "dataset_empty"
	KindTooLarge     = "payload_too_large"
)

// Messages shared with clients
const (
	MessageValidationFailed = "input validation failed"
	MessageDatasetEmpty     = "dataset empty"
	MessagePredictionFailed = "prediction failed"
	MessageModelUnavailable = "model unavailable"
	MessageBodyTooLarge     = "request body too large"
)

// FailureResponse is the envelope of every non-validation failure.
type FailureResponse struct {
	Status    string                 `json:"status"`
	Error     string                 `json:"error"`
	Kind      string                 `json:"kind,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// ValidationResponse lists every rejected field, grouped by category.
// Both categories are always present, possibly empty.
type ValidationResponse struct {
	Status    string                             `json:"status"`
	Message   string                             `json:"message"`
	Errors    map[string][]validation.FieldError `json:"errors"`
	RequestID string                             `json:"request_id,omitempty"`
}

// ValidationFailed returns 422 with every violation in verr.
func ValidationFailed(c *gin.Context, verr *validation.Error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	grouped := map[string][]validation.FieldError{
		validation.CategoryValidation: {},
		validation.CategoryCoherence:  {},
	}
	for category, fields := range verr.ByCategory() {
		grouped[category] = fields
	}

	if log != nil {
		log.Info("Validation failed", map[string]interface{}{
			"schema":     verr.Schema,
			"violations": len(verr.Fields),
			"path":       c.Request.URL.Path,
		})
	}

	c.JSON(http.StatusUnprocessableEntity, ValidationResponse{
		Status:    StatusFailed,
		Message:   MessageValidationFailed,
		Errors:    grouped,
		RequestID: requestID,
	})
}

// PredictionFailed returns 500 with kind prediction_error. The client gets
// a fixed message; the wrapped cause only goes to the log.
func PredictionFailed(c *gin.Context, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Prediction failed", err, map[string]interface{}{
			"path": c.Request.URL.Path,
		})
	}

	message := MessagePredictionFailed
	if errors.Is(err, scoring.ErrModelUnavailable) {
		message = MessageModelUnavailable
	}

	c.JSON(http.StatusInternalServerError, FailureResponse{
		Status:    StatusFailed,
		Error:     message,
		Kind:      KindPrediction,
		RequestID: requestID,
	})
}

// BodyTooLarge returns 413 when a request body exceeds limit bytes.
func BodyTooLarge(c *gin.Context, limit int64) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Warn("Request body too large", map[string]interface{}{
			"limit": limit,
			"path":  c.Request.URL.Path,
		})
	}

	c.JSON(http.StatusRequestEntityTooLarge, FailureResponse{
		Status:    StatusFailed,
		Error:     MessageBodyTooLarge,
		Kind:      KindTooLarge,
		Details:   map[string]interface{}{"limit_bytes": limit},
		RequestID: requestID,
	})
}

// DatasetUnavailable returns 503 when the catalog failed to load.
func DatasetUnavailable(c *gin.Context) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Warn("Catalog unavailable", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
	}

	c.JSON(http.StatusServiceUnavailable, FailureResponse{
		Status:    StatusFailed,
		Error:     MessageDatasetEmpty,
		Kind:      KindDatasetEmpty,
		RequestID: requestID,
	})
}

// NotFound returns a 404 failure envelope.
func NotFound(c *gin.Context, message string) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Warn("Resource not found", map[string]interface{}{
			"message": message,
			"path":    c.Request.URL.Path,
		})
	}

	c.JSON(http.StatusNotFound, FailureResponse{
		Status:    StatusFailed,
		Error:     message,
		Kind:      KindNotFound,
		RequestID: requestID,
	})
}

// BadRequest returns a 400 failure envelope with optional details.
func BadRequest(c *gin.Context, message string, details map[string]interface{}) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	logFields := map[string]interface{}{
		"message": message,
		"path":    c.Request.URL.Path,
	}
	if details != nil {
		logFields["details"] = details
	}
	if log != nil {
		log.Warn("Bad request", logFields)
	}

	c.JSON(http.StatusBadRequest, FailureResponse{
		Status:    StatusFailed,
		Error:     message,
		Kind:      KindBadRequest,
		Details:   details,
		RequestID: requestID,
	})
}

// InternalServerError logs err and returns a generic 500. err is never
// exposed to the client.
func InternalServerError(c *gin.Context, message string, err error) {
	log := middleware.GetLogger(c)
	requestID := middleware.GetRequestID(c)

	if log != nil {
		log.Error("Internal server error", err, map[string]interface{}{
			"message": message,
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	}

	c.JSON(http.StatusInternalServerError, FailureResponse{
		Status:    StatusFailed,
		Error:     message,
		Kind:      KindInternal,
		RequestID: requestID,
	})
}

// BindingError reports a failed gin binding as a 400. Validator failures
// are translated per field; any other error (a malformed path or body)
// gets a single message.
func BindingError(c *gin.Context, message string, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, message, map[string]interface{}{"reason": err.Error()})
		return
	}

	details := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Translate(trans)
	}
	BadRequest(c, message, details)
}

var trans ut.Translator

// RegisterTranslations installs the English messages used by BindingError
// on v.
func RegisterTranslations(v *validator.Validate) error {
	return entranslations.RegisterDefaultTranslations(v, trans)
}

// init registers English messages on gin's validator before any request
// can be bound.
func init() {
	english := en.New()
	trans, _ = ut.New(english, english).GetTranslator("en")
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := RegisterTranslations(v); err != nil {
		zlog.Error().Err(err).Msg("Failed to register binding translations, falling back to raw validator messages")
	}
}
