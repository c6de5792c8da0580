package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/stwalsh4118/seattle-energy/internal/errors"
)

// Response messages
const (
	MessageWelcome   = "Welcome to the Seattle building energy API! Browse the benchmarking data under /data."
	MessageNoData    = "no data found for year %d"
	MessageSubmitted = "data submitted successfully"
)

// MessageResponse carries a single informational message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SubmitResponse echoes a validated submission.
type SubmitResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

var (
	errNotObject    = errors.New("request body must be a JSON object")
	errTrailingData = errors.New("request body must hold a single JSON value")
)

// decodeObject reads the request body as a single JSON object. Numbers are
// kept as json.Number so integers survive exactly. An empty body or a
// literal null decodes to an empty object and is left to field validation.
func decodeObject(c *gin.Context) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	if c.Request.Body == nil {
		return raw, nil
	}

	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return raw, nil
		}
		return nil, err
	}

	var extra json.RawMessage
	err := dec.Decode(&extra)
	if err == nil {
		return nil, errTrailingData
	}
	if !errors.Is(err, io.EOF) {
		return nil, err
	}

	switch v := value.(type) {
	case nil:
		return raw, nil
	case map[string]interface{}:
		return v, nil
	default:
		return nil, errNotObject
	}
}

// bodyError answers a body that decodeObject rejected: 413 past the body
// limit, 400 otherwise.
func bodyError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		apierrors.BodyTooLarge(c, tooLarge.Limit)
		return
	}
	apierrors.BindingError(c, "invalid request body", err)
}
