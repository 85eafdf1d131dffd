package handlers

import (
	"context"
	"errors"
	"net/http"

	"grid-backtest/internal/api/models"
	"grid-backtest/internal/data"
	"grid-backtest/internal/model"

	"github.com/gin-gonic/gin"
)

var errDataFetch = errors.New("failed to fetch fund data")

// statusClientClosedRequest is the nginx convention for a request abandoned by the client.
const statusClientClosedRequest = 499

// requestError is a client mistake that maps directly to a 400 with Code.
type requestError struct {
	Code    string
	Message string
}

func (e *requestError) Error() string { return e.Message }

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: message},
	})
}

func writeError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func classifyError(err error) (int, models.ErrorDetail) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return http.StatusBadRequest, models.ErrorDetail{Code: reqErr.Code, Message: reqErr.Message}
	}

	var fetchErr *data.FetchError
	if errors.As(err, &fetchErr) {
		status := http.StatusBadGateway
		switch fetchErr.Code {
		case "MISSING_FUND_CODE":
			status = http.StatusBadRequest
		case "FUND_NOT_FOUND":
			status = http.StatusNotFound
		case "RATE_LIMIT_EXCEEDED":
			status = http.StatusTooManyRequests
		}
		return status, models.ErrorDetail{
			Code:    fetchErr.Code,
			Message: fetchErr.Message,
			Details: map[string]any{"status_code": fetchErr.StatusCode},
		}
	}
	if errors.Is(err, errDataFetch) {
		return http.StatusBadGateway, models.ErrorDetail{Code: "DATA_FETCH_ERROR", Message: err.Error()}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, models.ErrorDetail{Code: "REQUEST_CANCELLED", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, models.ErrorDetail{Code: "REQUEST_TIMEOUT", Message: err.Error()}
	}

	detail := models.ErrorDetail{Message: err.Error()}
	var seriesErr *model.SeriesError
	if errors.As(err, &seriesErr) {
		detail.Details = map[string]any{
			"index":     seriesErr.Index,
			"timestamp": seriesErr.Timestamp,
			"price":     seriesErr.Price,
		}
	}
	switch {
	case errors.Is(err, model.ErrEmptySeries):
		detail.Code = "EMPTY_SERIES"
	case errors.Is(err, model.ErrInvalidPrice):
		detail.Code = "INVALID_PRICE"
	case errors.Is(err, model.ErrUnsortedSeries):
		detail.Code = "UNSORTED_SERIES"
	case errors.Is(err, model.ErrInvalidParams):
		detail.Code = "INVALID_PARAMS"
	default:
		return http.StatusInternalServerError, models.ErrorDetail{Code: "INTERNAL_ERROR", Message: err.Error()}
	}
	return http.StatusBadRequest, detail
}
