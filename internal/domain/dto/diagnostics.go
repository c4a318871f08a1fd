package dto

import "github.com/guttosm/stockdash/internal/domain/models"

// APICheckResponse is returned by GET /api/check.
type APICheckResponse struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"API is running"`
}

// YahooTestResult reports a live fetch attempt made by GET /api/test-yahoo.
//
// DataShape is [rows, columns] of the received table, mirroring the way the
// dashboard prints it ("Data shape: 21,5").
type YahooTestResult struct {
	Symbol              string            `json:"symbol" example:"AAPL"`
	Period              string            `json:"period" example:"1mo"`
	Timestamp           string            `json:"timestamp" example:"2025-01-01T10:00:00Z"`
	Success             bool              `json:"success"`
	Error               *string           `json:"error"`
	DataReceived        bool              `json:"data_received"`
	DataShape           []int             `json:"data_shape"`
	DataColumns         []string          `json:"data_columns,omitempty"`
	DataSample          []models.PriceBar `json:"data_sample"`
	ExecutionTime       float64           `json:"execution_time" example:"0.42"`
	DataConversionError string            `json:"data_conversion_error,omitempty"`
}

// YahooAccessReport describes a direct GET of the Yahoo quote page made by
// GET /api/check-yahoo-response.
type YahooAccessReport struct {
	URL            string            `json:"url" example:"https://finance.yahoo.com/quote/AAPL"`
	StatusCode     int               `json:"status_code" example:"200"`
	ContentType    string            `json:"content_type" example:"text/html; charset=utf-8"`
	ResponseLength int               `json:"response_length" example:"123456"`
	IsAccessible   bool              `json:"is_accessible"`
	Headers        map[string]string `json:"headers"`
	ContentPreview string            `json:"content_preview,omitempty"`
}
