package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// MeanResponse is a mean with its confidence.
type MeanResponse struct {
	Mean    Number `json:"mean"`
	Conf    Number `json:"conf"`
	Display string `json:"display"`
	Samples int    `json:"samples"`
}

// ACFResponse holds an autocovariance (or autocorrelation) and its AR(1) fit.
type ACFResponse struct {
	ACF   []Number `json:"acf"`
	AR1   Number   `json:"ar1"`
	NLags int      `json:"nlags"`
}

// CorrLengthResponse holds a correlation length estimate.
type CorrLengthResponse struct {
	CorrLength Number `json:"corr_length"`
	AR1        Number `json:"ar1"`
}

// RoundResponse holds a rounded uncertain quantity.
type RoundResponse struct {
	Value   Number `json:"value"`
	Conf    Number `json:"conf"`
	Display string `json:"display"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
