package models

// SeriesRequest carries a scalar time series.
type SeriesRequest struct {
	Values []Number `json:"values"`
}

// ACFRequest asks for the autocovariance of a series.
type ACFRequest struct {
	Values   []Number `json:"values"`
	NLags    *int     `json:"nlags,omitempty"` // defaults to len(values)-1
	ZeroMean bool     `json:"zero_mean"`
	Corr     bool     `json:"corr"`
}

// RoundRequest asks for an uncertain quantity to be rounded and displayed.
type RoundRequest struct {
	Value            Number `json:"value"`
	Conf             Number `json:"conf"`
	SigFig           int    `json:"sig_fig,omitempty"`
	ZeroConfDecimals *int   `json:"zero_conf_decimals,omitempty"`
}
