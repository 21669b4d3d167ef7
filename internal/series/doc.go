// Package series provides time-series statistics and the trajectory containers
// used to store filter output.
//
// The statistics cover sample autocovariance, AR(1) fitting of an empirical
// autocovariance, correlation-length estimation and a serial-correlation
// corrected confidence of the mean. UncertainQtty pairs an estimate with its
// confidence and prints it rounded to the precision the confidence supports.
//
// The containers are DataSeries (a NaN-initialised array indexed along its
// leading axis), FAUSt (forecast, analysis, smoothed and universal series
// selected by Tag) and RollingArray (a fixed-capacity buffer that rolls left as
// new items are inserted). None of the containers are safe for concurrent
// mutation.
package series
