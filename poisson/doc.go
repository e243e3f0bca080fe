// Package poisson hosts worked consumers of the distributed spectral core
// (domain.Domain, field.Field, basis.Basis). SpectralHelmholtz solves the
// screened Poisson / Helmholtz equation
//
//	(alpha - Delta)u = f
//
// over a periodic domain built from one Fourier basis per axis, diving
// each mode by alpha + |k|^2 in coefficient space rather than managing its
// own FFT plans, since a Field already knows how to walk between grid and
// coefficient space along the distributor's layout graph.
package poisson
