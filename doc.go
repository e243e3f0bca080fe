// Package dedalus implements a distributed spectral data engine: a
// Distributor/Layout graph describing how a D-dimensional field is split
// across an R-dimensional process mesh, a Field buffer that navigates that
// graph on demand, and a set of spectral bases (Chebyshev, Fourier,
// SinCos, Compound) providing the forward/backward transforms and
// coefficient-space operators the navigation steps through.
//
// # Packages
//
//   - basis: spectral basis transforms (Chebyshev, Fourier, SinCos,
//     Compound) — forward/backward, differentiate, integrate, interpolate,
//     and dense operator matrices.
//   - domain: ties an ordered basis list to a process mesh and owns the
//     resulting Distributor and field free list.
//   - mesh: the Distributor/Layout graph and its Transform/Transpose paths.
//   - field: the Field buffer and layout-navigation protocol.
//   - config: shared library/tolerance configuration.
//   - fftlib, r2r: complex and real-to-real FFT backends basis uses.
//   - poisson: SpectralHelmholtz, a worked consumer solving the screened
//     Poisson equation over a periodic domain built from this core.
//   - grid: N-D shape, stride, and line-iteration utilities.
package dedalus
