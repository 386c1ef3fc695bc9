// Copyright 2026 The Gopipes Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"github.com/cpmech/gosl/io"
)

// NotConvergedError is returned when the Newton-Raphson iteration (or the
// Colebrook-White inner root finding) exhausts its iteration budget. The
// network's result tables are undefined afterwards, except for diagnostic
// inspection of the iteration counters in Network.Res.
type NotConvergedError struct {
	Mode       string  // hydraulics, heat, bidirectional or colebrook
	Iterations int     // iterations performed
	Residual   float64 // last residual norm
}

// Error returns the message
func (e *NotConvergedError) Error() string {
	return io.Sf("pipeflow did not converge (%s) after %d iterations. residual norm = %g", e.Mode, e.Iterations, e.Residual)
}
