// Package pkg provides the libraries behind linkagesim, a kinematic solver
// for scissor linkages (pantograph chains, lazy tongs).
//
// # Overview
//
// A scissor unit is two rods crossing at a pivot. A chain of units is
// described by one rod spec per unit and driven by a single parameter
// theta. Solving the chain yields two line segments per unit in a shared
// world frame. The pkg directory is organized as:
//
//  1. Domain: [dimension], [triangle], [geom], [scissor]
//  2. Boundary: [boundary] (handles and numeric status codes)
//  3. Infrastructure: [cache], [config], [observability], [errors], [buildinfo]
//
// # Architecture
//
// The data flow of one solve:
//
//	chain file (TOML/YAML/JSON)
//	         ↓
//	    [config] (decode units + drive settings)
//	         ↓
//	    [dimension] store (rod specs a, b, c, d)
//	         ↓
//	    [scissor] solver (validate, then one [triangle] per unit)
//	         ↓
//	    segments + chain endpoint
//
// # Quick Start
//
//	chain, _ := dimension.NewFilled(4, dimension.RodSpec{A: 1, B: 1, C: 0.6, D: 0.4})
//	sol, err := scissor.New().Solve(chain, math.Pi/3, 0)
//	if err != nil {
//	    i, _ := errors.UnitIndex(err) // offending unit
//	    ...
//	}
//	for _, seg := range sol.Segments {
//	    fmt.Println(seg.X1, seg.Y1, seg.X2, seg.Y2)
//	}
//
// Animate closing motion by sweeping theta:
//
//	steps, _ := scissor.New().Sweep(ctx, chain, scissor.Linspace(0.8, 0.5, 31), 0)
//	tip := scissor.Trace(steps)
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/scissor   # Examples only
//	go test -tags integration ./pkg/...  # Include Redis integration tests
package pkg
