// Package service implements the booking core: field allocation,
// session lifecycle, roster management with cost splitting, and the
// advisory self-conflict pre-check. Services own their transactions
// against an injected *sql.DB and call repository ...Tx methods; no
// package-level state is involved.
package service

import "math"

// SplitCost returns each active participant's share when total is
// divided among k members, rounded half-up to two decimal places.
// Rounded shares may not re-sum exactly to total; that drift is
// accepted rather than distributing remainder pennies across members,
// so every member always sees the same figure.
func SplitCost(total float64, k int) float64 {
	if k <= 0 {
		return 0
	}
	return math.Floor(total/float64(k)*100+0.5) / 100
}
