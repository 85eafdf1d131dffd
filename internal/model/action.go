package model

// LotStatus is the human-friendly state of a lot in exported trade listings.
// Keep these values stable; they are intended for CSV output.
type LotStatus string

const (
	LotOpen   LotStatus = "OPEN"
	LotClosed LotStatus = "CLOSED"
)

// Side identifies which leg of a grid trade an event belongs to.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)
