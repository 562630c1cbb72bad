package types

// SignalType is the discrete trading decision a strategy emits for one bar.
// Signals carry no state; a fresh one is produced at every bar.
type SignalType string

const (
	// SignalTypeBuy tells the simulator to open a long position
	SignalTypeBuy SignalType = "buy"
	// SignalTypeSell tells the simulator to close the long position
	SignalTypeSell SignalType = "sell"
	// SignalTypeHold tells the simulator to take no action
	SignalTypeHold SignalType = "hold"
	// SignalTypeLong tells the pairs simulator to go long the spread
	SignalTypeLong SignalType = "long"
	// SignalTypeShort tells the pairs simulator to go short the spread
	SignalTypeShort SignalType = "short"
	// SignalTypeExit tells the pairs simulator to close the spread position
	SignalTypeExit SignalType = "exit"
)

// Side is the direction of a fill, used by the cost model to decide which
// way slippage moves the price.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)
