package entity

// TransactionKind classifies a ledger transaction from the wallet's point of view.
type TransactionKind string

const (
	KindSend    TransactionKind = "send"
	KindReceive TransactionKind = "receive"
	KindSwap    TransactionKind = "swap"
)

// SwapResolution tags how completely a swap's two legs were recovered.
type SwapResolution string

const (
	// SwapResolved means both legs were identified from balance deltas.
	SwapResolved SwapResolution = "resolved"
	// SwapPartial means a swap program ran but only one leg could be
	// identified; the missing leg is reported as UnknownLabel with a zero
	// amount rather than fabricated.
	SwapPartial SwapResolution = "partial"
)

// UnknownLabel marks a counterparty or swap leg that could not be resolved.
const UnknownLabel = "Unknown"

// SwapLeg describes both sides of a swap. Present iff Kind == KindSwap.
type SwapLeg struct {
	Resolution SwapResolution `json:"resolution"`
	FromMint   string         `json:"fromMint"`
	FromSymbol string         `json:"fromSymbol"`
	FromAmount float64        `json:"fromAmount"`
	ToMint     string         `json:"toMint"`
	ToSymbol   string         `json:"toSymbol"`
	ToAmount   float64        `json:"toAmount"`
}

// Transaction is a classified, user-facing ledger event. Immutable once produced.
type Transaction struct {
	Signature    string          `json:"signature"`
	Kind         TransactionKind `json:"kind"`
	Amount       float64         `json:"amount"`
	Mint         string          `json:"mint"`
	Symbol       string          `json:"symbol"`
	Counterparty string          `json:"counterparty,omitempty"`
	Timestamp    int64           `json:"timestamp"`
	Fee          float64         `json:"fee,omitempty"`
	Slot         uint64          `json:"slot,omitempty"`
	Swap         *SwapLeg        `json:"swap,omitempty"`
}

// TransactionPage is one page of classified transactions, newest first.
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	HasMore      bool          `json:"hasMore"`
	NextCursor   string        `json:"nextCursor,omitempty"`
}
