package entity

// SignatureInfo is one entry from the ledger's signature listing for an address.
type SignatureInfo struct {
	Signature string
	Slot      uint64
	BlockTime int64
	Failed    bool
}

// TokenBalanceSnapshot is a token account balance before or after a transaction,
// attributed to its owning wallet.
type TokenBalanceSnapshot struct {
	Mint     string
	Owner    string
	UIAmount float64
	Decimals uint8
}

// ParsedInstruction is the decoded view of one instruction. Source, Destination
// and Authority are only populated for parsed transfer-style instructions.
type ParsedInstruction struct {
	ProgramID   string
	Kind        string
	Source      string
	Destination string
	Authority   string
}

// ParsedTransaction is the typed intermediate decoded from the provider's
// loosely-typed transaction payload. The classifier works on this alone.
type ParsedTransaction struct {
	Signature         string
	Slot              uint64
	BlockTime         int64
	Fee               uint64
	Failed            bool
	AccountKeys       []string
	PreBalances       []uint64
	PostBalances      []uint64
	PreTokenBalances  []TokenBalanceSnapshot
	PostTokenBalances []TokenBalanceSnapshot
	Instructions      []ParsedInstruction
}

// TokenAccount is one parsed token account owned by a wallet.
type TokenAccount struct {
	Mint       string
	RawBalance uint64
	Decimals   uint8
	UIAmount   float64
}
