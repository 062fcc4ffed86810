package entity

import "encoding/json"

// RPCRequest is a JSON-RPC 2.0 request envelope.
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCResponse is a JSON-RPC 2.0 response envelope; Result is decoded by the
// caller into the method-specific shape.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// ContextValue wraps results the RPC nests under {"context":..., "value":...}.
type ContextValue[T any] struct {
	Value T `json:"value"`
}

// UITokenAmount is the RPC's token amount triple.
type UITokenAmount struct {
	Amount   string   `json:"amount"`
	Decimals uint8    `json:"decimals"`
	UIAmount *float64 `json:"uiAmount"`
}

// ParsedTokenAccountInfo is the jsonParsed token account payload.
type ParsedTokenAccountInfo struct {
	Mint        string        `json:"mint"`
	Owner       string        `json:"owner"`
	TokenAmount UITokenAmount `json:"tokenAmount"`
}

// TokenAccountEntry is one element of the getTokenAccountsByOwner result.
type TokenAccountEntry struct {
	Pubkey  string `json:"pubkey"`
	Account struct {
		Data struct {
			Parsed struct {
				Info ParsedTokenAccountInfo `json:"info"`
				Type string                 `json:"type"`
			} `json:"parsed"`
		} `json:"data"`
	} `json:"account"`
}

// SignatureEntry is one element of the getSignaturesForAddress result.
type SignatureEntry struct {
	Signature string          `json:"signature"`
	Slot      uint64          `json:"slot"`
	Err       json.RawMessage `json:"err"`
	BlockTime *int64          `json:"blockTime"`
}

// WireTokenBalance is a pre/post token balance record inside transaction meta.
type WireTokenBalance struct {
	AccountIndex  int           `json:"accountIndex"`
	Mint          string        `json:"mint"`
	Owner         string        `json:"owner"`
	UITokenAmount UITokenAmount `json:"uiTokenAmount"`
}

// WireInstruction is one instruction of a jsonParsed transaction message.
// Parsed is only present for instructions the RPC could decode.
type WireInstruction struct {
	ProgramID string `json:"programId"`
	Parsed    *struct {
		Type string `json:"type"`
		Info struct {
			Source      string `json:"source"`
			Destination string `json:"destination"`
			Authority   string `json:"authority"`
		} `json:"info"`
	} `json:"parsed"`
}

// WireAccountKey is one account of a jsonParsed transaction message.
type WireAccountKey struct {
	Pubkey string `json:"pubkey"`
}

// WireTransaction is the getTransaction (jsonParsed) result shape.
type WireTransaction struct {
	Slot      uint64 `json:"slot"`
	BlockTime *int64 `json:"blockTime"`
	Meta      *struct {
		Err               json.RawMessage    `json:"err"`
		Fee               uint64             `json:"fee"`
		PreBalances       []uint64           `json:"preBalances"`
		PostBalances      []uint64           `json:"postBalances"`
		PreTokenBalances  []WireTokenBalance `json:"preTokenBalances"`
		PostTokenBalances []WireTokenBalance `json:"postTokenBalances"`
	} `json:"meta"`
	Transaction struct {
		Signatures []string `json:"signatures"`
		Message    struct {
			AccountKeys  []WireAccountKey  `json:"accountKeys"`
			Instructions []WireInstruction `json:"instructions"`
		} `json:"message"`
	} `json:"transaction"`
}

// LargestAccountEntry is one element of the getTokenLargestAccounts result.
type LargestAccountEntry struct {
	Address  string   `json:"address"`
	Amount   string   `json:"amount"`
	Decimals uint8    `json:"decimals"`
	UIAmount *float64 `json:"uiAmount"`
}
