package service

import (
	"sort"

	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
)

const (
	// nativeDeltaEpsilon hides dust-level native movements (rent, fee noise).
	nativeDeltaEpsilon = 0.001
	// tokenDeltaEpsilon hides rounding noise in token UI amounts.
	tokenDeltaEpsilon = 1e-6
)

// swapPrograms maps the on-chain program IDs of known swap venues to their
// display names.
var swapPrograms = map[string]string{
	"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4":  "Jupiter",
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "Raydium",
	"9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM": "Orca",
	"22Y43yTVxuUkoRKdm9thyRhQ3SdgQS7c7kB6UNCiaczD": "Serum",
}

// SymbolLookup resolves a mint to a display symbol without touching the
// network. The classifier itself performs no IO.
type SymbolLookup func(mint string) string

// Classifier turns a parsed ledger transaction into a classified, user-facing
// event from one wallet's point of view.
type Classifier struct {
	symbolFor SymbolLookup
	logger    *zap.Logger
}

// NewClassifier creates a Classifier using symbolFor for display symbols.
func NewClassifier(symbolFor SymbolLookup, logger *zap.Logger) *Classifier {
	return &Classifier{
		symbolFor: symbolFor,
		logger:    logger.Named("Classifier"),
	}
}

// Classify returns the classified event for wallet, or nil when the
// transaction failed on chain or moved nothing the wallet would care about.
// Swap detection runs first; a swap program with no recoverable leg falls
// through to the plain transfer checks.
func (c *Classifier) Classify(tx *entity.ParsedTransaction, wallet string) *entity.Transaction {
	if tx == nil || tx.Failed {
		return nil
	}

	if venue, ok := c.swapVenue(tx); ok {
		if swapTx := c.classifySwap(tx, wallet, venue); swapTx != nil {
			return swapTx
		}
	}

	if nativeTx := c.classifyNative(tx, wallet); nativeTx != nil {
		return nativeTx
	}
	return c.classifyToken(tx, wallet)
}

func (c *Classifier) swapVenue(tx *entity.ParsedTransaction) (string, bool) {
	for _, ins := range tx.Instructions {
		if venue, ok := swapPrograms[ins.ProgramID]; ok {
			return venue, true
		}
	}
	return "", false
}

// ownerDeltas collects the wallet's balance changes per mint in UI units. The
// native delta joins only when it clears the dust threshold, so fee-only
// movement never masquerades as a swap leg.
func (c *Classifier) ownerDeltas(tx *entity.ParsedTransaction, wallet string) map[string]float64 {
	deltas := make(map[string]float64)
	for _, b := range tx.PreTokenBalances {
		if b.Owner == wallet {
			deltas[b.Mint] -= b.UIAmount
		}
	}
	for _, b := range tx.PostTokenBalances {
		if b.Owner == wallet {
			deltas[b.Mint] += b.UIAmount
		}
	}
	for mint, d := range deltas {
		if d > -tokenDeltaEpsilon && d < tokenDeltaEpsilon {
			delete(deltas, mint)
		}
	}

	if native, ok := c.nativeDelta(tx, wallet); ok && (native > nativeDeltaEpsilon || native < -nativeDeltaEpsilon) {
		deltas[entity.NativeMint] += native
	}
	return deltas
}

// nativeDelta returns the wallet's native balance change in UI units.
func (c *Classifier) nativeDelta(tx *entity.ParsedTransaction, wallet string) (float64, bool) {
	for i, key := range tx.AccountKeys {
		if key != wallet {
			continue
		}
		if i >= len(tx.PreBalances) || i >= len(tx.PostBalances) {
			return 0, false
		}
		pre := float64(tx.PreBalances[i]) / entity.LamportsPerNative
		post := float64(tx.PostBalances[i]) / entity.LamportsPerNative
		return post - pre, true
	}
	return 0, false
}

// classifySwap recovers the swap legs from the wallet's balance deltas. Mints
// are walked in sorted order so ties resolve the same way every time.
func (c *Classifier) classifySwap(tx *entity.ParsedTransaction, wallet, venue string) *entity.Transaction {
	deltas := c.ownerDeltas(tx, wallet)
	if len(deltas) == 0 {
		return nil
	}

	mints := make([]string, 0, len(deltas))
	for mint := range deltas {
		mints = append(mints, mint)
	}
	sort.Strings(mints)

	var fromMint, toMint string
	var fromDelta, toDelta float64
	for _, mint := range mints {
		d := deltas[mint]
		if d < fromDelta {
			fromMint, fromDelta = mint, d
		}
		if d > toDelta {
			toMint, toDelta = mint, d
		}
	}
	if fromMint == "" && toMint == "" {
		return nil
	}

	leg := &entity.SwapLeg{Resolution: entity.SwapResolved}
	switch {
	case fromMint != "" && toMint != "":
		leg.FromMint = fromMint
		leg.FromSymbol = c.symbolFor(fromMint)
		leg.FromAmount = -fromDelta
		leg.ToMint = toMint
		leg.ToSymbol = c.symbolFor(toMint)
		leg.ToAmount = toDelta
	case fromMint != "":
		leg.Resolution = entity.SwapPartial
		leg.FromMint = fromMint
		leg.FromSymbol = c.symbolFor(fromMint)
		leg.FromAmount = -fromDelta
		leg.ToSymbol = entity.UnknownLabel
	default:
		leg.Resolution = entity.SwapPartial
		leg.FromSymbol = entity.UnknownLabel
		leg.ToMint = toMint
		leg.ToSymbol = c.symbolFor(toMint)
		leg.ToAmount = toDelta
	}

	amountMint := leg.FromMint
	amount := leg.FromAmount
	if amountMint == "" {
		amountMint = leg.ToMint
		amount = leg.ToAmount
	}

	return &entity.Transaction{
		Signature:    tx.Signature,
		Kind:         entity.KindSwap,
		Amount:       amount,
		Mint:         amountMint,
		Symbol:       c.symbolFor(amountMint),
		Counterparty: venue,
		Timestamp:    tx.BlockTime,
		Fee:          float64(tx.Fee) / entity.LamportsPerNative,
		Slot:         tx.Slot,
		Swap:         leg,
	}
}

// classifyNative reports a native send or receive when the wallet's native
// balance moved beyond the dust threshold. The network fee is deducted from
// the send amount so the reported value matches what the counterparty got.
func (c *Classifier) classifyNative(tx *entity.ParsedTransaction, wallet string) *entity.Transaction {
	delta, ok := c.nativeDelta(tx, wallet)
	if !ok || (delta > -nativeDeltaEpsilon && delta < nativeDeltaEpsilon) {
		return nil
	}

	fee := float64(tx.Fee) / entity.LamportsPerNative
	kind := entity.KindReceive
	amount := delta
	if delta < 0 {
		kind = entity.KindSend
		amount = -delta - fee
		if amount < 0 {
			amount = -delta
		}
	}

	return &entity.Transaction{
		Signature:    tx.Signature,
		Kind:         kind,
		Amount:       amount,
		Mint:         entity.NativeMint,
		Symbol:       c.symbolFor(entity.NativeMint),
		Counterparty: c.resolveCounterparty(tx, wallet, kind, entity.NativeMint),
		Timestamp:    tx.BlockTime,
		Fee:          fee,
		Slot:         tx.Slot,
	}
}

// classifyToken reports a token send or receive from the wallet's first mint
// delta beyond the noise threshold, walking mints in sorted order.
func (c *Classifier) classifyToken(tx *entity.ParsedTransaction, wallet string) *entity.Transaction {
	deltas := make(map[string]float64)
	for _, b := range tx.PreTokenBalances {
		if b.Owner == wallet {
			deltas[b.Mint] -= b.UIAmount
		}
	}
	for _, b := range tx.PostTokenBalances {
		if b.Owner == wallet {
			deltas[b.Mint] += b.UIAmount
		}
	}

	mints := make([]string, 0, len(deltas))
	for mint := range deltas {
		mints = append(mints, mint)
	}
	sort.Strings(mints)

	for _, mint := range mints {
		d := deltas[mint]
		if d > -tokenDeltaEpsilon && d < tokenDeltaEpsilon {
			continue
		}
		kind := entity.KindReceive
		amount := d
		if d < 0 {
			kind = entity.KindSend
			amount = -d
		}
		return &entity.Transaction{
			Signature:    tx.Signature,
			Kind:         kind,
			Amount:       amount,
			Mint:         mint,
			Symbol:       c.symbolFor(mint),
			Counterparty: c.resolveCounterparty(tx, wallet, kind, mint),
			Timestamp:    tx.BlockTime,
			Fee:          float64(tx.Fee) / entity.LamportsPerNative,
			Slot:         tx.Slot,
		}
	}
	return nil
}

// resolveCounterparty finds the other side of a transfer. Parsed transfer
// instructions are the authoritative source; failing that, the account with
// the opposite balance movement is used, and Unknown when neither works.
func (c *Classifier) resolveCounterparty(tx *entity.ParsedTransaction, wallet string, kind entity.TransactionKind, mint string) string {
	for _, ins := range tx.Instructions {
		if ins.Kind != "transfer" && ins.Kind != "transferChecked" {
			continue
		}
		if kind == entity.KindSend {
			if ins.Destination != "" && ins.Destination != wallet {
				return ins.Destination
			}
		} else {
			if ins.Source != "" && ins.Source != wallet {
				return ins.Source
			}
			if ins.Authority != "" && ins.Authority != wallet {
				return ins.Authority
			}
		}
	}

	if mint == entity.NativeMint {
		if cp := c.oppositeNativeParty(tx, wallet, kind); cp != "" {
			return cp
		}
	} else if cp := c.oppositeTokenParty(tx, wallet, kind, mint); cp != "" {
		return cp
	}
	return entity.UnknownLabel
}

func (c *Classifier) oppositeNativeParty(tx *entity.ParsedTransaction, wallet string, kind entity.TransactionKind) string {
	for i, key := range tx.AccountKeys {
		if key == wallet || i >= len(tx.PreBalances) || i >= len(tx.PostBalances) {
			continue
		}
		delta := (float64(tx.PostBalances[i]) - float64(tx.PreBalances[i])) / entity.LamportsPerNative
		if kind == entity.KindSend && delta > nativeDeltaEpsilon {
			return key
		}
		if kind == entity.KindReceive && delta < -nativeDeltaEpsilon {
			return key
		}
	}
	return ""
}

func (c *Classifier) oppositeTokenParty(tx *entity.ParsedTransaction, wallet string, kind entity.TransactionKind, mint string) string {
	deltas := make(map[string]float64)
	for _, b := range tx.PreTokenBalances {
		if b.Mint == mint && b.Owner != wallet && b.Owner != "" {
			deltas[b.Owner] -= b.UIAmount
		}
	}
	for _, b := range tx.PostTokenBalances {
		if b.Mint == mint && b.Owner != wallet && b.Owner != "" {
			deltas[b.Owner] += b.UIAmount
		}
	}

	owners := make([]string, 0, len(deltas))
	for owner := range deltas {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	for _, owner := range owners {
		d := deltas[owner]
		if kind == entity.KindSend && d > tokenDeltaEpsilon {
			return owner
		}
		if kind == entity.KindReceive && d < -tokenDeltaEpsilon {
			return owner
		}
	}
	return ""
}
