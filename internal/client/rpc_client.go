package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"wallet_dashboard/internal/domain/entity"
	rpc_entity "wallet_dashboard/internal/entity"
	"wallet_dashboard/internal/pkg/resilient"
)

// TokenProgramID is the ledger's fungible token program.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// LedgerClient defines the interface for reading the ledger RPC provider.
type LedgerClient interface {
	GetNativeBalance(ctx context.Context, address string) (uint64, error)
	GetParsedTokenAccounts(ctx context.Context, owner string) ([]entity.TokenAccount, error)
	ListSignatures(ctx context.Context, address string, limit int, before string) ([]entity.SignatureInfo, error)
	GetParsedTransaction(ctx context.Context, signature string) (*entity.ParsedTransaction, error)
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]entity.LargestAccount, error)
	GetTokenSupply(ctx context.Context, mint string) (float64, error)
}

// ledgerClientImpl talks JSON-RPC to the configured ledger endpoint. Every
// call goes through the shared resilient caller for pacing, deadline and
// retry handling.
type ledgerClientImpl struct {
	client   *fasthttp.Client
	endpoint string
	timeout  time.Duration
	caller   *resilient.Caller
	logger   *zap.Logger
}

// NewLedgerClient creates a new ledger RPC client.
func NewLedgerClient(endpoint string, timeout time.Duration, caller *resilient.Caller, logger *zap.Logger) LedgerClient {
	return &ledgerClientImpl{
		client:   &fasthttp.Client{},
		endpoint: endpoint,
		timeout:  timeout,
		caller:   caller,
		logger:   logger.Named("LedgerClient"),
	}
}

// call performs one JSON-RPC method call under the resilient policy and
// decodes the result into out.
func (c *ledgerClientImpl) call(ctx context.Context, method string, params []any, out any) error {
	return c.caller.Do(ctx, method, func(ctx context.Context) error {
		body, err := json.Marshal(rpc_entity.RPCRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  method,
			Params:  params,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", method, err)
		}

		var rpcResp rpc_entity.RPCResponse
		if err := doJSON(ctx, c.client, fasthttp.MethodPost, c.endpoint, body, c.timeout, &rpcResp); err != nil {
			return err
		}
		if rpcResp.Error != nil {
			return fmt.Errorf("rpc %s failed: %s (code %d)", method, rpcResp.Error.Message, rpcResp.Error.Code)
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return &entity.ParseError{Record: method, Err: err}
		}
		return nil
	})
}

// GetNativeBalance returns the wallet's native balance in smallest units.
func (c *ledgerClientImpl) GetNativeBalance(ctx context.Context, address string) (uint64, error) {
	var result rpc_entity.ContextValue[uint64]
	if err := c.call(ctx, "getBalance", []any{address}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// GetParsedTokenAccounts returns the owner's parsed token accounts. A single
// malformed account record is skipped, not fatal.
func (c *ledgerClientImpl) GetParsedTokenAccounts(ctx context.Context, owner string) ([]entity.TokenAccount, error) {
	params := []any{
		owner,
		map[string]any{"programId": TokenProgramID},
		map[string]any{"encoding": "jsonParsed"},
	}
	var result rpc_entity.ContextValue[[]rpc_entity.TokenAccountEntry]
	if err := c.call(ctx, "getTokenAccountsByOwner", params, &result); err != nil {
		return nil, err
	}

	accounts := make([]entity.TokenAccount, 0, len(result.Value))
	for _, acc := range result.Value {
		info := acc.Account.Data.Parsed.Info
		if info.Mint == "" {
			c.logger.Warn("Skipping token account without parsed info", zap.String("pubkey", acc.Pubkey))
			continue
		}
		raw, err := strconv.ParseUint(info.TokenAmount.Amount, 10, 64)
		if err != nil {
			c.logger.Warn("Skipping token account with unparseable amount",
				zap.String("mint", info.Mint),
				zap.String("amount", info.TokenAmount.Amount),
				zap.Error(err))
			continue
		}
		uiAmount := entity.UIAmountFromRaw(raw, info.TokenAmount.Decimals)
		if info.TokenAmount.UIAmount != nil {
			uiAmount = *info.TokenAmount.UIAmount
		}
		accounts = append(accounts, entity.TokenAccount{
			Mint:       info.Mint,
			RawBalance: raw,
			Decimals:   info.TokenAmount.Decimals,
			UIAmount:   uiAmount,
		})
	}
	return accounts, nil
}

// ListSignatures returns up to limit signatures for the address, newest
// first, starting below the optional before cursor.
func (c *ledgerClientImpl) ListSignatures(ctx context.Context, address string, limit int, before string) ([]entity.SignatureInfo, error) {
	opts := map[string]any{"limit": limit}
	if before != "" {
		opts["before"] = before
	}
	var result []rpc_entity.SignatureEntry
	if err := c.call(ctx, "getSignaturesForAddress", []any{address, opts}, &result); err != nil {
		return nil, err
	}

	sigs := make([]entity.SignatureInfo, 0, len(result))
	for _, s := range result {
		info := entity.SignatureInfo{
			Signature: s.Signature,
			Slot:      s.Slot,
			Failed:    len(s.Err) > 0 && string(s.Err) != "null",
		}
		if s.BlockTime != nil {
			info.BlockTime = *s.BlockTime
		}
		sigs = append(sigs, info)
	}
	return sigs, nil
}

// GetParsedTransaction returns the typed intermediate for one signature, or
// ErrNotAvailable when the ledger no longer has it.
func (c *ledgerClientImpl) GetParsedTransaction(ctx context.Context, signature string) (*entity.ParsedTransaction, error) {
	params := []any{
		signature,
		map[string]any{"encoding": "jsonParsed", "maxSupportedTransactionVersion": 0},
	}
	var wire *rpc_entity.WireTransaction
	if err := c.call(ctx, "getTransaction", params, &wire); err != nil {
		return nil, err
	}
	if wire == nil {
		return nil, fmt.Errorf("transaction %s: %w", signature, entity.ErrNotAvailable)
	}
	if wire.Meta == nil {
		return nil, &entity.ParseError{Record: signature, Err: fmt.Errorf("transaction meta missing")}
	}

	parsed := &entity.ParsedTransaction{
		Signature:    signature,
		Slot:         wire.Slot,
		Fee:          wire.Meta.Fee,
		Failed:       len(wire.Meta.Err) > 0 && string(wire.Meta.Err) != "null",
		PreBalances:  wire.Meta.PreBalances,
		PostBalances: wire.Meta.PostBalances,
	}
	if len(wire.Transaction.Signatures) > 0 {
		parsed.Signature = wire.Transaction.Signatures[0]
	}
	if wire.BlockTime != nil {
		parsed.BlockTime = *wire.BlockTime
	}
	for _, key := range wire.Transaction.Message.AccountKeys {
		parsed.AccountKeys = append(parsed.AccountKeys, key.Pubkey)
	}
	parsed.PreTokenBalances = mapTokenBalances(wire.Meta.PreTokenBalances)
	parsed.PostTokenBalances = mapTokenBalances(wire.Meta.PostTokenBalances)
	for _, ins := range wire.Transaction.Message.Instructions {
		mapped := entity.ParsedInstruction{ProgramID: ins.ProgramID}
		if ins.Parsed != nil {
			mapped.Kind = ins.Parsed.Type
			mapped.Source = ins.Parsed.Info.Source
			mapped.Destination = ins.Parsed.Info.Destination
			mapped.Authority = ins.Parsed.Info.Authority
		}
		parsed.Instructions = append(parsed.Instructions, mapped)
	}
	return parsed, nil
}

func mapTokenBalances(wire []rpc_entity.WireTokenBalance) []entity.TokenBalanceSnapshot {
	out := make([]entity.TokenBalanceSnapshot, 0, len(wire))
	for _, b := range wire {
		snap := entity.TokenBalanceSnapshot{
			Mint:     b.Mint,
			Owner:    b.Owner,
			Decimals: b.UITokenAmount.Decimals,
		}
		if b.UITokenAmount.UIAmount != nil {
			snap.UIAmount = *b.UITokenAmount.UIAmount
		}
		out = append(out, snap)
	}
	return out
}

// GetTokenLargestAccounts returns the mint's largest token accounts.
func (c *ledgerClientImpl) GetTokenLargestAccounts(ctx context.Context, mint string) ([]entity.LargestAccount, error) {
	var result rpc_entity.ContextValue[[]rpc_entity.LargestAccountEntry]
	if err := c.call(ctx, "getTokenLargestAccounts", []any{mint}, &result); err != nil {
		return nil, err
	}

	accounts := make([]entity.LargestAccount, 0, len(result.Value))
	for _, acc := range result.Value {
		ui := 0.0
		if acc.UIAmount != nil {
			ui = *acc.UIAmount
		} else if raw, err := strconv.ParseUint(acc.Amount, 10, 64); err == nil {
			ui = entity.UIAmountFromRaw(raw, acc.Decimals)
		}
		accounts = append(accounts, entity.LargestAccount{Address: acc.Address, UIAmount: ui})
	}
	return accounts, nil
}

// GetTokenSupply returns the mint's total supply in UI units.
func (c *ledgerClientImpl) GetTokenSupply(ctx context.Context, mint string) (float64, error) {
	var result rpc_entity.ContextValue[rpc_entity.UITokenAmount]
	if err := c.call(ctx, "getTokenSupply", []any{mint}, &result); err != nil {
		return 0, err
	}
	if result.Value.UIAmount != nil {
		return *result.Value.UIAmount, nil
	}
	raw, err := strconv.ParseUint(result.Value.Amount, 10, 64)
	if err != nil {
		return 0, &entity.ParseError{Record: mint, Err: err}
	}
	return entity.UIAmountFromRaw(raw, result.Value.Decimals), nil
}
