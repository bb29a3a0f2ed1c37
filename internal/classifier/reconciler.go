package classifier

import (
	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/registry"
)

// assetCatalog resolves mint -> AssetRef for one transaction. The registry
// is authoritative for core assets; balance-change rows (from any owner,
// including pool accounts) supply decimals for everything else.
type assetCatalog struct {
	reg   *registry.Registry
	infos map[string]domain.AssetRef
}

func buildCatalog(reg *registry.Registry, tx *domain.RawTransaction) *assetCatalog {
	c := &assetCatalog{reg: reg, infos: make(map[string]domain.AssetRef)}
	for _, bc := range tx.BalanceChanges {
		if _, seen := c.infos[bc.Asset.Mint]; !seen {
			c.infos[bc.Asset.Mint] = bc.Asset
		}
	}
	return c
}

// resolve returns the asset ref for a mint and whether its decimals are known.
func (c *assetCatalog) resolve(mint string) (domain.AssetRef, bool) {
	if core, ok := c.reg.Lookup(mint); ok {
		return core.AssetRef, true
	}
	if info, ok := c.infos[mint]; ok {
		return info, true
	}
	return domain.AssetRef{Mint: mint}, false
}

// deltaTable accumulates NetDelta entries keyed by mint, preserving
// first-touch order so repeated classifications emit identical output.
type deltaTable struct {
	order   []string
	entries map[string]*domain.NetDelta
}

func newDeltaTable() *deltaTable {
	return &deltaTable{entries: make(map[string]*domain.NetDelta)}
}

func (t *deltaTable) get(mint string) (*domain.NetDelta, bool) {
	e, ok := t.entries[mint]
	return e, ok
}

func (t *deltaTable) upsert(asset domain.AssetRef) *domain.NetDelta {
	if e, ok := t.entries[asset.Mint]; ok {
		return e
	}
	e := &domain.NetDelta{Asset: asset}
	t.entries[asset.Mint] = e
	t.order = append(t.order, asset.Mint)
	return e
}

func (t *deltaTable) list() []domain.NetDelta {
	out := make([]domain.NetDelta, 0, len(t.order))
	for _, mint := range t.order {
		out = append(out, *t.entries[mint])
	}
	return out
}

// reconcile merges the three evidence sources into one net-delta-per-asset
// table for the swapper. Augmentation order:
//
//  1. Balance deltas owned by the swapper seed the table (tier BALANCE).
//  2. Matching swap actions corroborate existing entries (tier added, signed
//     action magnitude retained) and create entries for assets the balance
//     feed omitted. Balance deltas already include action-moved funds, so
//     corroboration never re-adds amounts.
//  3. Transfer actions fill gaps only: they never touch an asset that steps
//     1-2 covered (tier TRANSFER_ACTION).
//
// Entries are aggregated by mint; other owners' changes are discarded here.
func reconcile(reg *registry.Registry, cat *assetCatalog, tx *domain.RawTransaction) []domain.NetDelta {
	table := newDeltaTable()

	// Step 1: swapper-owned balance deltas.
	for _, bc := range tx.BalanceChanges {
		if bc.Owner != tx.Swapper {
			continue
		}
		asset, _ := cat.resolve(bc.Asset.Mint)
		e := table.upsert(asset)
		e.SignedRaw += bc.RawDelta()
		e.Evidence = e.Evidence.With(domain.EvidenceBalance)
	}

	// Step 2: protocol swap markers.
	swapActions := 0
	for _, a := range tx.Actions {
		if a.Kind == domain.ActionSwap {
			swapActions++
		}
	}
	for _, a := range tx.Actions {
		if a.Kind != domain.ActionSwap {
			continue
		}
		if !swapActionMatches(a, tx.Swapper, swapActions) {
			continue
		}
		foldSwapLeg(table, cat, a.LegIn, -1)
		foldSwapLeg(table, cat, a.LegOut, +1)
	}

	// Snapshot the mints covered by stronger evidence before transfer fill.
	covered := make(map[string]bool, len(table.entries))
	for mint := range table.entries {
		covered[mint] = true
	}

	// Step 3: transfer markers fill what is still missing.
	for _, a := range tx.Actions {
		var mint string
		switch a.Kind {
		case domain.ActionNativeTransfer:
			mint = reg.Native().Mint
		case domain.ActionTokenTransfer:
			mint = a.Mint
		default:
			continue
		}
		if covered[mint] || a.RawAmount == 0 {
			continue
		}

		var signed domain.RawAmount
		if a.Sender == tx.Swapper {
			signed -= a.RawAmount
		}
		if a.Receiver == tx.Swapper {
			signed += a.RawAmount
		}
		if a.Sender != tx.Swapper && a.Receiver != tx.Swapper {
			continue
		}

		asset, _ := cat.resolve(mint)
		e := table.upsert(asset)
		e.SignedRaw += signed
		e.Evidence = e.Evidence.With(domain.EvidenceTransferAction)
	}

	return table.list()
}

// swapActionMatches decides whether a swap action describes the swapper:
// either its hint names the swapper, or it carries no hint and is the only
// swap action in the transaction.
func swapActionMatches(a domain.ActionRecord, swapper string, totalSwapActions int) bool {
	if a.SwapperHint != "" {
		return a.SwapperHint == swapper
	}
	return totalSwapActions == 1
}

// foldSwapLeg applies one swap-action leg. sign is -1 for the leg the
// swapper pays in, +1 for the leg it receives. For assets already seeded
// from balances the action only corroborates; for omitted assets (the known
// balance-feed gap on reference-asset legs) it creates the entry.
func foldSwapLeg(table *deltaTable, cat *assetCatalog, leg domain.SwapActionLeg, sign int) {
	if leg.Mint == "" || leg.RawAmount == 0 {
		return
	}
	signed := leg.RawAmount.Abs()
	if sign < 0 {
		signed = -signed
	}

	if e, ok := table.get(leg.Mint); ok {
		e.Evidence = e.Evidence.With(domain.EvidenceSwapAction)
		accumulateActionRaw(e, signed)
		return
	}

	asset, _ := cat.resolve(leg.Mint)
	e := table.upsert(asset)
	e.SignedRaw += signed
	e.Evidence = e.Evidence.With(domain.EvidenceSwapAction)
	accumulateActionRaw(e, signed)
}

func accumulateActionRaw(e *domain.NetDelta, signed domain.RawAmount) {
	if e.ActionRaw == nil {
		v := signed
		e.ActionRaw = &v
		return
	}
	*e.ActionRaw += signed
}
