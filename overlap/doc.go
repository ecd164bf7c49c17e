// Package overlap turns per-frame geometry into edge-triggered overlap events.
//
// Tracking Architecture
//
// Bodies are matched against each other (pair events) and against cell types
// of the active tile map (tile events). Each frame the active Context walks
// its tracked bodies, re-derives their state from current geometry and fires
// a handler only when that state changed since the previous frame.
//
// Pair Events:
//   - Start is reactive: fired from the physics overlap hook on first detection
//   - Stop is polled: fired from the frame scan when a recorded pair separates
//
// Tile Events (one 3-bit TileFlag word per body and cell type):
//   - Overlapping: at least one covered cell matches      -> TileStartOverlap / TileStopOverlap
//   - FullyWithin: body sits inside exactly one matching cell -> TileEnter / TileExit
//   - WithinArea: every covered cell matches              -> TileEntersArea / TileExitsArea
//
// Flags are recomputed wholesale each frame and diffed against the stored
// word; a word that returns to zero is dropped from the ledger.
//
// Contexts:
//
// A Stack holds one Context per nested scene. Only the top Context updates
// and reacts to hooks, so handlers registered under an outer scene never see
// bodies tracked by an inner one. Popping restores the outer handler set.
//
// Usage Example:
//
//	stack := overlap.NewStack(world, overlap.WithLogger(logger))
//	stack.OnTileEvent(KindPlayer, CellLava, overlap.TileEnter, func(e core.Entity) {
//	    world.Destroy(e)
//	})
//	stack.OnPairEvent(KindPlayer, KindCoin, overlap.PairStart, func(p, coin core.Entity) {
//	    score++
//	})
package overlap
