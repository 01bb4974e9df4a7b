// Package progress implements the deterministic metrics engine behind the
// mastery API: topic stability and revision scheduling, study streaks,
// course and account rollups, and velocity and weekly-goal tracking.
//
// The engine is pure. Callers load the records a recompute needs, pass them
// in together with the current time, and persist the returned copies. No
// function here touches storage, shares state, or mutates its inputs, which
// makes every recompute idempotent for a fixed clock reading.
package progress
