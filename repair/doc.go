// Package repair turns a raw, gap-ridden traffic series into a clean,
// evenly spaced hourly series ready for model fitting.
//
// The stages run in a strict order, each assuming the invariants of the
// previous one:
//
//  1. Dedup: duplicate timestamps are averaged away.
//  2. FillHourly: every missing hourly slot between the first and last
//     timestamp is inserted with all values missing.
//  3. NullZeroDays: a calendar day whose observed hours sum to exactly
//     zero traffic is treated as a sensor outage and fully nulled.
//  4. Interpolate: remaining gaps are filled linearly between the nearest
//     observed neighbors; gaps at the series boundary stay missing.
//
// FlagOutliers then decomposes the cleaned traffic and reports points
// whose remainder falls outside 3x-IQR Tukey fences. Flags are diagnostic
// only; the series is never altered by them.
package repair
