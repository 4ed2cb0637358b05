// Package stats records typing practice.
//
// A Tracker counts key presses, lesson words and time for the running
// session and awards achievements as thresholds are crossed. When the
// session ends it is added to today's row of the daily history, and the
// all-time totals are updated. Daily history older than HistoryDays is
// dropped when a tracker starts.
//
// History lives in a SQLite database (SQLiteStore):
//
//	daily_stats   one row per calendar day
//	totals        a single row of all-time counters
//	achievements  one row per earned achievement
//
// Statistics never hold typed text.
package stats
