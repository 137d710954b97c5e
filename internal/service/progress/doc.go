// Package progress records study activity and serves study statistics.
//
// Tracker consumes the study events published by the vocabulary service and
// maintains per-day counters and the per-user streak summary. StatsService
// reads them back together with a memory strength breakdown of the user's
// saved items.
package progress
