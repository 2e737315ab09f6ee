package metrics

import (
	"time"
)

// RunConfig describes one training run.
type RunConfig struct {
	ID        string
	Agent     string
	BoardSize int
	Episodes  int
	Seed      uint64
	StartTime time.Time
}

// EpisodeRecord is the outcome of one training game.
type EpisodeRecord struct {
	Episode   int
	Winner    string // "X", "O" or "draw"
	Reward    float64
	Moves     int
	Epsilon   float64
	TableSize int
	Sweeps    int
	Delta     float64
	Duration  time.Duration
}

// MatchUpRecord is the tally of one pairing seen from the AI seat.
type MatchUpRecord struct {
	ID    int
	AI    string
	Human string
	First string
	Summary

	// Search totals over the AI's moves; zero for agents that do not search.
	Simulations int64
	GuidedMoves int64
	RandomMoves int64
}

type Summary struct {
	Episodes int
	Wins     int
	Losses   int
	Draws    int
	Duration time.Duration
}

func (s Summary) WinRate() float64 {
	if s.Episodes == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Episodes)
}

type Collector interface {
	Start(run RunConfig)
	AddEpisode(record EpisodeRecord)
	Records() []EpisodeRecord
	Complete() Summary
}

type collector struct {
	run     RunConfig
	records []EpisodeRecord
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(run RunConfig) {
	if run.StartTime.IsZero() {
		run.StartTime = time.Now()
	}
	m.run = run
	m.records = m.records[:0]
}

func (m *collector) AddEpisode(record EpisodeRecord) {
	m.records = append(m.records, record)
}

func (m *collector) Records() []EpisodeRecord {
	return m.records
}

// Complete tallies the episodes by their reward sign: positive rewards are
// wins for the learning agent and negative ones losses.
func (m *collector) Complete() Summary {
	summary := Summary{Episodes: len(m.records), Duration: time.Since(m.run.StartTime)}
	for _, record := range m.records {
		switch {
		case record.Reward > 0:
			summary.Wins++
		case record.Reward < 0:
			summary.Losses++
		default:
			summary.Draws++
		}
	}
	return summary
}
