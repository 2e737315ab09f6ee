package searcher

import (
	"time"
)

type SearchMetrics struct {
	StartTime    time.Time
	Duration     time.Duration
	Simulations  int64
	GuidedMoves  int64
	RandomMoves  int64
	TreeSize     int
	TerminalRoot bool
}

type MetricsCollector interface {
	Start()
	AddSimulation()
	AddRolloutMove(guided bool)
	Complete(treeSize int, terminalRoot bool) SearchMetrics
}

type metricsCollector struct {
	startTime   time.Time
	simulations int64
	guided      int64
	random      int64
}

func NewMetricsCollector() MetricsCollector {
	return &metricsCollector{}
}

func (m *metricsCollector) Start() {
	m.startTime = time.Now()
	m.simulations = 0
	m.guided = 0
	m.random = 0
}

func (m *metricsCollector) AddSimulation() {
	m.simulations++
}

func (m *metricsCollector) AddRolloutMove(guided bool) {
	if guided {
		m.guided++
	} else {
		m.random++
	}
}

func (m *metricsCollector) Complete(treeSize int, terminalRoot bool) SearchMetrics {
	return SearchMetrics{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Simulations:  m.simulations,
		GuidedMoves:  m.guided,
		RandomMoves:  m.random,
		TreeSize:     treeSize,
		TerminalRoot: terminalRoot,
	}
}

type noMetricsCollector struct{}

func NewNoMetricsCollector() MetricsCollector {
	return &noMetricsCollector{}
}

func (m *noMetricsCollector) Start()                     {}
func (m *noMetricsCollector) AddSimulation()             {}
func (m *noMetricsCollector) AddRolloutMove(guided bool) {}
func (m *noMetricsCollector) Complete(int, bool) SearchMetrics {
	return SearchMetrics{}
}
