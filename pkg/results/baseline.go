// Package results records a run's per-workload metrics to disk and compares
// a later run against a saved baseline, adapted from the teacher's
// benchmark-baseline tooling to UKVSB's WorkloadResult shape.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/unum-cloud/ukvsb/pkg/bench"
	"github.com/unum-cloud/ukvsb/pkg/logging"
)

// SystemInfo captures the environment a run executed in, for baseline
// comparisons across machines.
type SystemInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUCount  int    `json:"cpu_count"`
	GoVersion string `json:"go_version"`
}

func currentSystemInfo() SystemInfo {
	return SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUCount:  runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}

// Baseline is a saved run: its timestamp, the system it ran on, and every
// workload's result.
type Baseline struct {
	Timestamp time.Time              `json:"timestamp"`
	System    SystemInfo             `json:"system"`
	Results   []*bench.WorkloadResult `json:"results"`
}

// Manager persists and compares baselines against a fixed file path.
type Manager struct {
	path   string
	logger *logging.Logger
}

// NewManager builds a baseline manager writing to and reading from path.
func NewManager(path string, logger *logging.Logger) *Manager {
	return &Manager{path: path, logger: logger}
}

// Save writes results as the new baseline at the manager's path.
func (m *Manager) Save(results []*bench.WorkloadResult) error {
	baseline := Baseline{
		Timestamp: time.Now(),
		System:    currentSystemInfo(),
		Results:   results,
	}

	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create results directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write baseline file: %w", err)
	}

	m.logger.Info("baseline saved", map[string]interface{}{
		"file":    m.path,
		"results": len(results),
	})
	return nil
}

// Load reads a previously saved baseline.
func (m *Manager) Load() (*Baseline, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	var baseline Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline: %w", err)
	}
	return &baseline, nil
}

// Comparison reports how one workload's current result differs from its
// recorded baseline.
type Comparison struct {
	Name                  string  `json:"name"`
	BaselineOpsPerSecond  float64 `json:"baseline_operations_per_second"`
	CurrentOpsPerSecond   float64 `json:"current_operations_per_second"`
	OpsPerSecondChange    float64 `json:"operations_per_second_change_percent"`
	Status                string  `json:"status"` // "improved", "regressed", "stable"
}

// regressionThreshold is the percentage change beyond which a workload is
// flagged improved/regressed rather than stable.
const regressionThreshold = 5.0

// Compare loads the saved baseline and compares current against it.
func (m *Manager) Compare(current []*bench.WorkloadResult) ([]Comparison, error) {
	baseline, err := m.Load()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*bench.WorkloadResult, len(baseline.Results))
	for _, r := range baseline.Results {
		byName[r.Name] = r
	}

	comparisons := make([]Comparison, 0, len(current))
	for _, cur := range current {
		base, ok := byName[cur.Name]
		if !ok {
			m.logger.Warn("no baseline for workload", map[string]interface{}{"workload": cur.Name})
			continue
		}
		comparisons = append(comparisons, compareOne(base, cur))
	}
	return comparisons, nil
}

func compareOne(base, cur *bench.WorkloadResult) Comparison {
	change := percentChange(base.OperationsPerSecond, cur.OperationsPerSecond)
	status := "stable"
	switch {
	case change > regressionThreshold:
		status = "improved"
	case change < -regressionThreshold:
		status = "regressed"
	}
	return Comparison{
		Name:                 cur.Name,
		BaselineOpsPerSecond: base.OperationsPerSecond,
		CurrentOpsPerSecond:  cur.OperationsPerSecond,
		OpsPerSecondChange:   change,
		Status:               status,
	}
}

func percentChange(base, cur float64) float64 {
	if base == 0 {
		if cur == 0 {
			return 0
		}
		return 100
	}
	return (cur - base) / base * 100
}
