// Package bench implements the workload-generation and execution engine:
// distribution generators, the acknowledged counter, the operation chooser,
// the per-thread worker, the workload partitioner, the thread fence, the
// orchestrator, and the background profilers.
package bench

import (
	"encoding/json"
	"fmt"
	"os"
)

// Distribution names a key or length distribution as it appears on the wire
// in a workload descriptor file.
type Distribution string

const (
	DistConst      Distribution = "const"
	DistCounter    Distribution = "counter"
	DistUniform    Distribution = "uniform"
	DistZipfian    Distribution = "zipfian"
	DistScrambled  Distribution = "scrambled"
	DistLatest     Distribution = "latest"
	DistAcknowledg Distribution = "acknowledged"
)

func parseDistribution(name string) (Distribution, error) {
	switch Distribution(name) {
	case DistConst, DistCounter, DistUniform, DistZipfian, DistScrambled, DistLatest, DistAcknowledg:
		return Distribution(name), nil
	default:
		return "", fmt.Errorf("unknown distribution %q", name)
	}
}

// LengthSpec describes a batch/bulk/range-select length: a [min,max] range
// drawn from the named distribution.
type LengthSpec struct {
	MinLength int          `json:"min_length"`
	MaxLength int          `json:"max_length"`
	Dist      Distribution `json:"length_dist"`
}

// Workload is the immutable-for-the-run descriptor of one named benchmark:
// operation mix, key distribution, and value/length shape. Fields prefixed
// DB describe the whole workload; RecordsCount/OperationsCount hold the
// per-thread residual after partitioning (§4.5) and are populated by Split.
type Workload struct {
	Name string `json:"name"`

	DBRecordsCount    int64 `json:"db_records_count"`
	DBOperationsCount int64 `json:"db_operations_count"`

	RecordsCount    int64 `json:"records_count"`
	OperationsCount int64 `json:"operations_count"`

	UpsertProportion          float64 `json:"upsert_proportion"`
	UpdateProportion          float64 `json:"update_proportion"`
	RemoveProportion          float64 `json:"remove_proportion"`
	ReadProportion            float64 `json:"read_proportion"`
	ReadModifyWriteProportion float64 `json:"read_modify_write_proportion"`
	BatchUpsertProportion     float64 `json:"batch_upsert_proportion"`
	BatchReadProportion       float64 `json:"batch_read_proportion"`
	BulkLoadProportion        float64 `json:"bulk_load_proportion"`
	RangeSelectProportion     float64 `json:"range_select_proportion"`
	ScanProportion            float64 `json:"scan_proportion"`

	StartKey int64        `json:"start_key"`
	KeyDist  Distribution `json:"key_dist"`

	ValueLength     int          `json:"value_length"`
	ValueLengthDist Distribution `json:"value_length_dist"`

	BatchUpsert  LengthSpec `json:"batch_upsert"`
	BatchRead    LengthSpec `json:"batch_read"`
	BulkLoad     LengthSpec `json:"bulk_load"`
	RangeSelect  LengthSpec `json:"range_select"`
}

// defaults mirror the original implementation's documented fallbacks for
// omitted length-spec fields.
func (w *Workload) applyDefaults() {
	if w.ValueLength == 0 {
		w.ValueLength = 1024
	}
	if w.ValueLengthDist == "" {
		w.ValueLengthDist = DistConst
	}
	if w.KeyDist == "" {
		w.KeyDist = DistUniform
	}
	fillLengthSpec(&w.BatchUpsert, 256, 256)
	fillLengthSpec(&w.BatchRead, 256, 256)
	fillLengthSpec(&w.BulkLoad, 256, 256)
	fillLengthSpec(&w.RangeSelect, 100, 100)
}

func fillLengthSpec(spec *LengthSpec, minDefault, maxDefault int) {
	if spec.MinLength == 0 {
		spec.MinLength = minDefault
	}
	if spec.MaxLength == 0 {
		spec.MaxLength = maxDefault
	}
	if spec.Dist == "" {
		spec.Dist = DistUniform
	}
}

// sumProportions returns the sum of all ten operation proportions.
func (w *Workload) sumProportions() float64 {
	return w.UpsertProportion + w.UpdateProportion + w.RemoveProportion + w.ReadProportion +
		w.ReadModifyWriteProportion + w.BatchUpsertProportion + w.BatchReadProportion +
		w.BulkLoadProportion + w.RangeSelectProportion + w.ScanProportion
}

// isPureInsertClass reports whether the workload consists entirely of one
// insert-class operation (§4.4, §4.5): the initialization-phase condition
// that selects a plain counter instead of an acknowledged one.
func (w *Workload) isPureInsertClass() bool {
	return w.UpsertProportion == 1.0 || w.BatchUpsertProportion == 1.0 || w.BulkLoadProportion == 1.0
}

// Validate checks the invariants of §3: proportions sum within (0,1], and
// the max length of every ranged operation the workload actually issues
// (non-zero proportion) fits the per-thread record budget.
func (w *Workload) Validate(threadsCount int) error {
	sum := w.sumProportions()
	if sum <= 0 || sum > 1.0000001 {
		return fmt.Errorf("workload %q: proportions must sum to (0,1], got %f", w.Name, sum)
	}

	maxPerThread := w.DBRecordsCount / int64(threadsCount)
	for _, spec := range []struct {
		name       string
		ls         LengthSpec
		proportion float64
	}{
		{"batch_upsert", w.BatchUpsert, w.BatchUpsertProportion},
		{"batch_read", w.BatchRead, w.BatchReadProportion},
		{"bulk_load", w.BulkLoad, w.BulkLoadProportion},
		{"range_select", w.RangeSelect, w.RangeSelectProportion},
	} {
		if spec.ls.MinLength > spec.ls.MaxLength {
			return fmt.Errorf("workload %q: %s min_length > max_length", w.Name, spec.name)
		}
		if spec.proportion > 0 && threadsCount > 0 && int64(spec.ls.MaxLength) > maxPerThread && maxPerThread > 0 {
			return fmt.Errorf("workload %q: %s max_length %d exceeds per-thread record budget %d", w.Name, spec.name, spec.ls.MaxLength, maxPerThread)
		}
	}
	return nil
}

// LoadWorkloads reads a JSON array of workload descriptors from path,
// applying field defaults to each.
func LoadWorkloads(path string) ([]*Workload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load workloads: %w", err)
	}

	var workloads []*Workload
	if err := json.Unmarshal(data, &workloads); err != nil {
		return nil, fmt.Errorf("failed to load workloads: %w", err)
	}

	for _, w := range workloads {
		w.applyDefaults()
		if _, err := parseDistribution(string(w.KeyDist)); err != nil {
			return nil, fmt.Errorf("workload %q: %w", w.Name, err)
		}
	}
	return workloads, nil
}

// FilterWorkloads returns the subset of workloads named in filter (a
// comma-separated list), preserving filter order. An empty filter returns
// every workload unchanged.
func FilterWorkloads(workloads []*Workload, filter string) []*Workload {
	if filter == "" {
		return workloads
	}

	byName := make(map[string]*Workload, len(workloads))
	for _, w := range workloads {
		byName[w.Name] = w
	}

	var names []string
	start := 0
	for i := 0; i <= len(filter); i++ {
		if i == len(filter) || filter[i] == ',' {
			names = append(names, filter[start:i])
			start = i + 1
		}
	}

	result := make([]*Workload, 0, len(names))
	for _, name := range names {
		if w, ok := byName[name]; ok {
			result = append(result, w)
		}
	}
	return result
}
