package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/plus3/keystone/ecs"
)

type Report struct {
	// Configuration
	Config   Config
	Entities int

	// Results
	Worlds        []WorldReport
	TotalUpdates  int64
	TotalTime     time.Duration
	UpdateTime    Stats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

// WorldReport holds the results of one world.
type WorldReport struct {
	ID                uuid.UUID
	TotalUpdates      int64
	UpdateTime        Stats
	Manager           ecs.ManagerStats
	Systems           []ecs.SystemStats
	Created           int64
	Deleted           int64
	ComponentsAdded   int64
	ComponentsRemoved int64
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Finalize aggregates the per-world frame samples into the report totals.
func (r *Report) Finalize() {
	r.TotalUpdates = 0
	r.UpdateTime = Stats{}
	for _, w := range r.Worlds {
		r.TotalUpdates += w.TotalUpdates
		r.UpdateTime.Samples = append(r.UpdateTime.Samples, w.UpdateTime.Samples...)
	}
	r.UpdateTime.Finalize()
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Config.Duration}}
- **Worlds:** {{.Config.Worlds}}
- **Initial Entities per World:** {{.Entities}}
- **Churn Rate:** {{.Config.ChurnRate}}
- **Chunk Size:** {{.Config.ECS.ChunkSize}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame, all worlds):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{range .Worlds}}
### World {{.ID}}
- Updates: {{.TotalUpdates}} (avg {{.UpdateTime.Avg}}, max {{.UpdateTime.Max}})
- Entities: {{.Manager.EntityCount}} alive, pool {{.Manager.PoolInUse}}/{{.Manager.PoolCapacity}} in {{.Manager.PoolChunks}} chunks
- Lifecycle: {{.Created}} created, {{.Deleted}} deleted, {{.ComponentsAdded}} components added, {{.ComponentsRemoved}} removed
{{- range .Systems}}
  - {{printf "%-16s" .Name}} runs={{.ExecutionCount}} avg={{.AvgDuration}} max={{.MaxDuration}}
{{- end}}
{{end}}
## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MiB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MiB (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} bytes
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{mb .MemStatsStart.Sys}} MiB (start) -> {{mb .MemStatsEnd.Sys}} MiB (end)
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .Config.GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v any) string {
			switch val := v.(type) {
			case uint64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			case int64:
				return fmt.Sprintf("%.2f", float64(val)/1024/1024)
			default:
				return "N/A"
			}
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
