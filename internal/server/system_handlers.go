package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandlers exposes host-level status for the ops dashboard.
type SystemHandlers struct {
	dataDir string
	started time.Time
	log     zerolog.Logger
}

// NewSystemHandlers creates system monitoring handlers.
func NewSystemHandlers(dataDir string, started time.Time, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		dataDir: dataDir,
		started: started,
		log:     log.With().Str("handler", "system").Logger(),
	}
}

// HandleStatus returns process uptime plus CPU and memory usage.
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cpuPct, memPct := h.systemStats()

	h.writeJSON(w, map[string]interface{}{
		"status":     "ok",
		"uptime":     time.Since(h.started).Round(time.Second).String(),
		"goroutines": runtime.NumGoroutine(),
		"cpuPercent": cpuPct,
		"memPercent": memPct,
	})
}

// HandleDiskUsage returns usage for the filesystem holding the data dir.
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	usage, err := disk.Usage(h.dataDir)
	if err != nil {
		h.log.Warn().Err(err).Str("dir", h.dataDir).Msg("Failed to read disk usage")
		http.Error(w, "failed to read disk usage", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"path":        usage.Path,
		"totalGB":     float64(usage.Total) / 1024 / 1024 / 1024,
		"usedGB":      float64(usage.Used) / 1024 / 1024 / 1024,
		"usedPercent": usage.UsedPercent,
	})
}

// systemStats samples CPU over a short window so the endpoint stays fast.
func (h *SystemHandlers) systemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}
	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
