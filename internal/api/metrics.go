package api

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

const bytesPerMB = 1024 * 1024

// ServerMetrics отдаёт метрики процесса для эндпоинта /api/server.
// Системные показатели берутся через gopsutil, показатели кучи — из runtime.
type ServerMetrics struct {
	startTime time.Time
	proc      *process.Process
}

// NewServerMetrics создаёт сборщик метрик для текущего процесса
func NewServerMetrics() *ServerMetrics {
	proc, _ := process.NewProcess(int32(os.Getpid()))
	return &ServerMetrics{
		startTime: time.Now(),
		proc:      proc,
	}
}

// GetUptime возвращает время работы сервера в человекочитаемом виде
func (sm *ServerMetrics) GetUptime() string {
	uptime := time.Since(sm.startTime)

	d := int(uptime.Hours()) / 24
	h := int(uptime.Hours()) % 24
	m := int(uptime.Minutes()) % 60
	s := int(uptime.Seconds()) % 60

	switch {
	case d > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", d, h, m, s)
	case h > 0:
		return fmt.Sprintf("%dч %dм %dс", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dм %dс", m, s)
	default:
		return fmt.Sprintf("%dс", s)
	}
}

// GetMemoryUsage возвращает резидентную память процесса в MB.
// Если gopsutil недоступен (урезанный контейнер), отдаёт размер кучи Go.
func (sm *ServerMetrics) GetMemoryUsage() (float64, error) {
	if sm.proc != nil {
		if info, err := sm.proc.MemoryInfo(); err == nil {
			return float64(info.RSS) / bytesPerMB, nil
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / bytesPerMB, nil
}

// GetCPUUsage возвращает загрузку CPU процессом в процентах
func (sm *ServerMetrics) GetCPUUsage() (float64, error) {
	if sm.proc != nil {
		if pct, err := sm.proc.CPUPercent(); err == nil {
			return pct, nil
		}
	}

	// Fallback на системную загрузку
	pcts, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(pcts) == 0 {
		return 0, err
	}
	return pcts[0], nil
}

// GetDetailedMemoryStats возвращает разбивку памяти: куча Go + RSS процесса
func (sm *ServerMetrics) GetDetailedMemoryStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	stats := map[string]interface{}{
		"heap_alloc_mb": float64(m.HeapAlloc) / bytesPerMB,
		"heap_sys_mb":   float64(m.HeapSys) / bytesPerMB,
		"sys_mb":        float64(m.Sys) / bytesPerMB,
		"num_gc":        m.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	if sm.proc != nil {
		if info, err := sm.proc.MemoryInfo(); err == nil {
			stats["rss_mb"] = float64(info.RSS) / bytesPerMB
		}
	}

	return stats
}
