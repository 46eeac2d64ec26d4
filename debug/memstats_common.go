package debug

import (
	"log/slog"
	"runtime"
)

func logMemStats(logger *slog.Logger, extra ...slog.Attr) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	attrs := []any{
		slog.Int("goroutines", runtime.NumGoroutine()),
		slog.Uint64("heap_alloc", ms.HeapAlloc),
		slog.Uint64("heap_inuse", ms.HeapInuse),
		slog.Uint64("heap_idle", ms.HeapIdle),
		slog.Uint64("heap_sys", ms.HeapSys),
		slog.Uint64("next_gc", ms.NextGC),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	}
	for _, a := range extra {
		attrs = append(attrs, a)
	}
	logger.Info("memstats", attrs...)
}
