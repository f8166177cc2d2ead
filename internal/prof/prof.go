// Package prof starts and stops the Go runtime profilers behind the CLI's
// --cpu-profile, --mem-profile and --runtime-trace flags.
package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"sync"
)

var (
	mu        sync.Mutex
	cpuFile   *os.File
	traceFile *os.File
)

// ErrActive is returned when a profiler of the same kind is already running.
var ErrActive = errors.New("profiler already active")

// StartCPU enables CPU profiling into path.
func StartCPU(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if cpuFile != nil {
		return ErrActive
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	cpuFile = f
	return nil
}

// StopCPU stops an active CPU profile. It is a no-op otherwise.
func StopCPU() {
	mu.Lock()
	defer mu.Unlock()
	if cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = cpuFile.Close()
	cpuFile = nil
}

// WriteMem captures a heap profile into path.
func WriteMem(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

// StartTrace writes runtime trace data into path.
func StartTrace(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if traceFile != nil {
		return ErrActive
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := trace.Start(f); err != nil {
		_ = f.Close()
		return err
	}
	traceFile = f
	return nil
}

// StopTrace ends an active runtime trace. It is a no-op otherwise.
func StopTrace() {
	mu.Lock()
	defer mu.Unlock()
	if traceFile == nil {
		return
	}
	trace.Stop()
	_ = traceFile.Close()
	traceFile = nil
}
