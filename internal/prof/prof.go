// Package prof wires Go's runtime profilers to command line flags.
package prof

import (
	"errors"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options name the output files; empty entries are skipped.
type Options struct {
	CPU   string
	Mem   string
	Trace string // трейс рантайма Go, не трейсер компилятора
}

// Enabled reports whether any profile was asked for.
func (o Options) Enabled() bool {
	return o.CPU != "" || o.Mem != "" || o.Trace != ""
}

// Start begins the requested profiles. The returned stop function ends
// them, writes the heap profile last and joins every error on the way.
func Start(o Options) (stop func() error, err error) {
	var cpuFile, traceFile *os.File
	stop = func() error {
		var errs []error
		if cpuFile != nil {
			pprof.StopCPUProfile()
			errs = append(errs, cpuFile.Close())
		}
		if traceFile != nil {
			trace.Stop()
			errs = append(errs, traceFile.Close())
		}
		if o.Mem != "" {
			errs = append(errs, writeHeap(o.Mem))
		}
		return errors.Join(errs...)
	}

	if o.CPU != "" {
		f, err := os.Create(o.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		cpuFile = f
	}
	if o.Trace != "" {
		f, err := os.Create(o.Trace)
		if err != nil {
			_ = stop()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			_ = stop()
			return nil, err
		}
		traceFile = f
	}
	return stop, nil
}

func writeHeap(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
