package driver

import (
	"os"
	"path/filepath"
)

// WriteOutputs flushes every generated file into outDir. Broken
// modules are skipped; the shared header is written once when any
// module instantiated a generic.
func WriteOutputs(res *CompileResult, outDir string, sink ProgressSink) ([]string, error) {
	if sink == nil {
		sink = nopSink{}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	var written []string
	writeOne := func(name string, data []byte) error {
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if res.Shared != nil {
		if err := writeOne(res.Shared.HeaderName, res.Shared.Header); err != nil {
			return written, err
		}
	}
	for i := range res.Modules {
		m := &res.Modules[i]
		if m.Broken {
			continue
		}
		sink.OnEvent(Event{File: m.Path, Stage: StageWrite, Status: StatusWorking})
		if err := writeOne(m.Output.HeaderName, m.Output.Header); err != nil {
			return written, err
		}
		if err := writeOne(m.Output.ImplName, m.Output.Impl); err != nil {
			return written, err
		}
		sink.OnEvent(Event{File: m.Path, Stage: StageWrite, Status: StatusDone})
	}
	return written, nil
}
