package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"autoc/internal/cgen"
	"autoc/internal/diag"
	"autoc/internal/lexer"
	"autoc/internal/mono"
	"autoc/internal/parser"
	"autoc/internal/project"
	"autoc/internal/sema"
	"autoc/internal/source"
)

// CompileOptions configures a pipeline run.
type CompileOptions struct {
	MaxDiagnostics int
	Jobs           int // worker limit, 0 means GOMAXPROCS
	Sink           ProgressSink
	Cache          *DiskCache // nil disables memoization
}

// ModuleResult is the outcome for one module. Module is nil when the
// result was served from the disk cache.
type ModuleResult struct {
	Path   string
	Name   string
	FileID source.FileID
	Hash   project.Digest
	Module *sema.Module
	Bag    *diag.Bag
	Output cgen.Output
	Broken bool
	Cached bool
}

// CompileResult aggregates the whole build.
type CompileResult struct {
	FileSet *source.FileSet
	Modules []ModuleResult
	// BuildHash aggregates every module's content hash in file order;
	// any source change changes it.
	BuildHash project.Digest
	// Shared holds the monomorphized generic definitions header; nil
	// when no generic was instantiated.
	Shared *cgen.Output
}

// HasErrors reports whether any module is withheld from output.
func (r *CompileResult) HasErrors() bool {
	for i := range r.Modules {
		if r.Modules[i].Broken {
			return true
		}
	}
	return false
}

// CompileDir compiles every source module under dir.
func CompileDir(ctx context.Context, dir string, opts CompileOptions) (*CompileResult, error) {
	files, err := project.ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, files, opts)
}

// Compile runs the pipeline over the given modules. Front ends run in
// parallel under the worker limit; lowering runs once every module is
// bound so shared instantiation state is complete.
func Compile(ctx context.Context, files []string, opts CompileOptions) (*CompileResult, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	sink := opts.Sink
	if sink == nil {
		sink = nopSink{}
	}

	// FileSet mutation is not synchronized, so loading happens before
	// the workers fan out.
	fs := source.NewFileSet()
	ids := make([]source.FileID, len(files))
	for i, path := range files {
		id, err := fs.Load(path)
		if err != nil {
			return nil, err
		}
		ids[i] = id
		sink.OnEvent(Event{File: path, Stage: StageLex, Status: StatusQueued})
	}

	insts := mono.NewCache()
	results := make([]ModuleResult, len(files))

	// Each phase derives its own group context from the caller's;
	// Wait cancels the derived context, so it must not be reused.
	g, bindCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range files {
		i := i
		g.Go(func() error {
			if err := bindCtx.Err(); err != nil {
				return err
			}
			results[i] = bindOne(fs, ids[i], files[i], insts, opts, sink)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Instantiations recorded during binding decide whether module
	// headers pull in the shared definitions header.
	sharedNeeded := insts.Len() > 0
	instsByModule := groupInsts(insts)

	g, emitCtx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i := range results {
		i := i
		g.Go(func() error {
			if err := emitCtx.Err(); err != nil {
				return err
			}
			emitOne(&results[i], sharedNeeded, instsByModule, opts, sink)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &CompileResult{FileSet: fs, Modules: results}
	if len(results) > 0 {
		deps := make([]project.Digest, 0, len(results)-1)
		for i := 1; i < len(results); i++ {
			deps = append(deps, results[i].Hash)
		}
		out.BuildHash = project.Combine(results[0].Hash, deps...)
	}
	if sharedNeeded {
		mods := make([]*sema.Module, 0, len(results))
		for i := range results {
			if results[i].Module != nil {
				mods = append(mods, results[i].Module)
			}
		}
		bag := diag.NewBag(opts.MaxDiagnostics)
		shared, ok := cgen.EmitShared(mods, insts, cgen.Options{Reporter: diag.BagReporter{Bag: bag}})
		if ok {
			out.Shared = &shared
		} else if len(results) > 0 {
			// Attribute shared-emission failures to the first module
			// so they surface with the rest of the diagnostics.
			results[0].Bag.Merge(bag)
			results[0].Broken = true
		}
	}
	return out, nil
}

// bindOne runs the front end for a single module, consulting the disk
// cache first.
func bindOne(fs *source.FileSet, id source.FileID, path string, insts *mono.Cache, opts CompileOptions, sink ProgressSink) ModuleResult {
	start := time.Now()
	file := fs.Get(id)
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := ModuleResult{Path: path, FileID: id, Hash: file.Hash, Bag: bag}

	var payload DiskPayload
	if hit, _ := opts.Cache.Get(file.Hash, &payload); hit && !payload.DefinesGenerics {
		replayPayload(&res, &payload, id, insts)
		status := StatusDone
		if res.Broken {
			status = StatusError
		}
		sink.OnEvent(Event{File: path, Stage: StageBind, Status: status, Elapsed: time.Since(start)})
		return res
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	sink.OnEvent(Event{File: path, Stage: StageLex, Status: StatusWorking})
	lx := lexer.New(file, lexer.Options{Reporter: reporter})

	sink.OnEvent(Event{File: path, Stage: StageParse, Status: StatusWorking})
	parsed := parser.ParseFile(lx, parser.Options{MaxErrors: errorLimit(opts.MaxDiagnostics), Reporter: reporter})

	sink.OnEvent(Event{File: path, Stage: StageBind, Status: StatusWorking})
	mod := sema.Bind(parsed, sema.Options{Reporter: reporter, Insts: insts})

	res.Name = mod.Name
	res.Module = mod
	res.Broken = bag.HasErrors()

	status := StatusDone
	if res.Broken {
		status = StatusError
	}
	sink.OnEvent(Event{File: path, Stage: StageBind, Status: status, Elapsed: time.Since(start)})
	return res
}

// emitOne lowers a bound module and refreshes its cache entry. Cached
// and broken modules only update bookkeeping.
func emitOne(res *ModuleResult, sharedNeeded bool, instsByModule map[string][]InstRecord, opts CompileOptions, sink ProgressSink) {
	if res.Cached {
		return
	}
	file := res.Path

	if !res.Broken {
		sink.OnEvent(Event{File: file, Stage: StageEmit, Status: StatusWorking})
		start := time.Now()
		out, ok := cgen.EmitModule(res.Module, cgen.Options{
			Reporter:     diag.BagReporter{Bag: res.Bag},
			SharedHeader: sharedNeeded,
		})
		if ok {
			res.Output = out
			sink.OnEvent(Event{File: file, Stage: StageEmit, Status: StatusDone, Elapsed: time.Since(start)})
		} else {
			res.Broken = true
			sink.OnEvent(Event{File: file, Stage: StageEmit, Status: StatusError, Elapsed: time.Since(start)})
		}
	}

	if opts.Cache != nil && res.Module != nil {
		_ = opts.Cache.Put(res.Hash, payloadFrom(res, instsByModule[res.Name]))
	}
}

// payloadFrom captures everything replayPayload needs.
func payloadFrom(res *ModuleResult, insts []InstRecord) *DiskPayload {
	p := &DiskPayload{
		Path:            res.Path,
		Module:          res.Name,
		Broken:          res.Broken,
		Insts:           insts,
		DefinesGenerics: definesGenerics(res.Module),
		HeaderName:      res.Output.HeaderName,
		ImplName:        res.Output.ImplName,
		Header:          res.Output.Header,
		Impl:            res.Output.Impl,
	}
	for _, d := range res.Bag.Items() {
		p.Diags = append(p.Diags, CachedDiag{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Message:  d.Message,
		})
	}
	return p
}

// replayPayload reconstructs a module result from its cached form,
// re-anchoring diagnostics to the freshly loaded file and re-recording
// generic instantiations so shared emission stays complete.
func replayPayload(res *ModuleResult, p *DiskPayload, id source.FileID, insts *mono.Cache) {
	res.Name = p.Module
	res.Cached = true
	res.Broken = p.Broken
	res.Output = cgen.Output{
		HeaderName: p.HeaderName,
		ImplName:   p.ImplName,
		Header:     p.Header,
		Impl:       p.Impl,
	}
	for _, d := range p.Diags {
		res.Bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: id, Start: d.Start, End: d.End},
		})
	}
	for _, rec := range p.Insts {
		insts.Record(mono.InstKind(rec.Kind), rec.Base, rec.Args,
			mono.UseSite{Module: p.Module})
	}
}

// definesGenerics reports whether the module declares any generic
// type; such modules must always re-bind so shared emission can
// specialize their definitions.
func definesGenerics(mod *sema.Module) bool {
	for _, t := range mod.Tags {
		if len(t.TypeParams) > 0 {
			return true
		}
	}
	for _, t := range mod.Types {
		if len(t.TypeParams) > 0 {
			return true
		}
	}
	for _, s := range mod.Specs {
		if len(s.TypeParams) > 0 {
			return true
		}
	}
	return false
}

// groupInsts attributes recorded instantiations to the modules that
// performed them, for cache payloads.
func groupInsts(cache *mono.Cache) map[string][]InstRecord {
	out := make(map[string][]InstRecord)
	for _, d := range cache.All() {
		seen := make(map[string]bool)
		for _, site := range d.UseSites {
			if site.Module == "" || seen[site.Module] {
				continue
			}
			seen[site.Module] = true
			out[site.Module] = append(out[site.Module], InstRecord{
				Kind: uint8(d.Kind),
				Base: d.Base,
				Args: d.TypeArgs,
			})
		}
	}
	return out
}
