package lisp

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"go.uber.org/atomic"
)

// Context is the process-local handle of spec.md §4.1: it owns the
// heap, the global environment, both registries, and the three
// gauges that cross the supervisor/worker boundary described in
// spec.md §5. No package-level mutable state exists anywhere in this
// module — every operation is threaded through a *Context, per
// spec.md §9 ("Global-per-context state").
type Context struct {
	id     uuid.UUID
	logger hclog.Logger

	softLimit uint64 // mem_lim_soft, read-only cvar, fixed at construction
	hardLimit uint64 // mem_lim_hard, read-only cvar, fixed at construction

	// verbosity and timeoutSeconds are read-write cvars mutated only
	// by the worker goroutine (via set-cvar!); EvalOne in worker.go
	// reads timeoutSeconds when it starts an evaluation, so a change
	// takes effect from the next EvalOne call.
	verbosity      bool
	timeoutSeconds int

	// bytesAllocated, threadRunning and evalPlzDie are exactly the
	// three crossings spec.md §5 requires atomic/volatile semantics
	// for: the allocator and GC mutate bytesAllocated from the worker
	// goroutine, the supervisor polls it and threadRunning, and the
	// supervisor alone writes evalPlzDie.
	bytesAllocated *atomic.Uint64
	threadRunning  *atomic.Bool
	evalPlzDie     *atomic.Bool

	// peakBytes, nAllocs, nFrees and warned are worker-exclusive
	// (spec.md §5), so plain fields are safe.
	peakBytes uint64
	nAllocs   uint64
	nFrees    uint64
	warned    bool

	heap      *heap
	globalEnv Value

	prims *primRegistry
	cvars *cvarRegistry

	shadow *contextCvarShadow

	setupDone bool
}

// contextCvarShadow backs the built-in cvars with plain ints so they
// can be exposed through the same *int interface AddCvar gives host
// callers. Every write goes through syncShadow or set-cvar!, which run
// on the worker goroutine during supervised evaluation, so aliasing
// the atomics through a plain int here introduces no race there.
type contextCvarShadow struct {
	hardLimit      int
	softLimit      int
	listEntries    int
	allocated      int
	verbosity      int
	threadTimeout  int
}

// NewContext is the factory of spec.md §4.1. It registers the
// built-in primitive procedures (mirroring libisp's
// lisp_make_context, which calls add_builtin_prim_procs before
// returning) but does not build the global environment — the host
// must call SetupEnvironment exactly once, after any of its own
// AddPrimProc/AddCvar registrations.
func NewContext(cfg *Config) (*Context, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	ctx := &Context{
		id:             id,
		logger:         newLogger(id.String()[:8], cfg.Verbose),
		softLimit:      cfg.SoftLimit,
		hardLimit:      cfg.HardLimit,
		verbosity:      cfg.Verbose,
		timeoutSeconds: cfg.TimeoutSeconds,
		bytesAllocated: atomic.NewUint64(0),
		threadRunning:  atomic.NewBool(false),
		evalPlzDie:     atomic.NewBool(false),
		heap:           newHeap(),
		prims:          &primRegistry{},
		cvars:          &cvarRegistry{},
	}
	ctx.addBuiltinPrimitives()
	ctx.logger.Debug("context created", "soft_limit", ctx.softLimit, "hard_limit", ctx.hardLimit)
	return ctx, nil
}

// AddPrimProc registers a native operation under name, made visible to
// interpreted code once SetupEnvironment builds the initial
// environment (spec.md §6). It must be called before SetupEnvironment.
func (c *Context) AddPrimProc(name string, fn PrimitiveFunc) error {
	if c.setupDone {
		return &SetupError{Message: "AddPrimProc called after SetupEnvironment"}
	}
	c.prims.add(name, fn)
	return nil
}

// AddCvar exposes a host integer variable to interpreted code under
// name, with get-cvar always allowed and set-cvar! allowed only when
// access is CvarReadWrite (spec.md §4.6, §6).
func (c *Context) AddCvar(name string, valuePtr *int, access CvarAccess) error {
	if c.setupDone {
		return &SetupError{Message: "AddCvar called after SetupEnvironment"}
	}
	c.cvars.add(name, valuePtr, access)
	return nil
}

// SetupEnvironment builds the initial global environment from the
// primitive registry, registers the built-in cvars, runs the
// bootstrap library of derived procedures, and forces a GC — mirroring
// lisp_setup_env in original_source/src/builtin.c. It must be called
// exactly once, after any host AddPrimProc/AddCvar calls.
func (c *Context) SetupEnvironment() error {
	if c.setupDone {
		return &SetupError{Message: "SetupEnvironment called more than once"}
	}

	c.shadow = &contextCvarShadow{
		hardLimit: int(c.hardLimit),
		softLimit: int(c.softLimit),
	}
	if c.verbosity {
		c.shadow.verbosity = 1
	}
	c.shadow.threadTimeout = c.timeoutSeconds
	c.syncShadow()

	c.cvars.add("mem-lim-hard", &c.shadow.hardLimit, CvarReadOnly)
	c.cvars.add("mem-lim-soft", &c.shadow.softLimit, CvarReadOnly)
	c.cvars.add("mem-list-entries", &c.shadow.listEntries, CvarReadOnly)
	c.cvars.add("mem-allocated", &c.shadow.allocated, CvarReadOnly)
	c.cvars.add("mem-verbosity", &c.shadow.verbosity, CvarReadWrite)
	c.cvars.add("thread-timeout", &c.shadow.threadTimeout, CvarReadWrite)

	var names, objects Value
	for i := len(c.prims.entries) - 1; i >= 0; i-- {
		e := c.prims.entries[i]
		names = c.Cons(c.NewSymbol(e.name), names)
		objects = c.Cons(c.primitiveObject(e.fn, e.name), objects)
	}

	emptyEnv := c.Cons(c.Cons(nil, nil), nil)
	c.globalEnv = c.ExtendEnvironment(names, objects, emptyEnv)
	c.setupDone = true

	for _, form := range bootstrapLibrary {
		if err := c.Run(form); err != nil {
			return fmt.Errorf("bootstrapping %q: %w", form, err)
		}
	}

	c.GC(true)
	return nil
}

// syncShadow mirrors the atomic gauges into the plain-int cvar shadow.
// Call it after any change to bytesAllocated, verbosity or
// timeoutSeconds that should be observable via get-cvar.
func (c *Context) syncShadow() {
	if c.shadow == nil {
		return
	}
	c.shadow.allocated = int(c.bytesAllocated.Load())
	c.shadow.listEntries = c.heap.len()
	if c.verbosity {
		c.shadow.verbosity = 1
	} else {
		c.shadow.verbosity = 0
	}
	c.shadow.threadTimeout = c.timeoutSeconds
}

// alloc is the sole entry point onto the heap (spec.md §4.2),
// grounded on original_source/src/mem.c's _dalloc. Every value
// constructor in this file funnels through it.
//
// Crossing the soft limit logs a one-time warning (warned latches so
// the message is not repeated, mirroring mem.c's static int warned).
// Crossing the hard limit while the worker is mid-evaluation is fatal
// to the in-flight evaluation: per the redesign in spec.md §4.2 step
// 2, the allocating goroutine calls runtime.Goexit() instead of
// returning, so a hard-limit breach can never hand a half-built value
// back to code that assumes allocation always succeeds.
func (c *Context) alloc(v Value, size uintptr) Value {
	newTotal := c.bytesAllocated.Add(uint64(size))
	c.nAllocs++
	if newTotal > c.peakBytes {
		c.peakBytes = newTotal
	}

	if newTotal > c.softLimit && !c.warned {
		c.warned = true
		c.logger.Warn("soft memory limit exceeded", "allocated", newTotal, "soft_limit", c.softLimit)
	}

	if newTotal > c.hardLimit {
		if c.threadRunning.Load() {
			// spec.md §4.2 step 2: the allocator does not itself
			// decide to cancel. It spins, yielding to the scheduler,
			// until the supervisor goroutine in worker.go observes
			// the breach and sets evalPlzDie; only then does this
			// worker goroutine unwind. This keeps the single
			// cancellation decision in one place (the supervisor)
			// while still giving the allocator a bounded, fast
			// response to a ceiling crossed mid-evaluation.
			for !c.evalPlzDie.Load() {
				runtime.Gosched()
			}
			c.syncShadow()
			runtime.Goexit()
		}

		// No worker is running (e.g. a host call to SetupEnvironment
		// or Run outside the supervised protocol): there is no one to
		// request cancellation from, so this behaves like libisp's
		// _dalloc on hard-limit breach — force a collection and fail
		// the allocation by returning the absent value instead of v.
		c.logger.Error("hard memory limit exceeded outside supervised evaluation", "allocated", newTotal, "hard_limit", c.hardLimit)
		c.bytesAllocated.Sub(uint64(size))
		c.GC(true)
		return nil
	}

	_, file, line, _ := runtime.Caller(2)
	c.heap.insert(v, size, file, line)
	c.syncShadow()
	return v
}

func (c *Context) NewInteger(n int) Value {
	return c.alloc(&Integer{N: n}, unsafe.Sizeof(Integer{}))
}

func (c *Context) NewDecimal(f float64) Value {
	return c.alloc(&Decimal{F: f}, unsafe.Sizeof(Decimal{}))
}

func (c *Context) NewString(s string) Value {
	return c.alloc(&String{S: s}, unsafe.Sizeof(String{})+uintptr(len(s)))
}

func (c *Context) NewSymbol(s string) Value {
	return c.alloc(&Symbol{S: s}, unsafe.Sizeof(Symbol{})+uintptr(len(s)))
}

// NewError builds an in-band *ErrorValue (spec.md §7.2).
func (c *Context) NewError(format string, args ...interface{}) Value {
	return c.alloc(&ErrorValue{Message: fmt.Sprintf(format, args...)}, unsafe.Sizeof(ErrorValue{}))
}

func (c *Context) newPrimitive(name string, fn PrimitiveFunc) Value {
	return c.alloc(&Primitive{Name: name, Fn: fn}, unsafe.Sizeof(Primitive{}))
}

// Cons allocates a fresh pair. Like libisp's lisp_cons, it takes
// already-allocated handles without copying them: l and r must
// already be heap values (or nil).
func (c *Context) Cons(l, r Value) Value {
	return c.alloc(&Pair{L: l, R: r}, unsafe.Sizeof(Pair{}))
}

// primitiveObject builds the tagged pair `(primitive <Primitive>)`
// that apply() recognizes, matching libisp's make_prim.
func (c *Context) primitiveObject(fn PrimitiveFunc, name string) Value {
	return c.Cons(c.NewSymbol("primitive"), c.newPrimitive(name, fn))
}

// MakeProcedure builds the tagged pair `(closure params body env)`
// produced by the lambda special form (spec.md §4.5).
func (c *Context) MakeProcedure(params, body, env Value) Value {
	return c.Cons(c.NewSymbol("closure"), c.Cons(params, c.Cons(body, env)))
}

// SetCar and SetCdr implement set-car!/set-cdr! (spec.md §4.4): they
// mutate an existing pair in place and return an Error for any other
// Kind, exactly as libisp's lisp_set_car/lisp_set_cdr reject non-cons
// arguments.
func (c *Context) SetCar(pair, v Value) Value {
	p, ok := pair.(*Pair)
	if !ok {
		return c.NewError("set-car!: not a pair")
	}
	p.L = v
	return pair
}

func (c *Context) SetCdr(pair, v Value) Value {
	p, ok := pair.(*Pair)
	if !ok {
		return c.NewError("set-cdr!: not a pair")
	}
	p.R = v
	return pair
}

// MakeCopy performs a deep structural copy of a list, re-allocating
// every Pair so the result shares no mutable cons cells with its
// argument. Grounded on original_source/src/data.c's make_copy.
func (c *Context) MakeCopy(v Value) Value {
	p, ok := v.(*Pair)
	if !ok {
		return v
	}
	return c.Cons(c.MakeCopy(p.L), c.MakeCopy(p.R))
}

// Append concatenates two lists without mutating either, copying the
// spine of a and sharing b's structure as its tail — the behavior of
// R5RS append and of libisp's append builtin.
func (c *Context) Append(a, b Value) Value {
	p, ok := a.(*Pair)
	if !ok {
		return b
	}
	return c.Cons(p.L, c.Append(p.R, b))
}

// Run parses and evaluates every top-level form in source against the
// global environment, returning only an error for host-level failures
// (parse errors); an in-band *ErrorValue result is not itself a Go
// error (spec.md §7). It is EvalProgram with the value discarded, and
// is what SetupEnvironment's bootstrap loader uses.
func (c *Context) Run(source string) error {
	_, err := c.EvalProgram(source)
	return err
}

// EvalProgram reads and evaluates every top-level form in source in
// turn against the global environment, returning the value of the
// last one. It generalizes lisp_setup_env's repeated lisp_run calls
// into a single host-facing helper for multi-expression input such as
// REPL lines and test fixtures.
func (c *Context) EvalProgram(source string) (Value, error) {
	var result Value
	offset := 0
	for offset < len(source) {
		exp, consumed, err := c.Read(source[offset:])
		if err != nil {
			if err == errNoMoreForms {
				break
			}
			return nil, err
		}
		offset += consumed
		result = c.Eval(exp, c.globalEnv)
	}
	return result, nil
}

// Close tears the context down: it forces a final collection, frees
// the global environment, drains both registries, and logs final
// statistics. It is idempotent, matching libisp's lisp_destroy_context
// being safe to call once the context is already torn down.
func (c *Context) Close() {
	if c.globalEnv == nil && c.heap.len() == 0 {
		return
	}
	c.GCStats()
	c.globalEnv = nil
	c.GC(true)
	c.prims = &primRegistry{}
	c.cvars = &cvarRegistry{}
	c.logger.Debug("context closed", "final_allocated", c.bytesAllocated.Load())
}

// GCStats logs a diagnostic snapshot mirroring libisp's showmemstats:
// total live allocations, bytes allocated, peak bytes, and, for every
// surviving record, the call site that allocated it.
func (c *Context) GCStats() {
	c.logger.Info("heap stats",
		"live_records", c.heap.len(),
		"bytes_allocated", c.bytesAllocated.Load(),
		"peak_bytes", c.peakBytes,
		"n_allocs", c.nAllocs,
		"n_frees", c.nFrees,
	)
	if !c.verbosity {
		return
	}
	for _, r := range c.heap.records {
		c.logger.Debug("live allocation", "kind", r.value.Kind().String(), "site", fmt.Sprintf("%s:%d", r.file, r.line), "size", r.size)
	}
}

// pollInterval is how often the supervisor goroutine in worker.go
// checks elapsed time and byte usage against the configured limits.
const pollInterval = 5 * time.Millisecond
