package lisp

import "time"

// Read is the public single-expression entry point (spec.md §4.8/§6),
// parsing exactly one top-level form.
func (c *Context) Read(source string) (Value, int, error) {
	return c.read(source)
}

// EvalOne evaluates a single already-parsed expression against the
// global environment under the supervisor/worker protocol of spec.md
// §4.7: a worker goroutine runs the evaluator while a supervisor
// goroutine polls wall-clock elapsed time and the hard memory limit,
// and can unilaterally sever the worker without joining it
// (libisp's kill_thread, thread.c). A zero timeoutSeconds disables the
// deadline, matching libisp treating 0 as "no timeout."
func (c *Context) EvalOne(exp Value) Value {
	c.evalPlzDie.Store(false)
	c.threadRunning.Store(true)

	resultCh := make(chan Value, 1)
	go func() {
		defer func() {
			c.threadRunning.Store(false)
			// runtime.Goexit unwinds deferred calls before the
			// goroutine exits, so this always runs even when Eval
			// aborts mid-recursion; resultCh is simply never sent to
			// in that case, and the supervisor below already moved on.
			recover()
		}()
		resultCh <- c.Eval(exp, c.globalEnv)
	}()

	// The supervisor always watches the hard memory ceiling
	// (spec.md §4.7 step 3), independent of whether a deadline is
	// configured; only the wall-clock check below is conditional on
	// timeoutSeconds > 0, matching libisp's thread_timeout == 0
	// meaning "no timeout" rather than "no supervision."
	var deadline time.Time
	hasDeadline := c.timeoutSeconds > 0
	if hasDeadline {
		deadline = time.Now().Add(time.Duration(c.timeoutSeconds) * time.Second)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case result := <-resultCh:
			return result
		case <-ticker.C:
			if !c.threadRunning.Load() {
				// Worker already exited (returned, or died via
				// runtime.Goexit from a hard memory-limit breach
				// detected inside alloc); nothing left to supervise.
				select {
				case result := <-resultCh:
					return result
				default:
					return c.NewError("evaluation aborted")
				}
			}
			if c.bytesAllocated.Load() >= c.hardLimit {
				c.logger.Warn("hard memory limit reached, killing worker", "allocated", c.bytesAllocated.Load(), "hard_limit", c.hardLimit)
				c.evalPlzDie.Store(true)
				c.threadRunning.Store(false)
				c.GC(true)
				return c.NewError("hard memory limit reached")
			}
			if hasDeadline && time.Now().After(deadline) {
				c.logger.Warn("evaluation timed out, killing worker", "timeout_seconds", c.timeoutSeconds)
				c.evalPlzDie.Store(true)
				c.threadRunning.Store(false)
				// Fire-and-forget: the worker goroutine observes
				// evalPlzDie at its next Eval entry and exits via
				// runtime.Goexit(). We never join it, matching
				// libisp's kill_thread not waiting on the victim.
				return c.NewError("evaluation timed out")
			}
		}
	}
}

// EvalProgramSupervised parses and runs every top-level form in source
// through the supervised single-timeout protocol EvalOne provides,
// returning the value of the last form. Unlike EvalProgram (used by
// the trusted bootstrap loader), this is the entry point host code
// evaluating untrusted input should use.
func (c *Context) EvalProgramSupervised(source string) (Value, error) {
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
		result = c.EvalOne(exp)
	}
	return result, nil
}
