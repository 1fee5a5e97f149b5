package lisp

// GC runs a mark-and-sweep collection rooted at the global
// environment (spec.md §4.3), grounded on original_source/src/mem.c's
// garbage_collect. It is always safe to call: force selects between
// the two trigger conditions mem.c distinguishes — a forced sweep (end
// of SetupEnvironment, Close, or an explicit host request) always
// walks the heap, while an unforced call only walks it once
// bytesAllocated has crossed the soft limit, matching mem.c's
// alloc-time trigger.
func (c *Context) GC(force bool) uint64 {
	if !force && c.bytesAllocated.Load() <= c.softLimit {
		return 0
	}

	before := c.heap.totalBytes()

	c.heap.clearMarks()
	c.mark(c.globalEnv)

	var reclaimed uint64
	for v, rec := range c.heap.records {
		if rec.mark {
			continue
		}
		reclaimed += uint64(rec.size)
		c.nFrees++
		delete(c.heap.records, v)
	}
	c.heap.clearMarks()

	if reclaimed > 0 {
		newTotal := before - reclaimed
		c.bytesAllocated.Store(newTotal)
		c.warned = false
	}
	c.syncShadow()

	c.logger.Debug("gc complete", "reclaimed_bytes", reclaimed, "forced", force, "live_records", c.heap.len())
	return reclaimed
}

// mark traces every Value reachable from v, setting its heap record's
// mark bit. Cycles are handled by checking the mark bit before
// recursing: a value already marked is never revisited.
func (c *Context) mark(v Value) {
	if v == nil {
		return
	}
	rec, ok := c.heap.records[v]
	if ok {
		if rec.mark {
			return
		}
		rec.mark = true
	}

	switch tv := v.(type) {
	case *Pair:
		c.mark(tv.L)
		c.mark(tv.R)
	}
}

// FreeDataRec immediately removes v and everything it transitively
// holds from the heap's bookkeeping without consulting reachability
// from the global environment, mirroring original_source/src/mem.c's
// free_data_rec used to reclaim a known-dead subgraph (for example a
// dynamic-wind cleanup value) ahead of the next full collection. The
// caller is responsible for ensuring v is not also reachable from the
// global environment: a value freed here while still reachable stays
// in use but is no longer counted in the heap records or in
// bytesAllocated.
func (c *Context) FreeDataRec(v Value) {
	if v == nil {
		return
	}
	rec, ok := c.heap.remove(v)
	if !ok {
		return
	}
	c.nFrees++
	c.bytesAllocated.Sub(uint64(rec.size))
	c.syncShadow()
	if p, ok := v.(*Pair); ok {
		c.FreeDataRec(p.L)
		c.FreeDataRec(p.R)
	}
}
