package ocla

// finalize runs the last per-core consistency walk once fragments are
// resolved. The fragment widths must sum to the declared probe count,
// and for native cores the stream must split cleanly at every probe
// boundary: walking ProbeOrder, each probe consumes whole fragments
// totalling exactly its declared width. A fragment spilling across a
// probe boundary means the flattened connection disagrees with the
// subsystem's width table.
func (c *CoreInstance) finalize(sub *DebugSubsystem, r *Report) bool {
	total := uint32(0)
	for _, f := range c.Probes {
		total += f.Width
	}
	if total != c.ProbesCount {
		r.Postf(2, "Error: Probe width mismatch, got %d bits but expect %d bits", total, c.ProbesCount)
		return false
	}
	if c.IsAxiBridge {
		return true
	}
	idx := 0
	for _, p := range c.ProbeOrder {
		need := sub.ProbeWidth[p]
		for need > 0 {
			if idx >= len(c.Probes) {
				r.Postf(2, "Error: Probe %d is short of %d bits", p+1, need)
				return false
			}
			w := c.Probes[idx].Width
			if w > need {
				r.Postf(2, "Error: Signal %s crosses the boundary of Probe %d", c.Probes[idx].FullName, p+1)
				return false
			}
			need -= w
			idx++
		}
	}
	if idx != len(c.Probes) {
		r.Postf(2, "Error: %d trailing signal(s) beyond the last probe", len(c.Probes)-idx)
		return false
	}
	return true
}
