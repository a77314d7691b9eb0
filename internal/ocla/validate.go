package ocla

// crossValidate runs the ordered global consistency checks across the
// subsystem and all discovered cores. Each failing check short-circuits
// the remainder; every message posted so far is retained. Runs only
// when classification found at least one core and exactly one
// subsystem.
func crossValidate(sub *DebugSubsystem, cores []*CoreInstance, instantiatorNames []string, r *Report) bool {
	r.Postf(0, "Sanity Check")

	// The bridge core, when present, is the highest-indexed one.
	if sub.HasBridge() {
		for _, c := range cores {
			c.IsAxiBridge = c.Index == sub.Cores-1
		}
	}

	// 1. Every core found exactly one instantiator.
	if len(cores) != len(instantiatorNames) {
		r.Postf(1, "Error: Not all the OCLA module (count=%d) found the instantiator (count=%d)",
			len(cores), len(instantiatorNames))
		return false
	}

	// 2. Subsystem CORES parameter matches the discovered count.
	if sub.Cores != uint32(len(cores)) {
		r.Postf(1, "Error: OCLA Debug Subsystem parameter CORES=%d does not match with detected OCLA module count=%d",
			sub.Cores, len(cores))
		return false
	}

	// 3. INDEX values form the contiguous sequence 0..CORES-1.
	r.Postf(1, "Check module parameter INDEX sequence, must be 0 .. %d", sub.Cores-1)
	ok := true
	for i, c := range cores {
		if c.Index != uint32(i) {
			r.Postf(2, "Error: Module %s has unexpected INDEX, expectation=%d, but found %d",
				c.ModuleName, i, c.Index)
			ok = false
		}
	}
	if !ok {
		return false
	}

	// 4. Every core is instantiated by the subsystem module itself.
	r.Postf(1, "All modules should be instantiated by %s", sub.ModuleName)
	for _, n := range instantiatorNames {
		if n != sub.ModuleName {
			r.Postf(2, "Found unexpected instantiator: %s", n)
			ok = false
		}
	}
	if !ok {
		return false
	}

	// 5. IP identity matches between the subsystem and every core.
	r.Postf(1, "Parameter IP_TYPE=%s, IP_VERSION=0x%08X, IP_ID=0x%08X must match",
		sub.Type, sub.Version, sub.ID)
	for _, c := range cores {
		if c.Type != sub.Type || c.Version != sub.Version || c.ID != sub.ID {
			r.Postf(2, "Error: Module %s has mismatch parameter IP_TYPE=%s, IP_VERSION=0x%08X, IP_ID=0x%08X",
				c.ModuleName, c.Type, c.Version, c.ID)
			ok = false
		}
	}
	if !ok {
		return false
	}

	// 6. AXI geometry is uniform across cores.
	addrWidth, dataWidth := cores[0].AxiAddrWidth, cores[0].AxiDataWidth
	r.Postf(1, "Parameter AXI_ADDR_WIDTH=%d, AXI_DATA_WIDTH=%d must match", addrWidth, dataWidth)
	for _, c := range cores {
		if c.AxiAddrWidth != addrWidth || c.AxiDataWidth != dataWidth {
			r.Postf(2, "Error: Module %s has mismatch parameter AXI_ADDR_WIDTH=%d, AXI_DATA_WIDTH=%d",
				c.ModuleName, c.AxiAddrWidth, c.AxiDataWidth)
			ok = false
		}
	}
	if !ok {
		return false
	}

	// 7. Decode the packed probe-to-core assignment.
	if !sub.decodeProbeMappings(cores, r) {
		return false
	}

	// 8. Declared core widths match the decoded assignment; the bridge
	// core carries exactly the fixed per-bus signal sets.
	r.Postf(1, "Parameter NO_OF_PROBES must match assigned probe widths")
	for _, c := range cores {
		if c.IsAxiBridge {
			expected := sub.NoAxiBus * axiBusWidth(sub.AxiType)
			if c.ProbesCount != expected {
				r.Postf(2, "Error: AXI bridge module %s NO_OF_PROBES=%d, expectation=%d (%d bus of %s)",
					c.ModuleName, c.ProbesCount, expected, sub.NoAxiBus, sub.AxiType)
				ok = false
			}
			if w := sub.CalculatedWidth(c.Index); w != 0 {
				r.Postf(2, "Error: AXI bridge module %s has calculated width %d", c.ModuleName, w)
				ok = false
			}
			continue
		}
		if w := sub.CalculatedWidth(c.Index); c.ProbesCount != w {
			r.Postf(2, "Error: Module %s has mismatch parameter NO_OF_PROBES=%d, calculated width=%d",
				c.ModuleName, c.ProbesCount, w)
			ok = false
		}
	}
	if !ok {
		return false
	}

	// 9. Interface slots beyond CORES carry no width.
	for i := sub.Cores; i < MaxInterfaces; i++ {
		if w := sub.CalculatedWidth(i); w != 0 {
			r.Postf(1, "Error: Unused interface %d has calculated width %d", i+1, w)
			ok = false
		}
	}
	if !ok {
		return false
	}

	// 10. Total_Probes agrees with the declared widths and, separately,
	// with the calculated widths. Both checks stay: they observe
	// different intermediate states.
	r.Postf(1, "Parameter Total_Probes must match")
	bridgeBits := uint32(0)
	if sub.HasBridge() {
		bridgeBits = cores[sub.Cores-1].ProbesCount
	}
	declared := bridgeBits
	for i := 0; i < MaxInterfaces; i++ {
		declared += sub.ProbeWidth[i]
	}
	if declared != sub.TotalProbes {
		r.Postf(2, "Error: Total_Probes by declaration (%d) does not match with definition (%d)",
			declared, sub.TotalProbes)
		return false
	}
	calculated := bridgeBits
	for i := uint32(0); i < MaxInterfaces; i++ {
		calculated += sub.CalculatedWidth(i)
	}
	if calculated != sub.TotalProbes {
		r.Postf(2, "Error: Total_Probes by calculation (%d) does not match with definition (%d)",
			calculated, sub.TotalProbes)
		return false
	}

	// 11. Base addresses must be pairwise distinct. The per-core address
	// is recorded here.
	r.Postf(1, "Parameter IF[1..%d]_BaseAddress must not conflict", sub.Cores)
	seen := make(map[uint32]bool)
	for _, c := range cores {
		c.BaseAddress = sub.BaseAddress[c.Index]
		if seen[c.BaseAddress] {
			r.Postf(2, "Error: Module %s has conflict base address 0x%08X", c.ModuleName, c.BaseAddress)
			ok = false
			continue
		}
		r.Postf(2, "Module %s has base address 0x%08X", c.ModuleName, c.BaseAddress)
		seen[c.BaseAddress] = true
	}
	return ok
}
