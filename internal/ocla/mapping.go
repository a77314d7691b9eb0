package ocla

// decodeProbeMappings reconstructs which probes belong to which core
// from the packed IF{i}_Probes fields. An AXI-only subsystem has no
// native interfaces, so the decoder degenerates to verifying every
// packed field is null. Otherwise each native interface's packed field
// is consumed one nibble at a time from the least significant end, each
// nibble being a 1-based probe id. Any out-of-range nibble, zero-width
// probe or probe claimed twice is fatal for the run.
func (s *DebugSubsystem) decodeProbeMappings(cores []*CoreInstance, r *Report) bool {
	if s.mapped {
		r.Postf(1, "Error: probe mapping had been decoded")
		return false
	}
	s.mapped = true

	native := s.NativeCoreCount()
	if native > 0 {
		r.Postf(0, "Decode probe assignment of each interface")
	}
	maxProbe := s.NoProbes
	if maxProbe > MaxInterfaces {
		maxProbe = MaxInterfaces
	}

	coreByIndex := make(map[uint32]*CoreInstance, len(cores))
	for _, c := range cores {
		coreByIndex[c.Index] = c
	}

	consumed := uint32(0)
	for i := uint32(0); i < native; i++ {
		packed := s.PackedProbes[i]
		r.Postf(1, "IF%d_Probes - 0x%016X", i+1, packed)
		if packed == 0 {
			r.Postf(2, "Error: IF%d_Probes must not be null", i+1)
			return false
		}
		for v := packed; v != 0; v >>= 4 {
			p := uint32(v & 0xF)
			if p < 1 || p > maxProbe {
				r.Postf(2, "Error: Probe index %d is out of range (1..%d)", p, maxProbe)
				return false
			}
			if s.ProbeWidth[p-1] == 0 {
				r.Postf(2, "Error: Probe%d has null width", p)
				return false
			}
			if s.probeAssigned[p-1] {
				r.Postf(2, "Error: Duplicated Probe %d", p)
				return false
			}
			if c := coreByIndex[i]; c != nil {
				c.ProbeOrder = append(c.ProbeOrder, p-1)
			}
			s.probeToCore[p-1] = ProbeRange{Core: i, Offset: s.calcCoreWidth[i]}
			s.probeAssigned[p-1] = true
			s.calcCoreWidth[i] += s.ProbeWidth[p-1]
			consumed++
			r.Postf(2, "Probe%d -> interface %d at offset %d", p, i, s.probeToCore[p-1].Offset)
		}
	}

	for i := native; i < MaxInterfaces; i++ {
		if s.PackedProbes[i] != 0 {
			r.Postf(1, "Error: IF%d_Probes must be null", i+1)
			return false
		}
	}

	if consumed != s.NoProbes {
		r.Postf(1, "Error: Assigned probe count %d does not match NO_OF_PROBES %d", consumed, s.NoProbes)
		return false
	}
	status := true
	for _, c := range cores {
		if c.IsAxiBridge {
			if len(c.ProbeOrder) != 0 {
				r.Postf(1, "Error: AXI bridge module %s must not own any probe", c.ModuleName)
				status = false
			}
			continue
		}
		if len(c.ProbeOrder) == 0 {
			r.Postf(1, "Error: Module %s does not own any probe", c.ModuleName)
			status = false
		}
	}
	return status
}
