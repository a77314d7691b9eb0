package ocla

import "fmt"

// MaxInterfaces bounds the per-subsystem interface and probe arrays.
const MaxInterfaces = 15

// Mode is the debug subsystem operating mode.
type Mode int

const (
	ModeNative Mode = iota
	ModeAxi
	ModeNativeAxi
)

func (m Mode) String() string {
	switch m {
	case ModeAxi:
		return "AXI"
	case ModeNativeAxi:
		return "NATIVE_AXI"
	default:
		return "NATIVE"
	}
}

func parseMode(s string) (Mode, error) {
	switch s {
	case "NATIVE":
		return ModeNative, nil
	case "AXI":
		return ModeAxi, nil
	case "NATIVE_AXI":
		return ModeNativeAxi, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// AxiType selects the bus protocol the subsystem bridges to.
type AxiType int

const (
	AxiNone AxiType = iota
	Axi4
	AxiLite
)

func (t AxiType) String() string {
	switch t {
	case Axi4:
		return "AXI4"
	case AxiLite:
		return "AXILITE"
	default:
		return "NONE"
	}
}

func parseAxiType(s string) (AxiType, error) {
	switch s {
	case "NONE":
		return AxiNone, nil
	case "AXI4":
		return Axi4, nil
	case "AXILITE":
		return AxiLite, nil
	}
	return 0, fmt.Errorf("unknown AXI type %q", s)
}

// IPCandidate is the shared part of a detected IP: the module name and
// the decoded parameter table. Both IP kinds always declare IP_TYPE,
// IP_VERSION and IP_ID.
type IPCandidate struct {
	ModuleName string
	Table      *ParamTable

	Type    string
	Version uint32
	ID      uint32
}

func (c *IPCandidate) loadCommon() {
	c.Type = c.Table.str(`\IP_TYPE`)
	c.Version = c.Table.u32(`\IP_VERSION`)
	c.ID = c.Table.u32(`\IP_ID`)
}

// CoreInstance is one qualified OCLA core.
type CoreInstance struct {
	IPCandidate

	AxiAddrWidth  uint32
	AxiDataWidth  uint32
	MemDepth      uint32
	ProbesCount   uint32
	TriggerInputs uint32
	Index         uint32

	// Populated during cross-validation and resolution.
	BaseAddress uint32
	IsAxiBridge bool
	ProbeOrder  []uint32 // 0-based probe ids owned by this core, assignment order
	Probes      []SignalFragment
}

func newCoreTable() *ParamTable {
	t := newParamTable()
	t.declare(`\IP_TYPE`, ParamStr)
	t.declare(`\IP_VERSION`, ParamUInt32)
	t.declare(`\IP_ID`, ParamUInt32)
	t.declare(`\AXI_ADDR_WIDTH`, ParamUInt32)
	t.declare(`\AXI_DATA_WIDTH`, ParamUInt32)
	t.declare(`\MEM_DEPTH`, ParamUInt32)
	t.declare(`\NO_OF_PROBES`, ParamUInt32)
	t.declare(`\NO_OF_TRIGGER_INPUTS`, ParamUInt32)
	t.declare(`\INDEX`, ParamUInt32)
	return t
}

func (c *CoreInstance) loadFields() {
	c.loadCommon()
	c.AxiAddrWidth = c.Table.u32(`\AXI_ADDR_WIDTH`)
	c.AxiDataWidth = c.Table.u32(`\AXI_DATA_WIDTH`)
	c.MemDepth = c.Table.u32(`\MEM_DEPTH`)
	c.ProbesCount = c.Table.u32(`\NO_OF_PROBES`)
	c.TriggerInputs = c.Table.u32(`\NO_OF_TRIGGER_INPUTS`)
	c.Index = c.Table.u32(`\INDEX`)
}

// checkType is the core qualification predicate.
func (c *CoreInstance) checkType(r *Report) bool {
	if c.Type == "OCLA" && c.MemDepth > 0 && c.ProbesCount > 0 {
		return true
	}
	r.Postf(1, "Error: Fail to validate parameters")
	r.Postf(2, "IP_TYPE: %s", c.Type)
	r.Postf(2, "MEM_DEPTH: %d", c.MemDepth)
	r.Postf(2, "NO_OF_PROBES: %d", c.ProbesCount)
	return false
}

// ProbeRange is one derived probe-to-core assignment: which core owns a
// probe and at which bit offset inside that core.
type ProbeRange struct {
	Core   uint32
	Offset uint32
}

// DebugSubsystem is the single qualified debug subsystem aggregator.
type DebugSubsystem struct {
	IPCandidate

	Mode        Mode
	AxiType     AxiType
	NoAxiBus    uint32
	Cores       uint32
	NoProbes    uint32
	TotalProbes uint32

	ProbeWidth   [MaxInterfaces]uint32
	BaseAddress  [MaxInterfaces]uint32
	PackedProbes [MaxInterfaces]uint64

	// Write-once state derived by the mapping decoder.
	probeToCore   [MaxInterfaces]ProbeRange
	probeAssigned [MaxInterfaces]bool
	calcCoreWidth [MaxInterfaces]uint32
	mapped        bool
}

func newSubsystemTable() *ParamTable {
	t := newParamTable()
	t.declare(`\IP_TYPE`, ParamStr)
	t.declare(`\IP_VERSION`, ParamUInt32)
	t.declare(`\IP_ID`, ParamUInt32)
	t.declare(`\MODE`, ParamStr)
	t.declare(`\AXI_TYPE`, ParamStr)
	t.declare(`\NO_AXI_BUS`, ParamUInt32)
	t.declare(`\CORES`, ParamUInt32)
	t.declare(`\NO_OF_PROBES`, ParamUInt32)
	t.declare(`\Total_Probes`, ParamUInt32)
	for i := 1; i <= MaxInterfaces; i++ {
		t.declare(fmt.Sprintf(`\Probe%d`, i), ParamUInt32)
		t.declare(fmt.Sprintf(`\IF%d_BaseAddress`, i), ParamUInt32)
		t.declare(fmt.Sprintf(`\IF%d_Probes`, i), ParamUInt64)
	}
	return t
}

func (s *DebugSubsystem) loadFields() error {
	s.loadCommon()
	mode, err := parseMode(s.Table.str(`\MODE`))
	if err != nil {
		return err
	}
	s.Mode = mode
	axiType, err := parseAxiType(s.Table.str(`\AXI_TYPE`))
	if err != nil {
		return err
	}
	s.AxiType = axiType
	s.NoAxiBus = s.Table.u32(`\NO_AXI_BUS`)
	s.Cores = s.Table.u32(`\CORES`)
	s.NoProbes = s.Table.u32(`\NO_OF_PROBES`)
	s.TotalProbes = s.Table.u32(`\Total_Probes`)
	for i := 0; i < MaxInterfaces; i++ {
		s.ProbeWidth[i] = s.Table.u32(fmt.Sprintf(`\Probe%d`, i+1))
		s.BaseAddress[i] = s.Table.u32(fmt.Sprintf(`\IF%d_BaseAddress`, i+1))
		s.PackedProbes[i] = s.Table.u64(fmt.Sprintf(`\IF%d_Probes`, i+1))
	}
	return nil
}

// checkType is the subsystem qualification predicate. The mode decides
// the admissible core count and AXI settings.
func (s *DebugSubsystem) checkType(r *Report) bool {
	ok := s.Type == "OCLA"
	switch s.Mode {
	case ModeNative:
		ok = ok && s.Cores >= 1 && s.Cores <= MaxInterfaces && s.AxiType == AxiNone
	case ModeAxi:
		ok = ok && s.Cores == 1 && s.AxiType != AxiNone && s.NoAxiBus >= 1
	case ModeNativeAxi:
		ok = ok && s.Cores >= 2 && s.Cores <= MaxInterfaces && s.AxiType != AxiNone && s.NoAxiBus >= 1
	}
	if ok {
		return true
	}
	r.Postf(1, "Error: Fail to validate parameters")
	r.Postf(2, "IP_TYPE: %s", s.Type)
	r.Postf(2, "MODE: %s", s.Mode)
	r.Postf(2, "AXI_TYPE: %s", s.AxiType)
	r.Postf(2, "CORES: %d", s.Cores)
	return false
}

// NativeCoreCount is the number of interface slots carrying packed
// probe assignments. The AXI bridge core, when present, is always the
// highest-indexed core and takes no native probes.
func (s *DebugSubsystem) NativeCoreCount() uint32 {
	if s.Mode == ModeNative {
		return s.Cores
	}
	return s.Cores - 1
}

// HasBridge reports whether an AXI bridge core is present.
func (s *DebugSubsystem) HasBridge() bool {
	return s.Mode != ModeNative
}

// ProbeRange returns the derived probe-to-core assignment for a 0-based
// probe id, valid only after the mapping decoder ran.
func (s *DebugSubsystem) ProbeRange(probe uint32) (ProbeRange, bool) {
	if probe >= MaxInterfaces || !s.probeAssigned[probe] {
		return ProbeRange{}, false
	}
	return s.probeToCore[probe], true
}

// CalculatedWidth returns the summed probe width assigned to an
// interface slot, valid only after the mapping decoder ran.
func (s *DebugSubsystem) CalculatedWidth(iface uint32) uint32 {
	if iface >= MaxInterfaces {
		return 0
	}
	return s.calcCoreWidth[iface]
}
