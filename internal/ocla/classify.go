package ocla

import (
	"sort"
	"strings"

	"github.com/raptor-eda/ocla/internal/netlist"
)

// Config names the modules the classifier looks for. Matching is by
// suffix, case-sensitive, so wrapped or generated hierarchy prefixes
// are allowed.
type Config struct {
	CoreName      string // default "ocla"
	SubsystemName string // default "ocla_debug_subsystem"
}

func (c Config) withDefaults() Config {
	if c.CoreName == "" {
		c.CoreName = "ocla"
	}
	if c.SubsystemName == "" {
		c.SubsystemName = "ocla_debug_subsystem"
	}
	return c
}

// matchModuleName checks whether an escaped module name equals the
// target or ends with "\target" after an arbitrary prefix.
func matchModuleName(moduleName, target string) bool {
	full := "\\" + target
	return moduleName == full || strings.HasSuffix(moduleName, full)
}

// classify scans every design module, builds typed candidates through
// the parameter schema and keeps the qualified ones. Core candidates
// are ordered by ascending INDEX; a duplicate INDEX survives here and
// is caught by the sequence check later.
func (a *Analyzer) classify() ([]*CoreInstance, []*DebugSubsystem) {
	var cores []*CoreInstance
	var subs []*DebugSubsystem
	for _, m := range a.design.Modules() {
		switch {
		case matchModuleName(m.Name, a.cfg.CoreName):
			a.report.Postf(0, "Detected Potential OCLA: %s", m.Name)
			core := &CoreInstance{IPCandidate: IPCandidate{ModuleName: m.Name, Table: newCoreTable()}}
			if !decodeParams(a.report, core.Table, m.Params) {
				a.report.Postf(1, "Error: this is not qualified as OCLA module")
				continue
			}
			core.loadFields()
			if !core.checkType(a.report) {
				a.report.Postf(1, "Error: this is not qualified as OCLA module")
				continue
			}
			cores = append(cores, core)
			a.report.Postf(1, "Qualified as OCLA module")

		case matchModuleName(m.Name, a.cfg.SubsystemName):
			a.report.Postf(0, "Detected Potential OCLA Debug Subsystem: %s", m.Name)
			sub := &DebugSubsystem{IPCandidate: IPCandidate{ModuleName: m.Name, Table: newSubsystemTable()}}
			if !decodeParams(a.report, sub.Table, m.Params) {
				a.report.Postf(1, "Error: this is not qualified as OCLA Debug Subsystem module")
				continue
			}
			if err := sub.loadFields(); err != nil {
				a.report.Postf(1, "Error: %v", err)
				a.report.Postf(1, "Error: this is not qualified as OCLA Debug Subsystem module")
				continue
			}
			if !sub.checkType(a.report) {
				a.report.Postf(1, "Error: this is not qualified as OCLA Debug Subsystem module")
				continue
			}
			subs = append(subs, sub)
			a.report.Postf(1, "Qualified as OCLA Debug Subsystem module")
		}
	}
	sort.SliceStable(cores, func(i, j int) bool { return cores[i].Index < cores[j].Index })
	return cores, subs
}

// decodeParams feeds every declared parameter of the module into the
// candidate's schema table. Unknown names are ignored, any malformed or
// duplicate assignment and any never-assigned slot discards the whole
// candidate.
func decodeParams(r *Report, t *ParamTable, params map[string]string) bool {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if !t.set(r, n, params[n]) {
			return false
		}
	}
	return t.checkAllAssigned(r)
}

// instantiators returns the names of all modules containing a cell of
// the given type.
func instantiators(d *netlist.Design, typeName string, r *Report, depth int) []string {
	var out []string
	for _, m := range d.Modules() {
		for _, c := range m.Cells {
			if c.Type == typeName {
				r.Postf(depth, "Instantiated by %s", m.Name)
				out = append(out, m.Name)
			}
		}
	}
	return out
}
