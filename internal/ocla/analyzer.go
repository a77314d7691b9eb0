package ocla

import (
	"fmt"

	"github.com/raptor-eda/ocla/internal/netlist"
)

// Analyzer drives the full discovery and validation pipeline over one
// loaded design. A value is single-use: Run mutates the design
// (blackbox and flatten) and must not be called twice.
type Analyzer struct {
	design *netlist.Design
	report *Report
	cfg    Config
}

// Result carries everything the pipeline produced. SuccessCount is the
// number of cores that passed the final check, or zero whenever any
// core failed; the message log is complete in every outcome.
type Result struct {
	Messages     []string
	SuccessCount int
	Cores        []*CoreInstance
	Subsystem    *DebugSubsystem
}

func New(design *netlist.Design, cfg Config) *Analyzer {
	return &Analyzer{
		design: design,
		report: NewReport(),
		cfg:    cfg.withDefaults(),
	}
}

// Run executes the pipeline to completion. An error is returned only
// for conditions outside the analysis semantics, a design with no top
// module; every analysis failure instead ends the run early with the
// messages collected so far and SuccessCount zero.
func (a *Analyzer) Run() (*Result, error) {
	r := a.report
	r.Postf(0, "Start of OCLA Analysis")

	top := a.design.Top()
	if top == nil {
		r.Postf(0, "Error: Cannot find top module")
		return nil, fmt.Errorf("ocla: cannot find top module")
	}

	res := &Result{}
	finish := func() (*Result, error) {
		r.Postf(0, "End of OCLA Analysis")
		res.Messages = r.Messages()
		return res, nil
	}

	cores, subs := a.classify()
	res.Cores = cores
	if len(cores) == 0 || len(subs) != 1 {
		verdict := "Warning"
		if len(subs) > 1 {
			verdict = "Error"
		}
		r.Postf(0, "%s: OCLA module count=%d, OCLA Debug Subsystem module count=%d",
			verdict, len(cores), len(subs))
		return finish()
	}
	sub := subs[0]
	res.Subsystem = sub

	path, ok := resolveUniquePath(a.design, sub.ModuleName, r)
	if !ok {
		r.Postf(0, "Error: Currently only support one OCLA Debug Subsystem instance in a design")
		return finish()
	}

	var instNames []string
	for _, c := range cores {
		r.Postf(0, "Check instantiator for OCLA module %s", c.ModuleName)
		names := instantiators(a.design, c.ModuleName, r, 1)
		if len(names) == 0 {
			r.Postf(1, "Warning: Does not detect any instantiator")
		}
		instNames = append(instNames, names...)
	}
	if len(instNames) == 0 {
		r.Postf(0, "Error: Does not find any OCLA instantiator")
		return finish()
	}

	if !crossValidate(sub, cores, instNames, r) {
		r.Postf(0, "Error: Sanity check fail")
		return finish()
	}

	r.Postf(0, "Run command: blackbox %s", path.Instantiator)
	if err := a.design.Blackbox(path.Instantiator); err != nil {
		r.Postf(1, "Error: %v", err)
		return finish()
	}
	r.Postf(0, "Run command: flatten")
	if err := a.design.Flatten(); err != nil {
		r.Postf(1, "Error: %v", err)
		return finish()
	}

	if !resolveSignals(a.design.Top(), sub, cores, path.Instantiator, r) {
		r.Postf(0, "Error: Fail to get probe signals")
		return finish()
	}

	success := 0
	for _, c := range cores {
		r.Postf(0, "Module: %s", c.ModuleName)
		r.Postf(1, "Final checking ...")
		if !c.finalize(sub, r) {
			r.Postf(1, "Error: Disqualify this module")
			success = 0
			break
		}
		r.Postf(1, "Probes:")
		for _, f := range c.Probes {
			r.Postf(2, "--> %s", f.FullName)
			r.Postf(3, ": %s (width=%d, offset=%d)", f.Render(), f.Width, f.Offset)
		}
		success++
	}
	res.SuccessCount = success
	return finish()
}
