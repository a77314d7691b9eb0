package netlist

import (
	_ "embed"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed netlist.cue
var netlistSchema string

// precheck unifies the raw JSON document with the embedded CUE schema.
// Decoding only starts on documents that pass; the CUE error detail
// (with positions) goes into the returned LoadError.
func precheck(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(netlistSchema, cue.Filename("netlist.cue"))
	if err := schema.Err(); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: "internal schema is invalid", Detail: cueerrors.Details(err, nil)}
	}

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return &LoadError{Code: ErrCodeDecode, Message: "not valid JSON", Detail: err.Error()}
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return &LoadError{Code: ErrCodeDecode, Message: "not valid JSON", Detail: cueerrors.Details(err, nil)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Netlist")).Unify(doc)
	if err := unified.Validate(cue.Final()); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: "netlist does not match schema", Detail: cueerrors.Details(err, nil)}
	}
	return nil
}
