package ocla

import (
	"strings"

	"github.com/raptor-eda/ocla/internal/canonjson"
)

// Document builds the output document for a finished run. The message
// log is always present; the per-core and subsystem sections appear
// only when every core passed the final check, since a partial
// instrumentation description would be worse than none.
func (res *Result) Document() map[string]any {
	doc := map[string]any{
		"messages": res.Messages,
	}
	if res.SuccessCount == 0 || res.SuccessCount != len(res.Cores) {
		return doc
	}

	sub := res.Subsystem
	oclas := make([]any, 0, len(res.Cores))
	for _, c := range res.Cores {
		entry := paramsDoc(c.Table)
		entry["addr"] = c.BaseAddress
		probes := make([]any, 0, len(c.Probes))
		for _, f := range c.Probes {
			probes = append(probes, f.Render())
		}
		entry["probes"] = probes
		if !c.IsAxiBridge {
			ranges := make([]any, 0, len(c.ProbeOrder))
			for _, p := range c.ProbeOrder {
				pr, _ := sub.ProbeRange(p)
				ranges = append(ranges, map[string]any{
					"index":  p + 1,
					"offset": pr.Offset,
					"width":  sub.ProbeWidth[p],
				})
			}
			entry["probe_ranges"] = ranges
		}
		oclas = append(oclas, entry)
	}
	doc["ocla"] = oclas
	doc["ocla_debug_subsystem"] = paramsDoc(sub.Table)
	return doc
}

// MarshalCanonical serializes the document in canonical form, suitable
// for byte-level comparison between runs.
func (res *Result) MarshalCanonical() ([]byte, error) {
	return canonjson.Marshal(res.Document())
}

// paramsDoc flattens a decoded table into a document object. Keys lose
// the escape marker; the output is for people and tools, not RTLIL.
func paramsDoc(t *ParamTable) map[string]any {
	out := make(map[string]any, len(t.Names()))
	for _, name := range t.Names() {
		v, ok := t.Value(name)
		if !ok {
			continue
		}
		name = strings.TrimPrefix(name, "\\")
		switch v.Kind {
		case ParamUInt32:
			out[name] = v.U32
		case ParamUInt64:
			out[name] = v.U64
		default:
			out[name] = v.Str
		}
	}
	return out
}
