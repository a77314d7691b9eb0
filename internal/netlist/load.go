package netlist

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

type jsonNetlist struct {
	Creator string                `json:"creator"`
	Modules map[string]jsonModule `json:"modules"`
}

type jsonModule struct {
	Attributes    map[string]any      `json:"attributes"`
	ParamDefaults map[string]any      `json:"parameter_default_values"`
	Ports         map[string]jsonPort `json:"ports"`
	Cells         map[string]jsonCell `json:"cells"`
	Netnames      map[string]jsonNet  `json:"netnames"`
}

type jsonPort struct {
	Direction string `json:"direction"`
	Bits      []any  `json:"bits"`
	Offset    int    `json:"offset"`
}

type jsonCell struct {
	Type        string           `json:"type"`
	Parameters  map[string]any   `json:"parameters"`
	Connections map[string][]any `json:"connections"`
}

type jsonNet struct {
	HideName int   `json:"hide_name"`
	Bits     []any `json:"bits"`
	Offset   int   `json:"offset"`
}

// Load reads and decodes a netlist file.
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse validates data against the netlist schema and decodes it.
func Parse(filename string, data []byte) (*Design, error) {
	if err := precheck(filename, data); err != nil {
		return nil, err
	}
	var raw jsonNetlist
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: err.Error()}
	}

	d := NewDesign()
	for _, name := range sortedKeys(raw.Modules) {
		m, err := buildModule(name, raw.Modules[name])
		if err != nil {
			return nil, err
		}
		d.AddModule(m)
	}
	return d, nil
}

func buildModule(name string, jm jsonModule) (*Module, error) {
	m := &Module{
		Name:       EscapeID(name),
		Attributes: make(map[string]string),
		Params:     make(map[string]string),
		Wires:      make(map[string]*Wire),
	}
	for k, v := range jm.Attributes {
		m.Attributes[k] = attrString(v)
	}
	for _, k := range sortedKeys(jm.ParamDefaults) {
		lit, err := paramLiteral(jm.ParamDefaults[k])
		if err != nil {
			return nil, &LoadError{Code: ErrCodeDecode,
				Message: fmt.Sprintf("module %s parameter %s: %v", name, k, err)}
		}
		m.Params[EscapeID(k)] = lit
	}

	// Wires come from netnames; named ports without a netname entry get
	// a synthesized wire. Visible names claim bit ids before hidden ones.
	netBits := make(map[int]bitRef)
	claim := func(w *Wire, bits []any) {
		for i, b := range bits {
			id, isNet := bitID(b)
			if !isNet {
				continue
			}
			if _, taken := netBits[id]; !taken {
				netBits[id] = bitRef{wire: w, off: i}
			}
		}
	}
	for pass := 0; pass < 2; pass++ {
		for _, wn := range sortedKeys(jm.Netnames) {
			jn := jm.Netnames[wn]
			if (pass == 0) != (jn.HideName == 0) {
				continue
			}
			w := &Wire{Name: EscapeID(wn), Width: len(jn.Bits), Offset: jn.Offset}
			if _, dup := m.Wires[w.Name]; !dup {
				m.Wires[w.Name] = w
				claim(w, jn.Bits)
			}
		}
	}
	for _, pn := range sortedKeys(jm.Ports) {
		jp := jm.Ports[pn]
		wn := EscapeID(pn)
		if _, ok := m.Wires[wn]; !ok {
			w := &Wire{Name: wn, Width: len(jp.Bits), Offset: jp.Offset}
			m.Wires[wn] = w
			claim(w, jp.Bits)
		}
		m.Ports = append(m.Ports, wn)
	}

	for _, cn := range sortedKeys(jm.Cells) {
		jc := jm.Cells[cn]
		cell := &Cell{
			Name:       EscapeID(cn),
			Type:       EscapeID(jc.Type),
			Parameters: make(map[string]string),
		}
		for _, k := range sortedKeys(jc.Parameters) {
			lit, err := paramLiteral(jc.Parameters[k])
			if err != nil {
				return nil, &LoadError{Code: ErrCodeDecode,
					Message: fmt.Sprintf("module %s cell %s parameter %s: %v", name, cn, k, err)}
			}
			cell.Parameters[EscapeID(k)] = lit
		}
		for _, port := range sortedKeys(jc.Connections) {
			sig, err := sigFromBits(jc.Connections[port], netBits)
			if err != nil {
				return nil, &LoadError{Code: ErrCodeBadRef,
					Message: fmt.Sprintf("module %s cell %s port %s: %v", name, cn, port, err)}
			}
			cell.Connections = append(cell.Connections, Connection{Port: EscapeID(port), Signal: sig})
		}
		m.Cells = append(m.Cells, cell)
	}
	return m, nil
}

// sigFromBits converts a JSON bit-id list (least significant first) into
// a chunked signal.
func sigFromBits(bits []any, netBits map[int]bitRef) (SigSpec, error) {
	refs := make([]bitRef, 0, len(bits))
	for i, b := range bits {
		if id, isNet := bitID(b); isNet {
			ref, ok := netBits[id]
			if !ok {
				return nil, fmt.Errorf("bit %d references unknown net id %d", i, id)
			}
			refs = append(refs, ref)
			continue
		}
		s, _ := b.(string)
		if len(s) != 1 || !strings.ContainsRune("01xz", rune(s[0])) {
			return nil, fmt.Errorf("bit %d has invalid constant %v", i, b)
		}
		refs = append(refs, bitRef{bit: s[0]})
	}
	return chunksFromBits(refs), nil
}

func bitID(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// paramLiteral renders a JSON parameter value as an RTLIL dump literal.
// Numbers become decimal; binary-digit strings become sized binary
// ("8'00101100"); anything else is a quoted string. Yosys appends one
// space to genuine strings that would otherwise look like bit vectors,
// so a trailing space marks a string and is stripped.
func paramLiteral(v any) (string, error) {
	switch val := v.(type) {
	case float64:
		if val != float64(int64(val)) {
			return "", fmt.Errorf("non-integer value %v", val)
		}
		return fmt.Sprintf("%d", int64(val)), nil
	case string:
		if strings.HasSuffix(val, " ") {
			return fmt.Sprintf("%q", strings.TrimSuffix(val, " ")), nil
		}
		if val != "" && strings.Trim(val, "01xz") == "" {
			return fmt.Sprintf("%d'%s", len(val), val), nil
		}
		return fmt.Sprintf("%q", val), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func attrString(v any) string {
	switch val := v.(type) {
	case string:
		// Attribute integers dump as bit strings ("00000001").
		if val != "" && strings.Trim(val, "01") == "" {
			if strings.ContainsRune(val, '1') && strings.TrimLeft(val, "0") == "1" {
				return "1"
			}
		}
		return strings.TrimSuffix(val, " ")
	case float64:
		return fmt.Sprintf("%d", int64(val))
	default:
		return fmt.Sprintf("%v", val)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
