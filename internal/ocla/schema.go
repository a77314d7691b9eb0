package ocla

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParamKind selects the storage slot type of a schema parameter.
type ParamKind int

const (
	ParamUInt32 ParamKind = iota
	ParamUInt64
	ParamStr
)

// ParamValue is the tagged value cell a decoded parameter lands in.
// Exactly one of the payload fields is meaningful, selected by Kind.
type ParamValue struct {
	Kind ParamKind
	U32  uint32
	U64  uint64
	Str  string
}

// paramSlot is one declared schema entry. A slot may be assigned at
// most once; decoding fails the owning candidate when a slot is
// assigned twice or never assigned at all.
type paramSlot struct {
	kind     ParamKind
	assigned bool
	val      ParamValue
}

// ParamTable is the declarative parameter schema of one IP candidate
// plus its decoded values, keyed by escaped parameter name.
type ParamTable struct {
	slots map[string]*paramSlot
}

func newParamTable() *ParamTable {
	return &ParamTable{slots: make(map[string]*paramSlot)}
}

func (t *ParamTable) declare(name string, kind ParamKind) {
	t.slots[name] = &paramSlot{kind: kind}
}

// Names returns all declared parameter names in sorted order.
func (t *ParamTable) Names() []string {
	names := make([]string, 0, len(t.slots))
	for n := range t.slots {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Value returns the decoded value of a declared parameter.
func (t *ParamTable) Value(name string) (ParamValue, bool) {
	s, ok := t.slots[name]
	if !ok {
		return ParamValue{}, false
	}
	return s.val, true
}

func (t *ParamTable) u32(name string) uint32 { return t.slots[name].val.U32 }
func (t *ParamTable) u64(name string) uint64 { return t.slots[name].val.U64 }
func (t *ParamTable) str(name string) string { return t.slots[name].val.Str }

// set decodes one parameter literal into its slot. Unknown names are
// logged and ignored; a malformed literal or a second assignment fails
// the candidate.
func (t *ParamTable) set(r *Report, name, literal string) bool {
	slot, ok := t.slots[name]
	if !ok {
		r.Postf(1, "Ignore param %s", name)
		return true
	}
	if slot.assigned {
		r.Postf(1, "Error: Param %s had been assigned", name)
		return false
	}
	switch slot.kind {
	case ParamStr:
		s, err := DecodeStringLiteral(literal)
		if err != nil {
			r.Postf(1, "Error: Param %s value %s does not follow string format", name, literal)
			return false
		}
		slot.val = ParamValue{Kind: ParamStr, Str: s}
		r.Postf(1, "Param %s - %s", name, s)
	case ParamUInt64:
		v, err := DecodeUintLiteral(literal, 64)
		if err != nil {
			r.Postf(1, "Error: Param %s value %s does not follow uint64_t format", name, literal)
			return false
		}
		slot.val = ParamValue{Kind: ParamUInt64, U64: v}
		r.Postf(1, "Param %s - %d (0x%016X)", name, v, v)
	default:
		v, err := DecodeUintLiteral(literal, 32)
		if err != nil {
			r.Postf(1, "Error: Param %s value %s does not follow uint32_t format", name, literal)
			return false
		}
		slot.val = ParamValue{Kind: ParamUInt32, U32: uint32(v)}
		r.Postf(1, "Param %s - %d (0x%08X)", name, uint32(v), uint32(v))
	}
	slot.assigned = true
	return true
}

// checkAllAssigned reports every declared slot the design never
// assigned. Any unassigned slot discards the candidate.
func (t *ParamTable) checkAllAssigned(r *Report) bool {
	all := true
	for _, name := range t.Names() {
		if !t.slots[name].assigned {
			all = false
			r.Postf(1, "Error: missing parameter %s", name)
		}
	}
	return all
}

// DecodeStringLiteral accepts a double-quoted literal and returns the
// content between the quotes.
func DecodeStringLiteral(lit string) (string, error) {
	if len(lit) >= 2 && lit[0] == '"' && lit[len(lit)-1] == '"' {
		return lit[1 : len(lit)-1], nil
	}
	return "", fmt.Errorf("literal %q is not a quoted string", lit)
}

// EncodeStringLiteral is the inverse of DecodeStringLiteral.
func EncodeStringLiteral(s string) string {
	return `"` + s + `"`
}

// DecodeUintLiteral accepts either plain decimal digits or a sized
// binary literal "{bits}'{binary-digits}". The declared bit count must
// equal the digit count and must not exceed maxBits (32 or 64).
func DecodeUintLiteral(lit string, maxBits int) (uint64, error) {
	if tick := strings.IndexByte(lit, '\''); tick >= 0 {
		bits, err := strconv.Atoi(lit[:tick])
		if err != nil {
			return 0, fmt.Errorf("bad size prefix in %q", lit)
		}
		body := lit[tick+1:]
		if bits != len(body) || bits == 0 || bits > maxBits {
			return 0, fmt.Errorf("size %d does not fit literal %q (max %d bits)", bits, lit, maxBits)
		}
		var v uint64
		for i := 0; i < len(body); i++ {
			switch body[i] {
			case '0':
				v <<= 1
			case '1':
				v = v<<1 | 1
			default:
				return 0, fmt.Errorf("non-binary digit %q in %q", body[i], lit)
			}
		}
		return v, nil
	}
	v, err := strconv.ParseUint(lit, 10, maxBits)
	if err != nil {
		return 0, fmt.Errorf("bad decimal literal %q: %v", lit, err)
	}
	return v, nil
}

// EncodeUintLiteral renders the plain decimal form.
func EncodeUintLiteral(v uint64) string {
	return strconv.FormatUint(v, 10)
}

// EncodeSizedBinary renders the "{bits}'{binary}" form DecodeUintLiteral
// accepts.
func EncodeSizedBinary(v uint64, bits int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d'", bits)
	for i := bits - 1; i >= 0; i-- {
		if v>>uint(i)&1 == 1 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}
