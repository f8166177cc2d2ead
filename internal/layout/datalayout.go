package layout

import (
	"maps"
	"slices"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Mangling is the symbol mangling mode selected by the "m:" component.
type Mangling byte

const (
	ManglingNone  Mangling = 0
	ManglingELF   Mangling = 'e'
	ManglingMachO Mangling = 'o'
	ManglingMips  Mangling = 'm'
	ManglingCOFF  Mangling = 'w'
)

// Align is an ABI/preferred alignment pair in bits.
type Align struct {
	ABI  uint32
	Pref uint32
}

// DataLayout is the parsed form of a data layout string such as
// "e-m:e-p:32:32-i64:64-f128:64-n32-S64". All sizes are in bits.
type DataLayout struct {
	BigEndian      bool
	Mangling       Mangling
	PointerBits    uint32
	PointerAlign   Align
	IntAligns      map[uint32]Align
	FloatAligns    map[uint32]Align
	NativeIntBits  []uint32
	StackAlignBits uint32 // 0 means unspecified

	explicitInts   map[uint32]bool
	explicitFloats map[uint32]bool
	src            string
}

// defaultDataLayout mirrors the LLVM defaults applied before a layout
// string is read.
func defaultDataLayout() DataLayout {
	return DataLayout{
		PointerBits:  64,
		PointerAlign: Align{ABI: 64, Pref: 64},
		IntAligns: map[uint32]Align{
			1:  {8, 8},
			8:  {8, 8},
			16: {16, 16},
			32: {32, 32},
			64: {32, 64},
		},
		FloatAligns: map[uint32]Align{
			16:  {16, 16},
			32:  {32, 32},
			64:  {64, 64},
			128: {128, 128},
		},
		explicitInts:   map[uint32]bool{},
		explicitFloats: map[uint32]bool{},
	}
}

// ParseDataLayout parses s. The empty string yields the defaults.
func ParseDataLayout(s string) (DataLayout, error) {
	dl := defaultDataLayout()
	dl.src = s
	if s == "" {
		return dl, nil
	}
	for _, comp := range strings.Split(s, "-") {
		if err := dl.parseComponent(comp); err != nil {
			return DataLayout{}, err
		}
	}
	return dl, nil
}

// MustParseDataLayout panics on malformed input; for built-in tables.
func MustParseDataLayout(s string) DataLayout {
	dl, err := ParseDataLayout(s)
	if err != nil {
		panic(err)
	}
	return dl
}

func (dl *DataLayout) parseComponent(comp string) error {
	if comp == "" {
		return &LayoutError{Kind: LayoutErrMissingField, Component: comp}
	}
	switch comp[0] {
	case 'e':
		if comp != "e" {
			return &LayoutError{Kind: LayoutErrUnknownSpec, Component: comp}
		}
		dl.BigEndian = false
	case 'E':
		if comp != "E" {
			return &LayoutError{Kind: LayoutErrUnknownSpec, Component: comp}
		}
		dl.BigEndian = true
	case 'm':
		if len(comp) != 3 || comp[1] != ':' {
			return &LayoutError{Kind: LayoutErrUnknownSpec, Component: comp}
		}
		switch m := Mangling(comp[2]); m {
		case ManglingELF, ManglingMachO, ManglingMips, ManglingCOFF:
			dl.Mangling = m
		default:
			return &LayoutError{Kind: LayoutErrUnknownSpec, Component: comp}
		}
	case 'p':
		// p[addrspace]:size:abi[:pref]; only address space 0 is tracked.
		fields := strings.Split(comp, ":")
		if len(fields) < 3 {
			return &LayoutError{Kind: LayoutErrMissingField, Component: comp}
		}
		if as := fields[0][1:]; as != "" && as != "0" {
			return nil
		}
		nums, err := parseBits(comp, fields[1:])
		if err != nil {
			return err
		}
		al, err := alignFrom(comp, nums[1:])
		if err != nil {
			return err
		}
		dl.PointerBits = nums[0]
		dl.PointerAlign = al
	case 'i', 'f':
		fields := strings.Split(comp, ":")
		if len(fields) < 2 {
			return &LayoutError{Kind: LayoutErrMissingField, Component: comp}
		}
		nums, err := parseBits(comp, append([]string{fields[0][1:]}, fields[1:]...))
		if err != nil {
			return err
		}
		al, err := alignFrom(comp, nums[1:])
		if err != nil {
			return err
		}
		if comp[0] == 'i' {
			dl.IntAligns[nums[0]] = al
			dl.explicitInts[nums[0]] = true
		} else {
			dl.FloatAligns[nums[0]] = al
			dl.explicitFloats[nums[0]] = true
		}
	case 'n':
		nums, err := parseBits(comp, strings.Split(comp[1:], ":"))
		if err != nil {
			return err
		}
		dl.NativeIntBits = nums
	case 'S':
		nums, err := parseBits(comp, []string{comp[1:]})
		if err != nil {
			return err
		}
		if nums[0]%8 != 0 {
			return &LayoutError{Kind: LayoutErrBadAlign, Component: comp}
		}
		dl.StackAlignBits = nums[0]
	case 'a', 'v', 'A', 'P', 'G', 'F':
		// aggregate, vector and address-space components are accepted but
		// not modelled.
	default:
		return &LayoutError{Kind: LayoutErrUnknownSpec, Component: comp}
	}
	return nil
}

func parseBits(comp string, fields []string) ([]uint32, error) {
	out := make([]uint32, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			return nil, &LayoutError{Kind: LayoutErrMissingField, Component: comp}
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, &LayoutError{Kind: LayoutErrBadNumber, Component: comp, Err: err}
		}
		v, err := safecast.Conv[uint32](n)
		if err != nil {
			return nil, &LayoutError{Kind: LayoutErrBadNumber, Component: comp, Err: err}
		}
		out = append(out, v)
	}
	return out, nil
}

func alignFrom(comp string, nums []uint32) (Align, error) {
	if len(nums) == 0 {
		return Align{}, &LayoutError{Kind: LayoutErrMissingField, Component: comp}
	}
	al := Align{ABI: nums[0], Pref: nums[0]}
	if len(nums) > 1 {
		al.Pref = nums[1]
	}
	if al.ABI%8 != 0 || al.Pref%8 != 0 || al.Pref < al.ABI {
		return Align{}, &LayoutError{Kind: LayoutErrBadAlign, Component: comp}
	}
	return al, nil
}

// IntAlign returns the ABI alignment in bits for an integer of the given
// width: an exact entry wins, otherwise the smallest larger entry, otherwise
// the largest entry.
func (dl DataLayout) IntAlign(bits uint32) uint32 {
	if a, ok := dl.IntAligns[bits]; ok {
		return a.ABI
	}
	widths := sortedKeys(dl.IntAligns)
	for _, w := range widths {
		if w > bits {
			return dl.IntAligns[w].ABI
		}
	}
	if len(widths) == 0 {
		return 8
	}
	return dl.IntAligns[widths[len(widths)-1]].ABI
}

// FloatAlign returns the ABI alignment in bits for a float of the given
// width; unspecified widths are naturally aligned.
func (dl DataLayout) FloatAlign(bits uint32) uint32 {
	if a, ok := dl.FloatAligns[bits]; ok {
		return a.ABI
	}
	return bits
}

// Clone returns a deep copy of dl; the result shares no maps or slices
// with dl.
func (dl DataLayout) Clone() DataLayout {
	out := dl
	out.IntAligns = maps.Clone(dl.IntAligns)
	out.FloatAligns = maps.Clone(dl.FloatAligns)
	out.NativeIntBits = slices.Clone(dl.NativeIntBits)
	out.explicitInts = maps.Clone(dl.explicitInts)
	out.explicitFloats = maps.Clone(dl.explicitFloats)
	return out
}

// IsNativeInt reports whether bits is one of the "n" widths.
func (dl DataLayout) IsNativeInt(bits uint32) bool {
	for _, n := range dl.NativeIntBits {
		if n == bits {
			return true
		}
	}
	return false
}

// String returns the layout string the value was parsed from, or a
// canonical rendering for a zero-source value.
func (dl DataLayout) String() string {
	if dl.src != "" {
		return dl.src
	}
	return dl.Canonical()
}

// Canonical renders the non-default components in a fixed order.
func (dl DataLayout) Canonical() string {
	var parts []string
	if dl.BigEndian {
		parts = append(parts, "E")
	} else {
		parts = append(parts, "e")
	}
	if dl.Mangling != ManglingNone {
		parts = append(parts, "m:"+string(rune(dl.Mangling)))
	}
	parts = append(parts, "p:"+u32(dl.PointerBits)+":"+alignString(dl.PointerAlign))
	for _, w := range sortedKeys(dl.IntAligns) {
		if dl.explicitInts[w] {
			parts = append(parts, "i"+u32(w)+":"+alignString(dl.IntAligns[w]))
		}
	}
	for _, w := range sortedKeys(dl.FloatAligns) {
		if dl.explicitFloats[w] {
			parts = append(parts, "f"+u32(w)+":"+alignString(dl.FloatAligns[w]))
		}
	}
	if len(dl.NativeIntBits) > 0 {
		ns := make([]string, 0, len(dl.NativeIntBits))
		for _, n := range dl.NativeIntBits {
			ns = append(ns, u32(n))
		}
		parts = append(parts, "n"+strings.Join(ns, ":"))
	}
	if dl.StackAlignBits != 0 {
		parts = append(parts, "S"+u32(dl.StackAlignBits))
	}
	return strings.Join(parts, "-")
}

func alignString(a Align) string {
	if a.Pref == a.ABI {
		return u32(a.ABI)
	}
	return u32(a.ABI) + ":" + u32(a.Pref)
}

func u32(v uint32) string {
	return strconv.FormatUint(uint64(v), 10)
}

func sortedKeys(m map[uint32]Align) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
