package layout

import "fortio.org/safecast"

// Target describes the ABI target triple and its pointer properties.
type Target struct {
	Triple   string // e.g. "simple-unknown-linux"
	PtrSize  int    // bytes
	PtrAlign int    // bytes
}

// TargetFor derives pointer properties from a parsed data layout.
func TargetFor(triple string, dl DataLayout) Target {
	size, err := safecast.Conv[int](dl.PointerBits / 8)
	if err != nil {
		size = 0
	}
	align, err := safecast.Conv[int](dl.PointerAlign.ABI / 8)
	if err != nil {
		align = 0
	}
	return Target{
		Triple:   triple,
		PtrSize:  size,
		PtrAlign: align,
	}
}
