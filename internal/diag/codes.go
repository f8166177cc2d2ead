package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Driver / command line
	DrvInfo            Code = 1000
	DrvInvalidFloatABI Code = 1001
	DrvUnknownArgument Code = 1002
	DrvMissingValue    Code = 1003
	DrvInvalidTriple   Code = 1004
	DrvProfileError    Code = 1005

	// Target description
	TgtInfo           Code = 2000
	TgtUnknownArch    Code = 2001
	TgtUnknownCPU     Code = 2002
	TgtUnknownFeature Code = 2003
	TgtBadDataLayout  Code = 2004

	// Inline assembly
	AsmInfo              Code = 3000
	AsmInvalidConstraint Code = 3001
	AsmEmptyConstraint   Code = 3002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		DrvInfo:              "Driver information",
		DrvInvalidFloatABI:   "Invalid float ABI",
		DrvUnknownArgument:   "Unknown argument",
		DrvMissingValue:      "Missing argument value",
		DrvInvalidTriple:     "Invalid target triple",
		DrvProfileError:      "Target profile error",
		TgtInfo:              "Target information",
		TgtUnknownArch:       "Unknown target architecture",
		TgtUnknownCPU:        "Unknown target CPU",
		TgtUnknownFeature:    "Unknown target feature",
		TgtBadDataLayout:     "Malformed data layout",
		AsmInfo:              "Inline assembly information",
		AsmInvalidConstraint: "Invalid inline assembly constraint",
		AsmEmptyConstraint:   "Empty inline assembly constraint",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TGT%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("ASM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
