package simple

import (
	"simplecc/internal/target"
	"simplecc/internal/toolchain/opt"
)

// TargetFeatures appends "+soft-float" to features when the resolved
// float ABI is soft.
func TargetFeatures(d Driver, args *opt.ArgList, features []string) []string {
	if FloatABIFor(d, args) == FloatABISoft {
		features = append(features, target.FeatureSoftFloat)
	}
	return features
}

// ExtraFeatures translates -m<feat> and -mno-<feat> into "+feat" and
// "-feat", in argument order.
func ExtraFeatures(args *opt.ArgList, features []string) []string {
	for _, a := range args.Filtered(opt.OptMFeature, opt.OptMNoFeature) {
		if a.Matches(opt.OptMNoFeature) {
			features = append(features, "-"+a.Value())
		} else {
			features = append(features, "+"+a.Value())
		}
	}
	return features
}

// CPUFromArgs returns the last -mcpu= value, or "generic".
func CPUFromArgs(args *opt.ArgList) string {
	if a := args.LastArg(opt.OptMCPUEQ); a != nil && a.Value() != "" {
		return a.Value()
	}
	return "generic"
}

// TargetOptions assembles the target-options record from the driver
// arguments: CPU, the float-ABI feature, then passthrough features.
func TargetOptions(d Driver, args *opt.ArgList) target.Options {
	features := ExtraFeatures(args, TargetFeatures(d, args, nil))
	return target.Options{
		CPU:      CPUFromArgs(args),
		Features: features,
		ABI:      ResolveFloatABI(args).ABI.String(),
	}
}
