package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName               = "bool"
	booleanFlagTrueLiteral            = "true"
	booleanFlagAcceptedValuesListing  = "true, false, yes, no, on, off, 1, 0"
	booleanFlagInvalidValueErrorLabel = "invalid boolean value"

	depthFlagTypeName               = "depth"
	depthFlagInvalidValueErrorLabel = "invalid depth"

	choiceFlagTypeName               = "choice"
	choiceFlagInvalidValueErrorLabel = "invalid value"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// detachedValueAcceptor is implemented by flag values whose argument is optional.
// It reports whether the argument following the flag should be consumed as its value.
type detachedValueAcceptor interface {
	acceptsDetachedValue(argument string) bool
}

type booleanFlagValue struct {
	target  *bool
	flagKey string
}

func (value *booleanFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", booleanFlagInvalidValueErrorLabel, input)
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, ok := booleanFlagLiterals[normalized]
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", booleanFlagInvalidValueErrorLabel, input, value.flagKey, booleanFlagAcceptedValuesListing)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

func (value *booleanFlagValue) acceptsDetachedValue(argument string) bool {
	_, known := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(argument))]
	return known
}

// registerBooleanFlag defines a false-by-default switch that also accepts an explicit literal,
// as in --copy=false or --copy no.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = false
	flagSet.VarP(&booleanFlagValue{target: target, flagKey: name}, name, shorthand, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(false)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// depthFlagValue holds a directory depth. Zero means the flag was not given.
type depthFlagValue struct {
	target  *int
	flagKey string
}

func (value *depthFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", depthFlagInvalidValueErrorLabel, input)
	}
	parsed, parseError := strconv.Atoi(strings.TrimSpace(input))
	if parseError != nil {
		return fmt.Errorf("%s %q for --%s; expected an integer", depthFlagInvalidValueErrorLabel, input, value.flagKey)
	}
	*value.target = parsed
	return nil
}

func (value *depthFlagValue) String() string {
	if value == nil || value.target == nil {
		return "0"
	}
	return strconv.Itoa(*value.target)
}

func (value *depthFlagValue) Type() string {
	return depthFlagTypeName
}

func (value *depthFlagValue) acceptsDetachedValue(argument string) bool {
	return isIntegerLiteral(argument)
}

// registerDepthFlag defines a flag whose integer argument may be omitted, in which case
// defaultDepth applies.
func registerDepthFlag(flagSet *pflag.FlagSet, target *int, name string, shorthand string, defaultDepth int, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = 0
	flagSet.VarP(&depthFlagValue{target: target, flagKey: name}, name, shorthand, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = "0"
		lookup.NoOptDefVal = strconv.Itoa(defaultDepth)
	}
}

type choiceFlagValue struct {
	target  *string
	flagKey string
	choices []string
}

func (value *choiceFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", choiceFlagInvalidValueErrorLabel, input)
	}
	normalized := strings.ToLower(strings.TrimSpace(input))
	if !value.acceptsDetachedValue(normalized) {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", choiceFlagInvalidValueErrorLabel, input, value.flagKey, strings.Join(value.choices, ", "))
	}
	*value.target = normalized
	return nil
}

func (value *choiceFlagValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

func (value *choiceFlagValue) Type() string {
	return choiceFlagTypeName
}

func (value *choiceFlagValue) acceptsDetachedValue(argument string) bool {
	for _, choice := range value.choices {
		if argument == choice {
			return true
		}
	}
	return false
}

// registerChoiceFlag defines a flag restricted to choices whose argument defaults to choices[0].
func registerChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, choices []string, usage string) {
	if flagSet == nil || target == nil || len(choices) == 0 {
		return
	}
	*target = ""
	flagSet.Var(&choiceFlagValue{target: target, flagKey: name, choices: choices}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.NoOptDefVal = choices[0]
	}
}
