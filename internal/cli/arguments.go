package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	argumentTerminator     = "--"
	longFlagPrefix         = "--"
	shortFlagPrefix        = "-"
	flagValueSeparator     = "="
	fileSystemShortForm    = "-fs"
	joinedFlagValueFormat  = "--%s=%s"
	expandedLongFlagFormat = "--%s"
)

// normalizeArguments rewrites command line arguments into a form pflag can parse.
// The two-letter -fs form becomes --filesystem and an attached depth such as -f2 becomes
// --files=2. A flag with an optional argument absorbs the following argument only when
// that argument is a value the flag accepts, so "-f 2 explain" sets a depth while
// "-f explain" leaves the prompt intact.
// Everything after "--" is passed through untouched.
func normalizeArguments(flagSet *pflag.FlagSet, arguments []string) []string {
	if flagSet == nil || len(arguments) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		current := expandShortForms(flagSet, arguments[index])
		if current == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		flag, isShorthand := lookupDetachedFlag(flagSet, current)
		if flag != nil && index+1 < len(arguments) {
			nextArgument := arguments[index+1]
			if acceptsDetached(flag, isShorthand, nextArgument) {
				normalized = append(normalized, fmt.Sprintf(joinedFlagValueFormat, flag.Name, nextArgument))
				index += 2
				continue
			}
		}
		normalized = append(normalized, current)
		index++
	}
	return normalized
}

// expandShortForms rewrites -fs, -fs=N, -fsN, and an integer attached to a depth
// shorthand such as -f2 into long flag arguments.
func expandShortForms(flagSet *pflag.FlagSet, argument string) string {
	if strings.HasPrefix(argument, fileSystemShortForm) {
		remainder := strings.TrimPrefix(argument, fileSystemShortForm)
		switch {
		case remainder == "":
			return fmt.Sprintf(expandedLongFlagFormat, fileSystemFlagName)
		case strings.HasPrefix(remainder, flagValueSeparator):
			return fmt.Sprintf(expandedLongFlagFormat, fileSystemFlagName) + remainder
		case isIntegerLiteral(remainder):
			return fmt.Sprintf(joinedFlagValueFormat, fileSystemFlagName, remainder)
		}
	}
	if strings.HasPrefix(argument, longFlagPrefix) || !strings.HasPrefix(argument, shortFlagPrefix) || len(argument) <= 2 {
		return argument
	}
	flag := flagSet.ShorthandLookup(argument[1:2])
	if flag == nil || flag.Value.Type() != depthFlagTypeName || !isIntegerLiteral(argument[2:]) {
		return argument
	}
	return fmt.Sprintf(joinedFlagValueFormat, flag.Name, argument[2:])
}

func isIntegerLiteral(text string) bool {
	_, parseError := strconv.Atoi(text)
	return parseError == nil
}

// lookupDetachedFlag returns the flag named by argument when it carries no attached value
// and its argument is optional.
func lookupDetachedFlag(flagSet *pflag.FlagSet, argument string) (*pflag.Flag, bool) {
	if strings.Contains(argument, flagValueSeparator) {
		return nil, false
	}
	var flag *pflag.Flag
	isShorthand := false
	switch {
	case strings.HasPrefix(argument, longFlagPrefix):
		flag = flagSet.Lookup(strings.TrimPrefix(argument, longFlagPrefix))
	case strings.HasPrefix(argument, shortFlagPrefix) && len(argument) == 2:
		flag = flagSet.ShorthandLookup(strings.TrimPrefix(argument, shortFlagPrefix))
		isShorthand = true
	}
	if flag == nil || flag.NoOptDefVal == "" {
		return nil, false
	}
	return flag, isShorthand
}

func acceptsDetached(flag *pflag.Flag, isShorthand bool, argument string) bool {
	if argument == argumentTerminator {
		return false
	}
	// -t is a plain switch; only the long form of a boolean takes a detached literal.
	if isShorthand && flag.Value.Type() == booleanFlagTypeName {
		return false
	}
	acceptor, ok := flag.Value.(detachedValueAcceptor)
	return ok && acceptor.acceptsDetachedValue(argument)
}
