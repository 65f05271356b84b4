package shaderspec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/shaderperm/option"
)

var (
	boolDeclRe  = regexp.MustCompile(`^bool\s+(\w+)\s*$`)
	enumDeclRe  = regexp.MustCompile(`^enum\s+(\w+)\s*\{\s*([\w\s,]*?)\s*\}\s*$`)
	rangeDeclRe = regexp.MustCompile(`^(?:uint|int)\s+(\w+)\s*\{\s*(-?\d+)\s*\.\.\s*(-?\d+)\s*\}\s*$`)
)

// parseOptionDecl parses the text following "#pragma option ", dispatching
// on its leading token: "bool <ident>", "enum <ident> { v1, v2, ... }" or
// "uint|int <ident> { lo..hi }".
func parseOptionDecl(text string) (option.Option, error) {
	if m := boolDeclRe.FindStringSubmatch(text); m != nil {
		return option.NewBoolean(m[1]), nil
	}

	if m := enumDeclRe.FindStringSubmatch(text); m != nil {
		name := m[1]
		var values []string
		for _, v := range strings.Split(m[2], ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
		return option.NewEnumeration(name, values...)
	}

	if m := rangeDeclRe.FindStringSubmatch(text); m != nil {
		name := m[1]
		lo, err := strconv.Atoi(m[2])
		if err != nil {
			return option.Option{}, fmt.Errorf("shaderspec: %w", ErrMalformedOption)
		}
		hi, err := strconv.Atoi(m[3])
		if err != nil {
			return option.Option{}, fmt.Errorf("shaderspec: %w", ErrMalformedOption)
		}
		return option.NewIntegerRange(name, lo, hi)
	}

	return option.Option{}, fmt.Errorf("shaderspec: %w", ErrMalformedOption)
}
