// Package debug provides environment-driven trace switches for path
// resolution and document mutation.
package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Parse   bool
	Resolve bool
	Mutate  bool
	Encode  bool
}

var d *debug

func init() {
	d = &debug{}
	d.Parse = boolEnv("YAMLPATH_DEBUG_PARSE")
	d.Resolve = boolEnv("YAMLPATH_DEBUG_RESOLVE")
	d.Mutate = boolEnv("YAMLPATH_DEBUG_MUTATE")
	d.Encode = boolEnv("YAMLPATH_DEBUG_ENCODE")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Parse() bool {
	return d.Parse
}
func Resolve() bool {
	return d.Resolve
}
func Mutate() bool {
	return d.Mutate
}
func Encode() bool {
	return d.Encode
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
