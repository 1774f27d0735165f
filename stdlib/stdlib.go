// Package stdlib registers a small set of Go standard library packages as
// importable host modules. Class names follow the gowrap convention: the
// package class is the import path and type classes are
// "<import path>.<Type>".
package stdlib

import (
	"bytes"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/chazu/taco/host"
)

// Modules lists the module names Register installs.
var Modules = []string{"bytes", "math", "strconv", "strings", "time"}

// Register installs the standard modules into r. Nothing is defined until
// a module is imported.
func Register(r *host.Registry) {
	r.Module("bytes", loadBytes)
	r.Module("math", loadMath)
	r.Module("strconv", loadStrconv)
	r.Module("strings", loadStrings)
	r.Module("time", loadTime)
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func loadStrings(r *host.Registry) error {
	r.Define("strings", nil).
		StaticMethod("Contains", strings.Contains).
		StaticMethod("Count", strings.Count).
		StaticMethod("Fields", strings.Fields).
		StaticMethod("HasPrefix", strings.HasPrefix).
		StaticMethod("HasSuffix", strings.HasSuffix).
		StaticMethod("Index", strings.Index).
		StaticMethod("Join", strings.Join).
		StaticMethod("Repeat", strings.Repeat).
		StaticMethod("Replace", strings.Replace).
		StaticMethod("ReplaceAll", strings.ReplaceAll).
		StaticMethod("Split", strings.Split).
		StaticMethod("ToLower", strings.ToLower).
		StaticMethod("ToUpper", strings.ToUpper).
		StaticMethod("TrimSpace", strings.TrimSpace)

	r.Define("strings.Builder", typeOf[strings.Builder]())
	r.Define("strings.Reader", typeOf[strings.Reader]()).
		Constructor(strings.NewReader)
	r.Define("strings.Replacer", typeOf[strings.Replacer]()).
		Constructor(strings.NewReplacer)
	return nil
}

func loadBytes(r *host.Registry) error {
	r.Define("bytes", nil).
		StaticMethod("Equal", bytes.Equal).
		StaticMethod("ToUpper", bytes.ToUpper)

	r.Define("bytes.Buffer", typeOf[bytes.Buffer]()).
		Constructor(bytes.NewBufferString).
		Constructor(func() *bytes.Buffer { return new(bytes.Buffer) })
	return nil
}

func loadStrconv(r *host.Registry) error {
	r.Define("strconv", nil).
		StaticMethod("Atoi", strconv.Atoi).
		StaticMethod("Itoa", strconv.Itoa).
		StaticMethod("FormatFloat", strconv.FormatFloat).
		StaticMethod("ParseBool", strconv.ParseBool).
		StaticMethod("ParseFloat", strconv.ParseFloat).
		StaticMethod("Quote", strconv.Quote).
		StaticMethod("Unquote", strconv.Unquote).
		Constant("IntSize", strconv.IntSize)
	return nil
}

func loadMath(r *host.Registry) error {
	r.Define("math", nil).
		StaticMethod("Abs", math.Abs).
		StaticMethod("Ceil", math.Ceil).
		StaticMethod("Floor", math.Floor).
		StaticMethod("Hypot", math.Hypot).
		StaticMethod("Max", math.Max).
		StaticMethod("Min", math.Min).
		StaticMethod("Pow", math.Pow).
		StaticMethod("Sqrt", math.Sqrt).
		Constant("E", math.E).
		Constant("Pi", math.Pi).
		Constant("MaxInt64", int64(math.MaxInt64))
	return nil
}

func loadTime(r *host.Registry) error {
	r.Define("time", nil).
		StaticMethod("Now", time.Now).
		StaticMethod("Unix", time.Unix).
		StaticMethod("Parse", time.Parse).
		StaticMethod("ParseDuration", time.ParseDuration).
		StaticMethod("LoadLocation", time.LoadLocation).
		Constant("RFC3339", time.RFC3339).
		Constant("DateOnly", time.DateOnly).
		Constant("UTC", time.UTC)

	r.Define("time.Time", typeOf[time.Time]()).
		Constructor(func(year int, month time.Month, day, hour, min, sec, nsec int, loc *time.Location) time.Time {
			return time.Date(year, month, day, hour, min, sec, nsec, loc)
		}).
		Constructor(func(year int, month time.Month, day int) time.Time {
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		}).
		Constructor(time.Unix)
	r.Define("time.Duration", typeOf[time.Duration]())
	r.Define("time.Location", typeOf[time.Location]())
	return nil
}
