// Package convargs converts function arguments at the function boundary.
//
// A function may accept arguments in a type convenient for its callers while
// its body works with another type. Convargs rewrites such a function at
// generation time: the parameter takes the caller-facing type, and the body
// starts by converting the argument back into the type it was declared with.
// A failed conversion returns early with an error.
//
// To start with convargs, add a build constraint to files containing
// directives:
//
//	//go:build convargs
//
// Then annotate functions with a convert directive in their doc comments. The
// directive lists arguments with the types to accept:
//
//	// source:
//	//convargs:convert id: string
//	func GetUser(id int64) (*User, error) {
//		return db.Find(id)
//	}
//
//	// generated:
//	func GetUser(idArg string) (*User, error) {
//		var id int64
//		if err := convargs.TryFrom[string](&id, idArg); err != nil {
//			return *new(*User), err
//		}
//		return db.Find(id)
//	}
//
// After annotating functions, run the convargs command. It generates
// user_convargs.go next to user.go with the opposite build constraint:
//
//	go run github.com/sublee/convargs/cmd/convargs
//
// Multiple arguments may be listed in one directive or across several
// directives. The prologues run in the order of the listing:
//
//	//convargs:convert a: string, b: json.Number
//	//convargs:convert c: []byte
//
// # Conversions
//
// [TryFrom] performs the conversion in the prologue. The type argument makes
// the caller-facing type explicit, so any value assignable to it is accepted
// at call sites. The conversion into the original type is chosen in order:
//
//  1. The original type implements [From] with a pointer receiver.
//  2. The caller-facing type implements [Into].
//  3. The argument already holds the original type, such as an interface
//     holding a concrete type.
//  4. The types are convertible by the Go conversion rules. Numeric
//     conversions are checked against overflow and truncation. Integers are
//     never converted into strings.
//
// Otherwise [TryFrom] fails with [ErrUnsupported].
//
// # Errors
//
// Errors of [From] and [Into] implementations are returned as they are. When
// the function's error result is not the error interface, declare an adapter
// with an errwrap directive. It is applied to the conversion error before
// returning:
//
//	//convargs:errwrap NewAPIError
//	//convargs:convert id: string
//	func GetUser(id int64) (*User, *APIError) { ... }
package convargs

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

var (
	// ErrUnsupported is the cause of a [ConversionError] when there is no way
	// to convert between the types.
	ErrUnsupported = errors.New("unsupported conversion")

	// ErrOverflow is the cause of a [ConversionError] when a number does not
	// fit in the target type.
	ErrOverflow = errors.New("value out of range")

	// ErrInexact is the cause of a [ConversionError] when a floating-point
	// number with a fractional part is converted into an integer.
	ErrInexact = errors.New("value not representable exactly")
)

// From is implemented by a pointer to a type which can be set from a value of
// type S.
//
//	func (id *UserID) TryFrom(s string) error {
//		n, err := strconv.ParseInt(s, 10, 64)
//		*id = UserID(n)
//		return err
//	}
type From[S any] interface {
	TryFrom(src S) error
}

// Into is implemented by a type which can be converted into type T.
type Into[T any] interface {
	TryInto() (T, error)
}

// ConversionError describes a failed conversion by [TryFrom] without a
// user-defined conversion.
type ConversionError struct {
	From string // type of the argument
	To   string // type of the parameter
	Err  error  // ErrUnsupported, ErrOverflow or ErrInexact
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convargs: cannot convert %s to %s: %v", e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// TryFrom converts src into the type of *dst and stores it. On failure, *dst
// is left unchanged unless a [From] implementation modified it.
func TryFrom[S, T any](dst *T, src S) error {
	if from, ok := any(dst).(From[S]); ok {
		return from.TryFrom(src)
	}

	if into, ok := any(src).(Into[T]); ok {
		v, err := into.TryInto()
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}

	if v, ok := any(src).(T); ok {
		*dst = v
		return nil
	}

	return convert(dst, src)
}

// Zero returns the zero value of T.
func Zero[T any]() T {
	var zero T
	return zero
}

// convert converts src by the Go conversion rules.
func convert[S, T any](dst *T, src S) error {
	dv := reflect.ValueOf(dst).Elem()
	dt := dv.Type()

	sv := reflect.ValueOf(any(src))
	if !sv.IsValid() {
		// A nil interface has no dynamic type to convert from.
		if nillable(dt.Kind()) {
			dv.SetZero()
			return nil
		}
		return &ConversionError{reflect.TypeFor[S]().String(), dt.String(), ErrUnsupported}
	}
	st := sv.Type()

	if !sv.CanConvert(dt) || isInt(st.Kind()) && dt.Kind() == reflect.String {
		return &ConversionError{st.String(), dt.String(), ErrUnsupported}
	}

	cv := sv.Convert(dt)
	if err := checkNumber(sv, cv); err != nil {
		return &ConversionError{st.String(), dt.String(), err}
	}

	dv.Set(cv)
	return nil
}

// checkNumber reports whether the numeric conversion from sv to cv lost the
// value. Floating-point and complex targets may round but must not overflow.
func checkNumber(sv, cv reflect.Value) error {
	sk, ck := sv.Kind(), cv.Kind()
	switch {
	case isComplex(sk) && isComplex(ck):
		c, src := cv.Complex(), sv.Complex()
		if overflowed(real(c), real(src)) || overflowed(imag(c), imag(src)) {
			return ErrOverflow
		}
		return nil

	case !isNumber(sk) || !isNumber(ck):
		return nil

	case isFloat(ck):
		src := math.NaN()
		if isFloat(sk) {
			src = sv.Float()
		}
		if overflowed(cv.Float(), src) {
			return ErrOverflow
		}
		return nil

	case isFloat(sk):
		f := sv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrOverflow
		}
		if f != math.Trunc(f) {
			return ErrInexact
		}
		if f < 0 && isUint(ck) || cv.Convert(sv.Type()).Float() != f {
			return ErrOverflow
		}
		return nil
	}

	// Integer to integer
	if negative(sv) != negative(cv) || !cv.Convert(sv.Type()).Equal(sv) {
		return ErrOverflow
	}
	return nil
}

// overflowed reports whether f became infinite although src was finite. src is
// NaN if it was not a floating-point number.
func overflowed(f, src float64) bool {
	return math.IsInf(f, 0) && !math.IsInf(src, 0)
}

func negative(v reflect.Value) bool {
	return isInt(v.Kind()) && !isUint(v.Kind()) && v.Int() < 0
}

func isNumber(k reflect.Kind) bool { return isInt(k) || isFloat(k) }

func isInt(k reflect.Kind) bool { return reflect.Int <= k && k <= reflect.Uintptr }

func isUint(k reflect.Kind) bool { return reflect.Uint <= k && k <= reflect.Uintptr }

func isFloat(k reflect.Kind) bool { return k == reflect.Float32 || k == reflect.Float64 }

func isComplex(k reflect.Kind) bool { return k == reflect.Complex64 || k == reflect.Complex128 }

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	}
	return false
}
