// Package assert holds the few assertions the ledger tests share. Each
// helper stops the test on the first mismatch.
package assert

import (
	"reflect"
)

// Tester is the part of testing.TB the helpers need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil accepts an untyped nil as well as a nil pointer, slice, map or
// function stored in an interface. Errors are printed with %+v so that a
// stack trace is shown.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want a nil value, got %+v", value)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal \nwant %T %v\n got %T %v", want, want, got, got)
	}
}

func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("panic expected")
		}
	}()
	fn()
}

// IsErr passes when got is want or was created from it. Registered errors
// are matched through their Is method.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if want == got {
		return
	}
	if root, ok := want.(interface{ Is(error) bool }); ok && root.Is(got) {
		return
	}
	t.Fatalf("want %q, got %+v", want, got)
}
