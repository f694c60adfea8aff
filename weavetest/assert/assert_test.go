package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/crowdvest/errors"
)

// recorder counts fatal calls instead of stopping the test.
type recorder struct {
	failures int
}

func (r *recorder) Helper()                       {}
func (r *recorder) Fatal(...interface{})          { r.failures++ }
func (r *recorder) Fatalf(string, ...interface{}) { r.failures++ }

func TestAssertions(t *testing.T) {
	var nilAddr []byte
	var nilErr *errors.Error

	cases := map[string]struct {
		check    func(Tester)
		wantFail bool
	}{
		"same error":           {check: func(r Tester) { IsErr(r, errors.ErrEmpty, errors.ErrEmpty) }},
		"wrapped error":        {check: func(r Tester) { IsErr(r, errors.ErrEmpty, errors.Wrap(errors.ErrEmpty, "name")) }},
		"both errors nil":      {check: func(r Tester) { IsErr(r, nil, nil) }},
		"error instead of nil": {check: func(r Tester) { IsErr(r, nil, errors.ErrEmpty) }, wantFail: true},
		"other root error":     {check: func(r Tester) { IsErr(r, errors.ErrState, errors.ErrInput) }, wantFail: true},
		"nil slice":            {check: func(r Tester) { Nil(r, nilAddr) }},
		"typed nil error":      {check: func(r Tester) { Nil(r, nilErr) }},
		"zero int is not nil":  {check: func(r Tester) { Nil(r, 0) }, wantFail: true},
		"stdlib error":         {check: func(r Tester) { Nil(r, fmt.Errorf("x")) }, wantFail: true},
		"equal slices":         {check: func(r Tester) { Equal(r, []byte{1}, []byte{1}) }},
		"different types":      {check: func(r Tester) { Equal(r, int64(1), 1) }, wantFail: true},
		"panicking function":   {check: func(r Tester) { Panics(r, func() { panic("boom") }) }},
		"quiet function":       {check: func(r Tester) { Panics(r, func() {}) }, wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var r recorder
			tc.check(&r)
			if failed := r.failures > 0; failed != tc.wantFail {
				t.Fatalf("want failure %v, got %d failures", tc.wantFail, r.failures)
			}
		})
	}
}
