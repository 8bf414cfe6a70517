// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"testing"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		code      ExitCode
		valid     bool
		isSuccess bool
		str       string
	}{
		{0, true, true, "0"},
		{1, true, false, "1"},
		{255, true, false, "255"},
		{256, false, false, "256"},
		{-1, false, false, "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			err := tt.code.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !tt.valid {
				if !errors.Is(err, ErrInvalidExitCode) {
					t.Errorf("Validate() error = %v, want ErrInvalidExitCode", err)
				}
				var invalid *InvalidExitCodeError
				if !errors.As(err, &invalid) || invalid.Value != tt.code {
					t.Errorf("Validate() error = %v, want InvalidExitCodeError{%d}", err, tt.code)
				}
			}
			if got := tt.code.IsSuccess(); got != tt.isSuccess {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.isSuccess)
			}
			if got := tt.code.String(); got != tt.str {
				t.Errorf("String() = %q, want %q", got, tt.str)
			}
		})
	}
}
