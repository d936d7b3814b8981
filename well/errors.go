// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package well

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// NumericalError signals a numerical problem in the current nonlinear iteration.
// The driver answers it by cutting the time step
type NumericalError struct {
	Well string // name of well
	Msg  string // message
}

// Error returns the message
func (o *NumericalError) Error() string {
	return io.Sf("numerical problem in well %q: %s", o.Well, o.Msg)
}

// LogicError signals a configuration or programming error. It is not retried
type LogicError struct {
	Well string // name of well
	Msg  string // message
}

// Error returns the message
func (o *LogicError) Error() string {
	return io.Sf("logic error in well %q: %s", o.Well, o.Msg)
}

// numErr returns a new NumericalError
func numErr(well, msg string, prm ...interface{}) error {
	return &NumericalError{Well: well, Msg: io.Sf(msg, prm...)}
}

// logicErr returns a new LogicError
func logicErr(well, msg string, prm ...interface{}) error {
	return &LogicError{Well: well, Msg: io.Sf(msg, prm...)}
}

// IsNumerical tells whether err (or any error it wraps) is a NumericalError
func IsNumerical(err error) bool {
	var e *NumericalError
	return errors.As(err, &e)
}

// IsLogic tells whether err (or any error it wraps) is a LogicError
func IsLogic(err error) bool {
	var e *LogicError
	return errors.As(err, &e)
}

// withWell sets the well name of numerical and logic errors without one
func withWell(err error, name string) error {
	var ne *NumericalError
	if errors.As(err, &ne) && ne.Well == "" {
		ne.Well = name
	}
	var le *LogicError
	if errors.As(err, &le) && le.Well == "" {
		le.Well = name
	}
	return err
}
