// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vfp

import "github.com/cpmech/gosl/chk"

// Props holds all lift curve tables keyed by table number
type Props struct {
	prod map[int]*ProdTable
	inj  map[int]*InjTable
}

// NewProps returns an empty set of tables
func NewProps() *Props {
	return &Props{prod: make(map[int]*ProdTable), inj: make(map[int]*InjTable)}
}

// AddProd checks and adds a production table
func (o *Props) AddProd(t *ProdTable) (err error) {
	if err = t.Check(); err != nil {
		return
	}
	if _, ok := o.prod[t.Id]; ok {
		return chk.Err("vfp production table %d is already defined", t.Id)
	}
	o.prod[t.Id] = t
	return
}

// AddInj checks and adds an injection table
func (o *Props) AddInj(t *InjTable) (err error) {
	if err = t.Check(); err != nil {
		return
	}
	if _, ok := o.inj[t.Id]; ok {
		return chk.Err("vfp injection table %d is already defined", t.Id)
	}
	o.inj[t.Id] = t
	return
}

// Prod returns a production table
func (o *Props) Prod(id int) (*ProdTable, error) {
	t, ok := o.prod[id]
	if !ok {
		return nil, chk.Err("vfp production table %d is not available", id)
	}
	return t, nil
}

// Inj returns an injection table
func (o *Props) Inj(id int) (*InjTable, error) {
	t, ok := o.inj[id]
	if !ok {
		return nil, chk.Err("vfp injection table %d is not available", id)
	}
	return t, nil
}
