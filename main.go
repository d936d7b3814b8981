// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/spf13/cobra"
	"github.com/totto82/opm-autodiff-sub000/inp"
	"github.com/totto82/opm-autodiff-sub000/mdl/pvt"
	"github.com/totto82/opm-autodiff-sub000/sim"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	rootCmd := &cobra.Command{
		Use:   "wellsim",
		Short: "Black-oil reservoir simulator with standard and multi-segment wells",
	}
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(potentialsCmd())
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the flags shared by all commands
type options struct {
	verbose bool   // show messages
	linsol  string // linear solver; empty => from deck
	serial  bool   // assemble wells sequentially
}

// addFlags adds the shared flags to cmd
func (o *options) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false, "show messages")
	cmd.Flags().StringVar(&o.linsol, "linsol", "", "linear solver: umfpack or bicgstab")
	cmd.Flags().BoolVar(&o.serial, "serial", false, "assemble wells sequentially")
}

// load reads the deck and allocates the simulation
func (o *options) load(path string) (m *sim.Main, err error) {
	deck, err := inp.ReadDeck(path)
	if err != nil {
		return
	}
	if o.linsol != "" {
		deck.Newton.LinSol = o.linsol
	}
	if o.serial {
		deck.Newton.Serial = true
	}
	if o.verbose {
		io.PfWhite("\nwellsim -- black-oil wells\n")
		io.Pf("%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"deck path", "path", path,
			"show messages", "verbose", o.verbose,
			"linear solver", "linsol", deck.Newton.LinSol,
			"serial assembly", "serial", deck.Newton.Serial,
		))
	}
	return sim.NewMain(deck, o.verbose)
}

func runCmd() *cobra.Command {
	var opts options
	var nosum bool
	cmd := &cobra.Command{
		Use:   "run [deck.yaml]",
		Short: "Run a simulation and save the summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := opts.load(args[0])
			if err != nil {
				return err
			}
			return m.Run(!nosum)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&nosum, "nosummary", false, "do not save the summary")
	return cmd
}

func checkCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "check [deck.yaml]",
		Short: "Validate a deck and build all wells without running",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := opts.load(args[0])
			if err != nil {
				return err
			}
			defer m.Free()
			io.Pf("deck %q: %d cells, %d equations per cell\n", m.Deck.Key, m.Tank.NumCells(), m.Tank.NumEq())
			for _, w := range m.Wells.Wells {
				cfg, st := w.Config(), w.State()
				io.Pf("  %-10s %-6s segments=%-3d perfs=%-3d control=%-5s bhp=%g\n", w.Name(), kind(cfg.Producer), len(cfg.Segs), len(cfg.Perfs), cfg.Controls[st.Current].Key, st.Bhp)
			}
			return nil
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func potentialsCmd() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "potentials [deck.yaml]",
		Short: "Compute the well potentials at the initial state",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			m, err := opts.load(args[0])
			if err != nil {
				return err
			}
			defer m.Free()
			if err = m.Potentials(); err != nil {
				return err
			}
			io.Pf("%-10s%16s%16s%16s\n", "well", "water", "oil", "gas")
			for _, w := range m.Wells.Wells {
				q := w.State().Potentials
				io.Pf("%-10s%16.6e%16.6e%16.6e\n", w.Name(), q[pvt.Water], q[pvt.Oil], q[pvt.Gas])
			}
			return nil
		},
	}
	opts.addFlags(cmd)
	return cmd
}

// kind returns the type of well
func kind(producer bool) string {
	if producer {
		return "prod"
	}
	return "inj"
}
