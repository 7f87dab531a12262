package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	inplace "github.com/arraykit/go-inplace"
)

var (
	flagImpl   string
	flagN      int
	flagInit   int64
	flagSets   []string
	flagGets   []int
	flagVerify bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Construct one array and drive it through a sequence of operations",
		Example: `  arrayprobe run --impl sec4 --n 64 --init 7 --set 5=99 --get 5
  arrayprobe run --impl sec3 --n 32 --init 0 --set 1=1 --set 3=1 --verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe()
		},
	}
	cmd.Flags().StringVar(&flagImpl, "impl", "sec4", "array implementation: std_vector, sec3, or sec4")
	cmd.Flags().IntVar(&flagN, "n", 16, "array length")
	cmd.Flags().Int64Var(&flagInit, "init", 0, "value passed to Init")
	cmd.Flags().StringArrayVar(&flagSets, "set", nil, "index=value write, may be repeated")
	cmd.Flags().IntSliceVar(&flagGets, "get", nil, "index to read after the writes, may be repeated")
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "enable the shadow verifier and report the result")
	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newArray(impl string, n int) (inplace.Array, error) {
	switch impl {
	case "std_vector":
		return inplace.NewBaseline(n)
	case "sec3":
		return inplace.NewSec3(n)
	case "sec4":
		return inplace.NewSec4(n)
	default:
		return nil, fmt.Errorf("unknown implementation %q (want std_vector, sec3, or sec4)", impl)
	}
}

func parseSet(spec string) (int, inplace.Cell, error) {
	idxStr, valStr, ok := strings.Cut(spec, "=")
	if !ok {
		return 0, 0, fmt.Errorf("--set %q: expected idx=value", spec)
	}
	idx, err := strconv.Atoi(strings.TrimSpace(idxStr))
	if err != nil {
		return 0, 0, fmt.Errorf("--set %q: bad index: %w", spec, err)
	}
	val, err := strconv.ParseInt(strings.TrimSpace(valStr), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("--set %q: bad value: %w", spec, err)
	}
	return idx, inplace.Cell(val), nil
}

func runProbe() error {
	a, err := newArray(flagImpl, flagN)
	if err != nil {
		return err
	}
	defer a.Close()

	if flagVerify {
		if err := a.EnableVerification(); err != nil {
			return fmt.Errorf("enable verification: %w", err)
		}
	}

	a.Init(inplace.Cell(flagInit))
	fmt.Printf("%s: init(%d) over N=%d\n", a.Name(), flagInit, flagN)

	for _, spec := range flagSets {
		idx, val, err := parseSet(spec)
		if err != nil {
			return err
		}
		if err := a.Write(idx, val); err != nil {
			return fmt.Errorf("write %d=%d: %w", idx, val, err)
		}
		fmt.Printf("write(%d, %d) ok\n", idx, val)
	}

	for _, idx := range flagGets {
		v, err := a.Read(idx)
		if err != nil {
			return fmt.Errorf("read %d: %w", idx, err)
		}
		fmt.Printf("read(%d) = %d\n", idx, v)
	}

	if flagVerify {
		if a.VerifyCorrectness() {
			fmt.Println("verify: OK")
		} else {
			fmt.Println("verify: MISMATCH")
			fmt.Println(a.DumpState(-1))
		}
	}

	c := a.GetCounters()
	fmt.Printf("counters: reads=%d writes=%d inits=%d relocations=%d conversions=%d\n",
		c.Reads, c.Writes, c.Inits, c.Relocations, c.Conversions)
	return nil
}
