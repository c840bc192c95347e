package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xyproto/env/v2"

	"github.com/radeon-go/amdil"
	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/experimental"
	"github.com/radeon-go/amdil/experimental/logging"
	"github.com/radeon-go/amdil/internal/interpreter"
	ilogging "github.com/radeon-go/amdil/internal/logging"
	"github.com/radeon-go/amdil/internal/version"
	"github.com/radeon-go/amdil/ir"
)

func main() {
	doMain(os.Stdout, os.Stderr, os.Exit)
}

// doMain is separated out for the purpose of unit testing.
func doMain(stdOut io.Writer, stdErr logging.Writer, exit func(code int)) {
	// The environment is cached on first read, which may have happened during init.
	env.Load()

	flag.CommandLine.SetOutput(stdErr)

	var help bool
	flag.BoolVar(&help, "h", false, "print usage")

	flag.Parse()

	if help || flag.NArg() == 0 {
		printUsage(stdErr)
		exit(0)
	}

	subCmd := flag.Arg(0)
	switch subCmd {
	case "lower":
		doLower(flag.Args()[1:], stdOut, stdErr, exit)
	case "table":
		doTable(flag.Args()[1:], stdOut, stdErr, exit)
	case "profiles":
		doProfiles(flag.Args()[1:], stdOut, stdErr, exit)
	case "version":
		fmt.Fprintln(stdOut, version.GetAMDILVersion())
		exit(0)
	default:
		fmt.Fprintln(stdErr, "invalid command")
		printUsage(stdErr)
		exit(1)
	}
}

// deviceFlags are the options selecting the device, shared by the commands that lower.
type deviceFlags struct {
	generation string
	cal        uint
	features   string
	profiles   string
	profile    string
}

// register adds the device options to flags, defaulting to the AMDILC_* environment variables.
func (d *deviceFlags) register(flags *flag.FlagSet) {
	flags.StringVar(&d.generation, "device", env.Str("AMDILC_DEVICE", "hd5xxx"),
		"hardware generation: hd4xxx, hd5xxx or hd6xxx. Defaults to $AMDILC_DEVICE.")
	flags.UintVar(&d.cal, "cal", uint(env.Int("AMDILC_CAL", 139)),
		"version of the CAL compiler, e.g. 130. Defaults to $AMDILC_CAL.")
	flags.StringVar(&d.features, "features", env.Str("AMDILC_FEATURES", "all"),
		"comma-separated optional operations: long,double,byte,short or all. Defaults to $AMDILC_FEATURES.")
	profilesFlag(flags, &d.profiles)
	flags.StringVar(&d.profile, "profile", "",
		"name of the device profile in the -profiles file. Overrides -device, -cal and -features.")
}

func profilesFlag(flags *flag.FlagSet, p *string) {
	flags.StringVar(p, "profiles", env.Str("AMDILC_PROFILES"),
		"TOML file of named device profiles. Defaults to $AMDILC_PROFILES.")
}

func (d *deviceFlags) config() (*amdil.BackendConfig, error) {
	config := amdil.NewBackendConfig()
	if d.profile != "" {
		profiles, err := loadProfiles(d.profiles)
		if err != nil {
			return nil, err
		}
		p, err := profiles.Lookup(d.profile)
		if err != nil {
			return nil, err
		}
		return config.WithProfile(p)
	}

	generation, err := api.ParseGeneration(d.generation)
	if err != nil {
		return nil, err
	}
	features, err := api.ParseFeatures(d.features)
	if err != nil {
		return nil, err
	}
	return config.WithDevice(api.Device{
		Generation: generation,
		CALVersion: api.CALVersion(d.cal),
		Features:   features,
	}), nil
}

func loadProfiles(path string) (amdil.DeviceProfiles, error) {
	if path == "" {
		return nil, errors.New("missing -profiles file")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return amdil.LoadDeviceProfiles(f)
}

func newBackend(d *deviceFlags, stdErr io.Writer, exit func(code int)) *amdil.Backend {
	config, err := d.config()
	if err != nil {
		fmt.Fprintf(stdErr, "invalid device: %v\n", err)
		exit(1)
	}
	b, err := amdil.NewBackend(config)
	if err != nil {
		fmt.Fprintf(stdErr, "invalid device: %v\n", err)
		exit(1)
	}
	return b
}

func doLower(args []string, stdOut io.Writer, stdErr logging.Writer, exit func(code int)) {
	flags := flag.NewFlagSet("lower", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "print usage")

	var d deviceFlags
	d.register(flags)

	var typ, to, eval string
	flags.StringVar(&typ, "type", "i32", "type of the operands, e.g. i8 or v4f32")
	flags.StringVar(&to, "to", "", "result type of a conversion. Defaults to -type.")
	flags.StringVar(&eval, "eval", "",
		"comma-separated operands to evaluate the function with before and after lowering. "+
			"Vector lanes are separated by colons, e.g. 1:2:3:4,5:6:7:8")

	var scopes logScopesFlag
	flags.Var(&scopes, "log",
		"A comma-separated list of operation families whose lowering is logged to stderr. "+
			"Supported values: all,conversion,integer,division,vector,compare,call,address")

	_ = flags.Parse(args)

	if help {
		printLowerUsage(stdErr, flags)
		exit(0)
	}

	if flags.NArg() < 1 {
		fmt.Fprintln(stdErr, "missing operation")
		printLowerUsage(stdErr, flags)
		exit(1)
	}
	op, err := ir.ParseOpcode(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stdErr, "invalid operation: %v\n", err)
		exit(1)
	}
	k, err := kindOf(op)
	if err != nil {
		fmt.Fprintf(stdErr, "invalid operation: %v\n", err)
		exit(1)
	}

	operandType, err := ir.ParseType(typ)
	if err != nil {
		fmt.Fprintf(stdErr, "invalid type: %v\n", err)
		exit(1)
	}
	resultType := operandType
	if to != "" {
		if resultType, err = ir.ParseType(to); err != nil {
			fmt.Fprintf(stdErr, "invalid type: %v\n", err)
			exit(1)
		}
	}

	b := newBackend(&d, stdErr, exit)
	fn := newFunctionBuilder(op, k, operandType, resultType)

	var operands []interpreter.Lanes
	if eval != "" {
		if operands, err = fn.parseOperands(eval); err != nil {
			fmt.Fprintf(stdErr, "invalid operands: %v\n", err)
			exit(1)
		}
	}

	ctx := maybeLogging(context.Background(), ilogging.LogScopes(scopes), stdErr)

	original, lowered := fn.build(b), fn.build(b)
	if err = b.Lower(ctx, lowered.Graph); err != nil {
		fmt.Fprintf(stdErr, "error lowering: %v\n", err)
		exit(1)
	}

	fmt.Fprintf(stdOut, "; device %s\n", b.Device())
	fmt.Fprint(stdOut, ir.Format(original.Graph))
	fmt.Fprintln(stdOut, "; lowered")
	fmt.Fprint(stdOut, ir.Format(lowered.Graph))

	if operands == nil {
		exit(0)
	}
	exp, err := fn.eval(original, operands)
	if err != nil {
		fmt.Fprintf(stdErr, "error evaluating: %v\n", err)
		exit(1)
	}
	actual, err := fn.eval(lowered, operands)
	if err != nil {
		fmt.Fprintf(stdErr, "error evaluating lowered: %v\n", err)
		exit(1)
	}
	fmt.Fprintf(stdOut, "; eval %s => %s\n", eval, fn.formatResult(actual))
	if actual != exp {
		fmt.Fprintf(stdErr, "lowered function returned %s, want %s\n", fn.formatResult(actual), fn.formatResult(exp))
		exit(1)
	}
	exit(0)
}

func doTable(args []string, stdOut io.Writer, stdErr io.Writer, exit func(code int)) {
	flags := flag.NewFlagSet("table", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "print usage")

	var d deviceFlags
	d.register(flags)

	_ = flags.Parse(args)

	if help {
		printTableUsage(stdErr, flags)
		exit(0)
	}

	ops := make([]ir.Opcode, 0, flags.NArg())
	for _, name := range flags.Args() {
		op, err := ir.ParseOpcode(name)
		if err != nil {
			fmt.Fprintf(stdErr, "invalid operation: %v\n", err)
			exit(1)
		}
		ops = append(ops, op)
	}

	b := newBackend(&d, stdErr, exit)
	fmt.Fprintf(stdOut, "; device %s\n", b.Device())
	fmt.Fprint(stdOut, b.FormatLegalizeTable(ops...))
	exit(0)
}

func doProfiles(args []string, stdOut io.Writer, stdErr io.Writer, exit func(code int)) {
	flags := flag.NewFlagSet("profiles", flag.ExitOnError)
	flags.SetOutput(stdErr)

	var help bool
	flags.BoolVar(&help, "h", false, "print usage")

	var path string
	profilesFlag(flags, &path)

	_ = flags.Parse(args)

	if help {
		printProfilesUsage(stdErr, flags)
		exit(0)
	}

	profiles, err := loadProfiles(path)
	if err != nil {
		fmt.Fprintf(stdErr, "invalid profiles: %v\n", err)
		exit(1)
	}
	for _, name := range profiles.Names() {
		d, _ := profiles[name].Device() // Validated by LoadDeviceProfiles.
		fmt.Fprintf(stdOut, "%s\t%s\n", name, d)
	}
	exit(0)
}

func maybeLogging(ctx context.Context, scopes ilogging.LogScopes, stdErr logging.Writer) context.Context {
	if scopes != 0 {
		return context.WithValue(ctx, experimental.LoweringListenerFactoryKey{}, logging.NewScopedLoggingListenerFactory(stdErr, scopes))
	}
	return ctx
}

func printUsage(stdErr io.Writer) {
	fmt.Fprintln(stdErr, "amdilc CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  amdilc <command>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Commands:")
	fmt.Fprintln(stdErr, "  lower\t\tLowers a single operation for a device")
	fmt.Fprintln(stdErr, "  table\t\tPrints the operations a device cannot execute directly")
	fmt.Fprintln(stdErr, "  profiles\tLists the devices of a profile file")
	fmt.Fprintln(stdErr, "  version\tDisplays the version of amdilc CLI")
}

func printLowerUsage(stdErr io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(stdErr, "amdilc CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  amdilc lower <options> <operation>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flags.PrintDefaults()
}

func printTableUsage(stdErr io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(stdErr, "amdilc CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  amdilc table <options> [operation...]")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flags.PrintDefaults()
}

func printProfilesUsage(stdErr io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(stdErr, "amdilc CLI")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Usage:\n  amdilc profiles <options>")
	fmt.Fprintln(stdErr)
	fmt.Fprintln(stdErr, "Options:")
	flags.PrintDefaults()
}

type logScopesFlag ilogging.LogScopes

func (f *logScopesFlag) String() string {
	return ilogging.LogScopes(*f).String()
}

func (f *logScopesFlag) Set(input string) error {
	scopes, err := ilogging.ParseLogScopes(input)
	if err != nil {
		return err
	}
	*f |= logScopesFlag(scopes)
	return nil
}

// parseLane parses one lane of an operand of type elem. Integers narrower than 32 bits are extended as they would
// be in their register.
func parseLane(s string, elem ir.Type, signed bool) (uint64, error) {
	if elem.IsFloat() {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, err
		}
		if elem == ir.TypeF32 {
			return uint64(math.Float32bits(float32(f))), nil
		}
		return math.Float64bits(f), nil
	}

	var v uint64
	if strings.HasPrefix(s, "-") {
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, err
		}
		v = uint64(i)
	} else {
		u, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, err
		}
		v = u
	}
	if bits := elem.Bits(); bits < 64 {
		v &= 1<<bits - 1
		if signed && v>>(bits-1) != 0 {
			v |= ^uint64(0) << bits
		}
	}
	return v, nil
}

func formatLanes(l interpreter.Lanes, typ ir.Type) string {
	elem := typ.Elem()
	lanes := make([]string, typ.Lanes())
	for i := range lanes {
		switch elem {
		case ir.TypeF32:
			lanes[i] = strconv.FormatFloat(float64(l.Float32(i)), 'g', -1, 32)
		case ir.TypeF64:
			lanes[i] = strconv.FormatFloat(l.Float64(i), 'g', -1, 64)
		default:
			lanes[i] = fmt.Sprintf("%#x", l[i])
		}
	}
	if len(lanes) == 1 {
		return lanes[0]
	}
	return "(" + strings.Join(lanes, ", ") + ")"
}
