package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/internal/version"
)

const testProfiles = `
[profile.rv770]
generation = "hd4xxx"
cal = 130
features = ["double"]

[profile.cypress]
generation = "hd5xxx"
cal = 139
features = ["all"]
`

func writeProfiles(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "profiles.toml")
	require.NoError(t, os.WriteFile(path, []byte(testProfiles), 0o600))
	return path
}

func TestLower(t *testing.T) {
	profiles := writeProfiles(t)

	tests := []struct {
		name   string
		args   []string
		stdOut []string
	}{
		{
			name: "sdiv",
			args: []string{"-device=hd4xxx", "-cal=130", "-eval=-128,3", "sdiv"},
			stdOut: []string{
				"; device hd4xxx/cal130/",
				"graph sdiv:\n",
				"; lowered\n",
				"; eval -128,3 => 0xffffffd6\n",
			},
		},
		{
			name:   "udiv i8",
			args:   []string{"-type=i8", "-eval=200,7", "udiv"},
			stdOut: []string{"; eval 200,7 => 0x1c\n"},
		},
		{
			name:   "srem v4i32",
			args:   []string{"-type=v4i32", "-eval=7:-7:7:-7,2:2:-2:-2", "srem"},
			stdOut: []string{"=> (0x1, 0xffffffff, 0x1, 0xffffffff)\n"},
		},
		{
			name:   "uint_to_fp",
			args:   []string{"-device=hd4xxx", "-features=double", "-to=f64", "-eval=4294967295", "uint_to_fp"},
			stdOut: []string{"; eval 4294967295 => 4.294967295e+09\n"},
		},
		{
			name:   "profile",
			args:   []string{"-profiles=" + profiles, "-profile=rv770", "ctlz"},
			stdOut: []string{"; device hd4xxx/cal130/double\n"},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			exitCode, stdOut, stdErr := runMain(t, append([]string{"lower"}, tt.args...))
			require.Equal(t, 0, exitCode, stdErr)
			for _, s := range tt.stdOut {
				require.Contains(t, stdOut, s)
			}
			require.Equal(t, "", stdErr)
		})
	}
}

func TestLower_environment(t *testing.T) {
	t.Setenv("AMDILC_DEVICE", "hd6xxx")
	t.Setenv("AMDILC_CAL", "135")
	t.Setenv("AMDILC_FEATURES", "long")

	exitCode, stdOut, _ := runMain(t, []string{"lower", "add"})
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdOut, "; device hd6xxx/cal135/long\n")

	// Changes between runs are seen.
	t.Setenv("AMDILC_DEVICE", "hd4xxx")
	t.Setenv("AMDILC_CAL", "130")
	t.Setenv("AMDILC_FEATURES", "double")
	exitCode, stdOut, _ = runMain(t, []string{"lower", "add"})
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdOut, "; device hd4xxx/cal130/double\n")
}

func TestLower_log(t *testing.T) {
	exitCode, _, stdErr := runMain(t, []string{"lower", "-type=i64", "-log=integer", "add"})
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdErr, "--> lower v")
	require.Contains(t, stdErr, " = add ")
}

func TestTable(t *testing.T) {
	exitCode, stdOut, _ := runMain(t, []string{"table", "-features=", "ctlz", "fdiv"})
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdOut, "ctlz: i32=custom\n")
	require.Contains(t, stdOut, "fdiv: f32=custom")
}

func TestProfiles(t *testing.T) {
	exitCode, stdOut, _ := runMain(t, []string{"profiles", "-profiles=" + writeProfiles(t)})
	require.Equal(t, 0, exitCode)
	require.Equal(t, "cypress\thd5xxx/cal139/long|double|byte|short\nrv770\thd4xxx/cal130/double\n", stdOut)
}

func TestVersion(t *testing.T) {
	exitCode, stdOut, _ := runMain(t, []string{"version"})
	require.Equal(t, 0, exitCode)
	require.Equal(t, version.GetAMDILVersion()+"\n", stdOut)
}

func TestHelp(t *testing.T) {
	exitCode, _, stdErr := runMain(t, []string{"-h"})
	require.Equal(t, 0, exitCode)
	require.Contains(t, stdErr, "amdilc CLI\n\nUsage:")
}

func TestErrors(t *testing.T) {
	profiles := writeProfiles(t)

	tests := []struct {
		message string
		args    []string
	}{
		{message: "invalid command", args: []string{"compile"}},
		{message: "missing operation", args: []string{"lower"}},
		{message: `unknown opcode "div"`, args: []string{"lower", "div"}},
		{message: "setcc cannot be lowered on its own", args: []string{"lower", "setcc"}},
		{message: `unknown type "i128"`, args: []string{"lower", "-type=i128", "add"}},
		{message: `unknown hardware generation "hd9xxx"`, args: []string{"lower", "-device=hd9xxx", "add"}},
		{message: "missing CAL version for hd5xxx", args: []string{"lower", "-cal=0", "add"}},
		{message: `unknown device feature "quad"`, args: []string{"table", "-features=quad"}},
		{message: "sdiv takes 2 operands, got 1", args: []string{"lower", "-eval=1", "sdiv"}},
		{message: "operand 0 has 3 lanes, v2i32 has 2", args: []string{"lower", "-type=v2i32", "-eval=1:2:3,4", "add"}},
		{message: "missing -profiles file", args: []string{"lower", "-profile=rv770", "add"}},
		{message: `unknown device profile "tahiti"`, args: []string{"lower", "-profiles=" + profiles, "-profile=tahiti", "add"}},
		{message: "no such file or directory", args: []string{"profiles", "-profiles=" + filepath.Join(t.TempDir(), "none.toml")}},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.message, func(t *testing.T) {
			t.Setenv("AMDILC_PROFILES", "")
			exitCode, _, stdErr := runMain(t, tt.args)

			require.Equal(t, 1, exitCode)
			require.Contains(t, stdErr, tt.message)
		})
	}
}

func runMain(t *testing.T, args []string) (int, string, string) {
	t.Helper()
	oldArgs := os.Args
	t.Cleanup(func() {
		os.Args = oldArgs
	})
	os.Args = append([]string{"amdilc"}, args...)

	var exitCode int
	stdOut := &bytes.Buffer{}
	stdErr := &bytes.Buffer{}
	var exited bool
	func() {
		defer func() {
			if r := recover(); r != nil {
				exited = true
			}
		}()
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
		doMain(stdOut, stdErr, func(code int) {
			exitCode = code
			panic(code)
		})
	}()

	require.True(t, exited)

	return exitCode, stdOut.String(), stdErr.String()
}
