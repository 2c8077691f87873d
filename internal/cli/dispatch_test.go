package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dtask/internal/backend"
	"dtask/internal/cli"
	"dtask/internal/commands"
	"dtask/internal/config"
	"dtask/internal/exitcode"
	"dtask/internal/service"
	"dtask/internal/testutil"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{"DTASK_BACKEND", "DTASK_DATA_FILE", "DTASK_REMIND_DAYS", "DTASK_LOG_LEVEL", "DTASK_LOG_FORMAT"} {
		t.Setenv(key, "")
	}
	return filepath.Join(dir, config.AppName)
}

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
}

func failingFactory(err error) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return nil, err
	}
}

type closingService struct {
	*testutil.FakeService
	closed bool
}

func (c *closingService) Close() error {
	c.closed = true
	return nil
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	for _, args := range [][]string{{"help"}, {"--help"}, {"-h"}, {"add", "-h"}} {
		var stdout, stderr bytes.Buffer
		code := dispatcher.Run(context.Background(), args, &stdout, &stderr)

		if code != exitcode.Success {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.Success, code)
		}
		if stderr.String() != "" {
			t.Errorf("%v: expected no stderr, got %q", args, stderr.String())
		}
		if !bytes.Contains(stdout.Bytes(), []byte("Usage:")) {
			t.Errorf("%v: expected help output to contain 'Usage:'", args)
		}
		if !bytes.Contains(stdout.Bytes(), []byte("dtask add [--due <date>] <name...>")) {
			t.Errorf("%v: expected help output to list add usage", args)
		}
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr.String() != "" {
		t.Errorf("expected no stderr, got %q", stderr.String())
	}
	if stdout.String() != "dtask 0.1.0\n" {
		t.Errorf("expected 'dtask 0.1.0\\n', got %q", stdout.String())
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"help", "--unknown"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"add", "--due"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -due\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsLists(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService()
	svc.AddTask("aaaa1111-0000-0000-0000-000000000000", "Laporan", "2099-01-01")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	expected := "   1  2099-01-01  [ ]  Laporan\n"
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestDispatcher_ConfigError(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("backend = \"mongo\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list"}, &stdout, &stderr)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(stderr.String(), "error: config error: invalid backend") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestDispatcher_InvalidRemindDays(t *testing.T) {
	isolate(t)
	t.Setenv("DTASK_REMIND_DAYS", "abc")
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"remind"}, &stdout, &stderr)

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	expected := "error: config error: invalid remind_days \"abc\"\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_ConfigFlagOverridesDir(t *testing.T) {
	isolate(t)
	custom := t.TempDir()
	var seen string
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		seen = cfg.Dir
		return testutil.NewFakeService(), nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list", "--config", custom, "--quiet"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if seen != custom {
		t.Errorf("expected config dir %q, got %q", custom, seen)
	}
	if stdout.String() != "" {
		t.Errorf("expected quiet empty list, got %q", stdout.String())
	}
}

func TestDispatcher_StorageError(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, failingFactory(errors.New("disk on fire")))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"list"}, &stdout, &stderr)

	if code != exitcode.StorageError {
		t.Errorf("expected exit code %d, got %d", exitcode.StorageError, code)
	}
	expected := "error: storage error: disk on fire\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_StoreNotOpenedForConfig(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, failingFactory(errors.New("should not be called")))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"config"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `backend = "csv"`) {
		t.Errorf("expected effective config, got %q", stdout.String())
	}
}

func TestDispatcher_ClosesService(t *testing.T) {
	isolate(t)
	svc := &closingService{FakeService: testutil.NewFakeService()}
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return svc, nil
	}
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var stdout, stderr bytes.Buffer
	dispatcher.Run(context.Background(), []string{"remind"}, &stdout, &stderr)

	if !svc.closed {
		t.Error("expected service to be closed")
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	isolate(t)
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	var stdout, stderr bytes.Buffer
	code := dispatcher.Run(context.Background(), []string{"version", "--debug"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if !strings.Contains(stderr.String(), "dispatch") {
		t.Errorf("expected debug log on stderr, got %q", stderr.String())
	}
	if stdout.String() != "dtask 0.1.0\n" {
		t.Errorf("expected version on stdout, got %q", stdout.String())
	}
}

func TestDispatcher_EndToEnd(t *testing.T) {
	for _, backendName := range []string{config.BackendCSV, config.BackendSQLite} {
		t.Run(backendName, func(t *testing.T) {
			isolate(t)
			t.Setenv("DTASK_BACKEND", backendName)
			dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.Open)

			steps := []struct {
				args []string
				want string
			}{
				{[]string{"add", "--due", "2099-01-01", "Tugas", "besar"}, "ok\n"},
				{[]string{"add", "--due", "2099-02-01", "Laporan"}, "ok\n"},
				{[]string{"done", "2"}, "ok\n"},
				{[]string{"list"}, "   1  2099-01-01  [ ]  Tugas besar\n   2  2099-02-01  [x]  Laporan\n"},
				{[]string{"rm", "1"}, "ok\n"},
				{[]string{"list", "--open", "--quiet"}, ""},
				{[]string{"export"}, "Tugas,Deadline,Status,ID\n"},
			}
			for _, step := range steps {
				var stdout, stderr bytes.Buffer
				code := dispatcher.Run(context.Background(), step.args, &stdout, &stderr)
				if code != exitcode.Success {
					t.Fatalf("%v: exit %d, stderr %q", step.args, code, stderr.String())
				}
				got := stdout.String()
				if step.args[0] == "export" {
					got = strings.SplitAfter(got, "\n")[0]
				}
				if got != step.want {
					t.Errorf("%v: expected %q, got %q", step.args, step.want, got)
				}
			}
		})
	}
}
