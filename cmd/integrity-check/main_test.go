package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestCLICleanStore(t *testing.T) {
	t.Setenv("SCHEDCORE_STORAGE_DRIVER", "memory")
	var stdout, stderr bytes.Buffer
	if code := cli(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "no violations") {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestCLIJSONFormat(t *testing.T) {
	t.Setenv("SCHEDCORE_STORAGE_DRIVER", "memory")
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-format", "json"}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr: %s)", code, stderr.String())
	}
	var rep report
	if err := json.Unmarshal(stdout.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v (output: %s)", err, stdout.String())
	}
	if rep.Checked == 0 {
		t.Fatal("expected registered rules to be reported")
	}
	if rep.Blocking != 0 || len(rep.Violations) != 0 {
		t.Fatalf("expected clean report, got %+v", rep)
	}
}

func TestCLIUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := cli([]string{"-format", "yaml"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for unknown format, got %d", code)
	}
	if code := cli([]string{"-bogus"}, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for unknown flag, got %d", code)
	}
}
