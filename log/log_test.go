package log

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"
)

func TestActionAndTags(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)
	if err := SetLevel("info"); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = SetLevel("debug") }()

	ctx := NewContext(context.Background(), map[string]any{"request": "r1"})
	Extract(ctx).Action("member.search").Debug("hidden")
	Extract(ctx).Action("member.search").Info("found %d", 4)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected exactly one json entry, got %q: %v", buf.String(), err)
	}
	if entry["action"] != "member.search" || entry["request"] != "r1" || entry["msg"] != "found 4" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestSetLevelInvalid(t *testing.T) {
	if err := SetLevel("loud"); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestExtractDefault(t *testing.T) {
	//nolint:staticcheck // nil context falls back to the default logger
	if Extract(nil) != Logger(std) {
		t.Error("nil context must give the default logger")
	}
	if Extract(context.Background()) != Logger(std) {
		t.Error("empty context must give the default logger")
	}
}
