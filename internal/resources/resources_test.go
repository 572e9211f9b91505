package resources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yinwm/vibedevtools/internal/status"
)

func read(t *testing.T, h *Handler) mcp.TextResourceContents {
	t.Helper()
	req := mcp.ReadResourceRequest{}
	req.Params.URI = IndexURI
	contents, err := h.HandleIndex(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleIndex: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("contents[0] is %T, want TextResourceContents", contents[0])
	}
	return tc
}

func TestHandleIndex_ListsSpecs(t *testing.T) {
	m := status.NewManager(status.NewFileStore(filepath.Join(t.TempDir(), status.DefaultSpecsDir), nil))
	if _, err := m.Create("s1", "alpha"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Create("s2", "beta"); err != nil {
		t.Fatal(err)
	}

	tc := read(t, NewHandler(m))
	if tc.MIMEType != "application/json" {
		t.Errorf("MIMEType = %s", tc.MIMEType)
	}

	var doc struct {
		Specs []status.Entry `json:"specs"`
		Count int            `json:"count"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &doc); err != nil {
		t.Fatalf("index is not JSON: %v\n%s", err, tc.Text)
	}
	if doc.Count != 2 || len(doc.Specs) != 2 {
		t.Errorf("doc = %+v, want two specs", doc)
	}
}

func TestHandleIndex_EmptyProject(t *testing.T) {
	m := status.NewManager(status.NewFileStore(filepath.Join(t.TempDir(), status.DefaultSpecsDir), nil))

	tc := read(t, NewHandler(m))
	if !strings.Contains(tc.Text, `"count": 0`) {
		t.Errorf("expected empty index, got %s", tc.Text)
	}
}

func TestHandleIndex_CorruptIndex(t *testing.T) {
	store := status.NewFileStore(filepath.Join(t.TempDir(), status.DefaultSpecsDir), nil)
	if err := os.MkdirAll(store.Root(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.IndexPath(), []byte("specs: {not: [a list\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tc := read(t, NewHandler(status.NewManager(store)))
	if tc.MIMEType != "text/plain" || !strings.HasPrefix(tc.Text, "Error:") || !strings.Contains(tc.Text, "Hint:") {
		t.Errorf("expected error resource with hint, got %s: %s", tc.MIMEType, tc.Text)
	}
}
