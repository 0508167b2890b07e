package logfields

import (
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    interface{}
	}{
		{"RunID", KeyRunID, "123", RunID("123")},
		{"Manifest", KeyManifest, "action.yml", Manifest("action.yml")},
		{"Destination", KeyDestination, "README.md", Destination("README.md")},
		{"Section", KeySection, "inputs", Section("inputs")},
		{"Tool", KeyTool, "auto-doc", Tool("auto-doc")},
		{"ForgeType", KeyForgeType, "github", ForgeType("github")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"URL", KeyURL, "http://example", URL("http://example")},
	}

	for _, tc := range cases {
		a := tc.attr.(slog.Attr)
		if a.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, a.Key)
		}
		if got := a.Value.String(); got != tc.attrVal { // Value is slog.Value
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if got := Error(nil).Value.String(); got != "" {
		t.Fatalf("Error(nil) value = %q, want empty", got)
	}
}
