package preset

import (
	"os"
	"path/filepath"
	"testing"
)

const drawingPreset = `{
  "Profiles": [
    {
      "OutputMode": { "Path": "OpenTabletDriver.Desktop.Output.LinuxArtistMode" },
      "Bindings": {
        "TipButton": {
          "Enable": true,
          "Settings": [ { "Property": "Button", "Value": "Left Mouse Button" } ]
        },
        "PenButtons": [
          {
            "Enable": true,
            "Settings": [ { "Property": "Button", "Value": "Pen Button 2" } ]
          },
          {
            "Enable": false,
            "Settings": [ { "Property": "Button", "Value": "Pen Button 3" } ]
          }
        ],
        "AuxButtons": [
          {
            "Enable": true,
            "Settings": [ { "Property": "Key", "Value": "Control" } ]
          },
          {
            "Enable": true,
            "Settings": [ { "Property": "Keys", "Value": "Control+Z" } ]
          }
        ]
      }
    }
  ]
}`

func writePreset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write preset: %v", err)
	}
}

func TestLibraryNamesSorted(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "Gaming", `{"Profiles": []}`)
	writePreset(t, dir, "Drawing", drawingPreset)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	names := NewLibrary(dir).Names()
	if len(names) != 2 || names[0] != "Drawing" || names[1] != "Gaming" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestLibraryNamesMissingDir(t *testing.T) {
	lib := NewLibrary(filepath.Join(t.TempDir(), "missing"))
	if names := lib.Names(); names != nil {
		t.Fatalf("expected nil for missing dir, got %v", names)
	}
}

func TestLibraryLoadExtractsBindings(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "Drawing", drawingPreset)

	p := NewLibrary(dir).Load("Drawing")
	if p == nil {
		t.Fatalf("expected preset")
	}
	if p.OutputModePath != "OpenTabletDriver.Desktop.Output.LinuxArtistMode" {
		t.Fatalf("unexpected mode path: %q", p.OutputModePath)
	}
	if p.TipBinding != "Left Mouse Button" {
		t.Fatalf("unexpected tip binding: %q", p.TipBinding)
	}
	if len(p.PenBindings) != 1 || p.PenBindings[0] != "Pen Button 2" {
		t.Fatalf("disabled buttons must be skipped, got %v", p.PenBindings)
	}
	if len(p.ExpressBindings) != 2 {
		t.Fatalf("unexpected express bindings: %v", p.ExpressBindings)
	}
}

func TestLibraryLoadMalformedCached(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "Broken", `{not json`)

	lib := NewLibrary(dir)
	if p := lib.Load("Broken"); p != nil {
		t.Fatalf("expected nil for malformed preset")
	}
	// A rewritten file must not be re-read within the same process.
	writePreset(t, dir, "Broken", drawingPreset)
	if p := lib.Load("Broken"); p != nil {
		t.Fatalf("expected cached nil result")
	}
}
