package input

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"
)

func TestDefaultModifier(t *testing.T) {
	want := "ctrl"
	if runtime.GOOS == "darwin" {
		want = "cmd"
	}
	if got := DefaultModifier(); got != want {
		t.Errorf("Expected modifier %q on %s, got %q", want, runtime.GOOS, got)
	}
}

func TestLogSinkImplementsSink(t *testing.T) {
	var sink HostInputSink = NewLogSink(1280, 720)

	sizer, ok := sink.(ScreenSizer)
	if !ok {
		t.Fatal("Expected LogSink to report a screen size")
	}
	if w, h := sizer.ScreenSize(); w != 1280 || h != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", w, h)
	}

	// Every action only logs; none may panic without a display.
	sink.MoveAbsolute(1, 2)
	sink.MoveRelative(-1, 1)
	sink.MouseDown(ButtonLeft)
	sink.MouseUp(ButtonLeft)
	sink.Click()
	sink.RightClick()
	sink.ScrollLines(3)
	sink.Hotkey("cmd", "v")
	sink.ClipboardWrite("text")
	sink.Notify("title", "body")
}

// The sink interface must build without a display or cgo headers; only
// the robot subpackage may link robotgo.
func TestInputDoesNotImportRobotgo(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}
	fset := token.NewFileSet()
	for _, name := range files {
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parsing %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			if path == "github.com/go-vgo/robotgo" || path == "C" {
				t.Errorf("Expected %s not to import %s", name, path)
			}
		}
	}
}
