package tray

import (
	"encoding/binary"
	"testing"
)

func TestMenuModelBeforeRun(t *testing.T) {
	tr := New("Reachz")
	status := tr.AddMenuItem("Not carrying", nil)
	tr.AddSeparator()
	cancel := tr.AddMenuItem("Cancel carry", func() {})

	tr.SetItemTitle(status, "Carrying: hello")
	tr.SetItemEnabled(cancel, false)
	tr.SetItemTitle(99, "ignored")

	items := tr.Items()
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Carrying: hello" || !items[0].Disabled {
		t.Errorf("Expected disabled status line with new title, got %+v", items[0])
	}
	if items[1].ID != cancel || !items[1].Disabled {
		t.Errorf("Expected cancel item disabled, got %+v", items[1])
	}

	tr.SetItemEnabled(cancel, true)
	if tr.Items()[1].Disabled {
		t.Error("Expected cancel item enabled")
	}
}

func TestIconHeader(t *testing.T) {
	icon := getIcon()
	if binary.LittleEndian.Uint16(icon[2:]) != 1 || binary.LittleEndian.Uint16(icon[4:]) != 1 {
		t.Fatal("Expected an ICO header with one image")
	}
	size := binary.LittleEndian.Uint32(icon[14:])
	offset := binary.LittleEndian.Uint32(icon[18:])
	if int(offset+size) != len(icon) {
		t.Errorf("Expected image to end the file: offset %d + size %d != %d", offset, size, len(icon))
	}
	if binary.LittleEndian.Uint32(icon[offset:]) != 40 {
		t.Error("Expected a BITMAPINFOHEADER")
	}
}
