// Package tray shows the receiver status in the system tray using getlantern/systray.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// MenuItem represents a menu item
type MenuItem struct {
	ID       int
	Title    string
	Disabled bool
	Callback func()
	item     *systray.MenuItem
}

// Tray manages the system tray icon and menu. Item updates may be made from
// any goroutine, before or after the menu is shown.
type Tray struct {
	mu      sync.Mutex
	items   []*MenuItem
	tooltip string
	ready   bool
	quitCh  chan struct{}
	onExit  func()
}

// New creates a new system tray
func New(tooltip string) *Tray {
	return &Tray{
		tooltip: tooltip,
		quitCh:  make(chan struct{}),
	}
}

// OnExit registers a function run when the tray loop ends
func (t *Tray) OnExit(fn func()) {
	t.mu.Lock()
	t.onExit = fn
	t.mu.Unlock()
}

// AddMenuItem adds a menu item to the tray. A nil callback makes a status line.
func (t *Tray) AddMenuItem(title string, callback func()) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := len(t.items)
	t.items = append(t.items, &MenuItem{
		ID:       id,
		Title:    title,
		Disabled: callback == nil,
		Callback: callback,
	})
	return id
}

// AddSeparator adds a separator to the menu
func (t *Tray) AddSeparator() {
	t.mu.Lock()
	t.items = append(t.items, nil) // nil indicates separator
	t.mu.Unlock()
}

func (t *Tray) lookup(id int) *MenuItem {
	if id >= 0 && id < len(t.items) {
		return t.items[id]
	}
	return nil
}

// SetItemTitle changes the label of a menu item
func (t *Tray) SetItemTitle(id int, title string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi := t.lookup(id)
	if mi == nil {
		return
	}
	mi.Title = title
	if mi.item != nil {
		mi.item.SetTitle(title)
	}
}

// SetItemEnabled enables or greys out a menu item
func (t *Tray) SetItemEnabled(id int, enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	mi := t.lookup(id)
	if mi == nil {
		return
	}
	mi.Disabled = !enabled
	if mi.item != nil {
		if enabled {
			mi.item.Enable()
		} else {
			mi.item.Disable()
		}
	}
}

// SetTooltip changes the icon tooltip
func (t *Tray) SetTooltip(tooltip string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tooltip = tooltip
	if t.ready {
		systray.SetTooltip(tooltip)
	}
}

// Items returns a copy of the current menu model
func (t *Tray) Items() []MenuItem {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]MenuItem, 0, len(t.items))
	for _, mi := range t.items {
		if mi != nil {
			out = append(out, MenuItem{ID: mi.ID, Title: mi.Title, Disabled: mi.Disabled})
		}
	}
	return out
}

// Run starts the tray event loop (blocks). It must be called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.setupMenu, t.exit)
}

func (t *Tray) exit() {
	close(t.quitCh)
	t.mu.Lock()
	fn := t.onExit
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// setupMenu is called when systray is ready
func (t *Tray) setupMenu() {
	systray.SetTitle("Reachz")
	systray.SetIcon(getIcon())

	t.mu.Lock()
	defer t.mu.Unlock()
	systray.SetTooltip(t.tooltip)

	for _, menuItem := range t.items {
		if menuItem == nil {
			systray.AddSeparator()
			continue
		}
		item := systray.AddMenuItem(menuItem.Title, "")
		if menuItem.Disabled {
			item.Disable()
		}
		menuItem.item = item

		// Handle clicks in goroutine
		if menuItem.Callback != nil {
			go func(mi *MenuItem, item *systray.MenuItem) {
				for {
					select {
					case <-item.ClickedCh:
						mi.Callback()
					case <-t.quitCh:
						return
					}
				}
			}(menuItem, item)
		}
	}
	t.ready = true
}

// Stop stops the tray
func (t *Tray) Stop() {
	systray.Quit()
}

// getIcon builds a 16x16 32-bit ICO with a filled circle
func getIcon() []byte {
	const (
		size       = 16
		headerSize = 6 + 16
		dibSize    = 40
		pixelSize  = size * size * 4
		maskSize   = size * 4 // 1bpp rows padded to 32 bits
	)
	imageSize := dibSize + pixelSize + maskSize
	icon := make([]byte, headerSize+imageSize)

	// ICONDIR and one ICONDIRENTRY
	copy(icon[0:6], []byte{0x00, 0x00, 0x01, 0x00, 0x01, 0x00})
	icon[6], icon[7] = size, size
	icon[10], icon[12] = 1, 32 // planes, bpp
	putUint32(icon[14:], uint32(imageSize))
	putUint32(icon[18:], headerSize)

	// BITMAPINFOHEADER, height doubled for the AND mask
	dib := icon[headerSize:]
	putUint32(dib[0:], dibSize)
	putUint32(dib[4:], size)
	putUint32(dib[8:], size*2)
	dib[12], dib[14] = 1, 32
	putUint32(dib[20:], pixelSize)

	// BGRA pixels, bottom-up
	pixels := dib[dibSize:]
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := 2*x-size+1, 2*y-size+1
			if dx*dx+dy*dy > (size-2)*(size-2) {
				continue
			}
			p := pixels[(y*size+x)*4:]
			p[0], p[1], p[2], p[3] = 0xE0, 0x90, 0x30, 0xFF
		}
	}
	return icon
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
