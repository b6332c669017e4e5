package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection connects to display, or to $DISPLAY when display is empty.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		if display == "" {
			return nil, fmt.Errorf("connect to X server: %w", err)
		}
		return nil, fmt.Errorf("connect to X server %s: %w", display, err)
	}

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// MaxRequestBytes returns the largest request the server accepts.
func (c *Connection) MaxRequestBytes() int {
	return int(xproto.Setup(c.XUtil.Conn()).MaximumRequestLength) * 4
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
