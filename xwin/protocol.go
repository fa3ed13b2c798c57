package xwin

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// protocol is the set of X requests issued every frame
type protocol interface {
	textExtents(font xproto.Font, text []byte) (width, height int, err error)
	imageText(win xproto.Window, gc xproto.Gcontext, x, y int16, text []byte) error
	clearArea(win xproto.Window, x, y int16, width, height uint16) error
	roundTrip() error
}

// xconn issues checked requests so protocol errors reach the caller of the failing request
type xconn struct {
	conn *xgb.Conn
}

func (c xconn) textExtents(font xproto.Font, text []byte) (int, int, error) {
	chars := char2b(text)
	reply, err := xproto.QueryTextExtents(c.conn, xproto.Fontable(font), chars, uint16(len(chars))).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.OverallWidth), int(reply.FontAscent) + int(reply.FontDescent), nil
}

func (c xconn) imageText(win xproto.Window, gc xproto.Gcontext, x, y int16, text []byte) error {
	return xproto.ImageText8Checked(c.conn, byte(len(text)), xproto.Drawable(win), gc, x, y, string(text)).Check()
}

func (c xconn) clearArea(win xproto.Window, x, y int16, width, height uint16) error {
	return xproto.ClearAreaChecked(c.conn, false, win, x, y, width, height).Check()
}

func (c xconn) roundTrip() error {
	_, err := xproto.GetInputFocus(c.conn).Reply()
	return err
}
