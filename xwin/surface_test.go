package xwin

import (
	"bytes"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestWindowFromEnv(t *testing.T) {
	tests := []struct {
		value  string
		want   xproto.Window
		wantOK bool
	}{
		{"0x2a00007", 0x2a00007, true},
		{"0X1C", 0x1c, true},
		{"2a00007", 0x2a00007, true},
		{"  0x400001 (some trailing note)", 0x400001, true},
		{"", 0, false},
		{"   ", 0, false},
		{"0x0", 0, false},
		{"window", 0, false},
		{"0x1ffffffff", 0, false},
	}

	for _, tt := range tests {
		got, ok := WindowFromEnv(tt.value)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("WindowFromEnv(%q) = (0x%x,%v), want (0x%x,%v)", tt.value, uint32(got), ok, uint32(tt.want), tt.wantOK)
		}
	}
}

func TestLatin1(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"In the ", []byte("In the ")},
		{"", []byte{}},
		{"héllo", []byte{'h', 0xe9, 'l', 'l', 'o'}},
		{"日本", []byte("??")},
		{"“Amen”", []byte("?Amen?")},
	}
	for _, tt := range tests {
		if got := latin1(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("latin1(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestChar2b(t *testing.T) {
	chars := char2b([]byte{'A', 0xe9})
	if len(chars) != 2 {
		t.Fatalf("Got %d chars, want 2", len(chars))
	}
	if chars[0].Byte1 != 0 || chars[0].Byte2 != 'A' || chars[1].Byte2 != 0xe9 {
		t.Errorf("Unexpected encoding: %+v", chars)
	}
}

func TestClamp16(t *testing.T) {
	tests := []struct {
		in   int
		want int16
	}{
		{0, 0},
		{-5, -5},
		{40000, 32767},
		{-40000, -32768},
	}
	for _, tt := range tests {
		if got := clamp16(tt.in); got != tt.want {
			t.Errorf("clamp16(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFontPatterns(t *testing.T) {
	sized := fontPatterns(24)
	if sized[0] != "-*-helvetica-medium-r-normal--24-*-*-*-*-*-iso8859-1" {
		t.Errorf("first pattern = %q", sized[0])
	}
	if sized[len(sized)-1] != "fixed" {
		t.Errorf("last pattern = %q, want fixed", sized[len(sized)-1])
	}

	unsized := fontPatterns(0)
	if len(unsized) != len(sized)-2 {
		t.Errorf("unsized list has %d entries, want %d", len(unsized), len(sized)-2)
	}
}
