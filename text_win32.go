//go:build windows
// +build windows

package winsec

import "syscall"

// Text is a string convertible into the UTF-16 form the OS APIs expect.
type Text string

func (t Text) String() string {
	return string(t)
}

// WChars returns a pointer to a NUL-terminated UTF-16 encoding of the text,
// or nil for the empty string.
func (t Text) WChars() *uint16 {
	if t == "" {
		return nil
	}
	bs, _ := syscall.UTF16FromString(string(t))
	return &bs[0]
}
