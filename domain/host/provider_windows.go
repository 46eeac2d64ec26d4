//go:build windows

package host

import (
	"image"
	"strings"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows     = user32.NewProc("EnumWindows")
	procGetWindowTextW  = user32.NewProc("GetWindowTextW")
	procIsWindowVisible = user32.NewProc("IsWindowVisible")
	procGetWindowRect   = user32.NewProc("GetWindowRect")
	procGetCursorPos    = user32.NewProc("GetCursorPos")
)

func cursorPos() (image.Point, error) {
	var pt struct{ X, Y int32 }
	if ok, _, callErr := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt))); ok == 0 {
		return image.Point{}, callErr
	}
	return image.Pt(int(pt.X), int(pt.Y)), nil
}

type window struct {
	hwnd  uintptr
	title string
}

func enumVisible() ([]window, error) {
	var out []window
	cb := syscall.NewCallback(func(hwnd uintptr, lparam uintptr) uintptr {
		if vis, _, _ := procIsWindowVisible.Call(hwnd); vis == 0 {
			return 1
		}
		if title := windowText(hwnd); title != "" {
			out = append(out, window{hwnd: hwnd, title: title})
		}
		return 1
	})
	if r, _, callErr := procEnumWindows.Call(cb, 0); r == 0 && callErr != windows.ERROR_SUCCESS {
		return nil, callErr
	}
	return out, nil
}

func windowText(hwnd uintptr) string {
	buf := make([]uint16, 256)
	n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	end := min(int(n), len(buf))
	for i, v := range buf[:end] {
		if v == 0 {
			end = i
			break
		}
	}
	return strings.TrimSpace(string(utf16.Decode(buf[:end])))
}

func listWindows() ([]string, error) {
	ws, err := enumVisible()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(ws))
	for _, w := range ws {
		titles = append(titles, w.title)
	}
	return titles, nil
}

func windowRect(title string) (image.Rectangle, error) {
	ws, err := enumVisible()
	if err != nil {
		return image.Rectangle{}, err
	}
	for _, w := range ws {
		if normalizeTitle(w.title) != title {
			continue
		}
		var r windows.Rect
		if ok, _, callErr := procGetWindowRect.Call(w.hwnd, uintptr(unsafe.Pointer(&r))); ok == 0 {
			return image.Rectangle{}, callErr
		}
		return image.Rect(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)), nil
	}
	return image.Rectangle{}, ErrWindowNotFound
}
