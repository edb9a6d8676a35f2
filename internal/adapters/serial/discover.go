package serial

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/imrisaac/iio-accel-screen-rotation/internal/ports"
)

// Discover walks <sysfsRoot>/class/tty and returns the device node of the
// first tty whose USB parent reports vendorID and productID.
func Discover(sysfsRoot, devRoot, vendorID, productID string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(sysfsRoot); err == nil {
		sysfsRoot = resolved
	}
	entries, err := os.ReadDir(filepath.Join(sysfsRoot, "class", "tty"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrDeviceNotFound, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		dev, err := filepath.EvalSymlinks(filepath.Join(sysfsRoot, "class", "tty", name, "device"))
		if err != nil {
			continue
		}
		if usbMatches(dev, sysfsRoot, vendorID, productID) {
			return filepath.Join(devRoot, name), nil
		}
	}
	return "", fmt.Errorf("%w: vid=%s pid=%s", ports.ErrDeviceNotFound, vendorID, productID)
}

func usbMatches(dir, root, vendorID, productID string) bool {
	root = filepath.Clean(root)
	for dir != root && dir != "/" && dir != "." {
		vid, verr := readAttr(dir, "idVendor")
		pid, perr := readAttr(dir, "idProduct")
		if verr == nil && perr == nil {
			return strings.EqualFold(vid, vendorID) && strings.EqualFold(pid, productID)
		}
		dir = filepath.Dir(dir)
	}
	return false
}

func readAttr(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
