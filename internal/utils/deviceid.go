package utils

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var errNoHardwareID = errors.New("no hardware id found")

// GetDeviceFingerprint returns a stable identifier for this machine. It
// prefers a hardware UUID and falls back to the hostname so that local state
// can still be sealed inside containers and CI.
func GetDeviceFingerprint() string {
	if ids, err := GetDeviceFingerprints(); err == nil && len(ids) > 0 {
		return ids[0]
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return "host:" + host
	}
	return "unknown-device"
}

// GetDeviceFingerprints returns the hardware UUIDs known for the current device.
func GetDeviceFingerprints() ([]string, error) {
	switch runtime.GOOS {
	case "darwin":
		return getMacOSUUID()
	case "linux":
		return getLinuxUUID()
	case "windows":
		return getWindowsUUID()
	default:
		return nil, errors.New("unsupported platform: " + runtime.GOOS)
	}
}

func getMacOSUUID() ([]string, error) {
	out, err := exec.Command("ioreg", "-rd1", "-c", "IOPlatformExpertDevice").Output()
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(line, "IOPlatformUUID") {
			parts := strings.Split(line, "\"")
			if len(parts) >= 4 {
				ids = append(ids, parts[3])
			}
		}
	}
	if len(ids) == 0 {
		return nil, errNoHardwareID
	}
	return ids, nil
}

func getLinuxUUID() ([]string, error) {
	for _, path := range []string{"/etc/machine-id", "/sys/class/dmi/id/product_uuid"} {
		if b, err := os.ReadFile(path); err == nil {
			if id := strings.TrimSpace(string(b)); id != "" {
				return []string{id}, nil
			}
		}
	}
	return nil, errNoHardwareID
}

func getWindowsUUID() ([]string, error) {
	out, err := exec.Command("wmic", "csproduct", "get", "UUID").Output()
	if err != nil {
		return nil, err
	}
	for _, line := range bytes.Split(out, []byte("\n")) {
		s := strings.TrimSpace(string(line))
		if s != "" && !strings.EqualFold(s, "UUID") {
			return []string{s}, nil
		}
	}
	return nil, errNoHardwareID
}
