// Package devid normalizes block device identifiers so that names
// recorded in pool metadata and names discovered in the device catalog
// compare as plain strings.
package devid

import "strings"

// Base returns the final path element of an identifier, so
// /dev/disk/by-id/ata-FOO and ata-FOO map to the same key.
func Base(id string) string {
	if idx := strings.LastIndexByte(id, '/'); idx >= 0 {
		return id[idx+1:]
	}
	return id
}

// Normalize reduces a device identifier to its whole-disk form:
//
//	/dev/disk/by-id/ata-FOO-part2 -> ata-FOO
//	nvme0n1p1                     -> nvme0n1
//	/dev/sda1                     -> sda
//
// Identifiers without a partition suffix pass through unchanged, so
// applying Normalize twice gives the same result as applying it once.
func Normalize(id string) string {
	name := Base(id)

	// by-id style: ata-FOO-part2 -> ata-FOO
	if idx := strings.LastIndex(name, "-part"); idx > 0 && allDigits(name[idx+5:]) {
		return name[:idx]
	}

	// kernel NVMe names: nvme0n1p1 -> nvme0n1. Only kernel names have a
	// digit right after "nvme"; by-id names look like nvme-<model>_<serial>
	// and must not be touched here.
	if strings.HasPrefix(name, "nvme") && len(name) > 4 && isDigit(name[4]) {
		if idx := strings.LastIndexByte(name, 'p'); idx > 4 && allDigits(name[idx+1:]) {
			return name[:idx]
		}
	}

	// kernel disk names: sda1 -> sda
	if strings.HasPrefix(name, "sd") || strings.HasPrefix(name, "hd") ||
		strings.HasPrefix(name, "vd") || strings.HasPrefix(name, "xvd") {
		i := len(name)
		for i > 0 && isDigit(name[i-1]) {
			i--
		}
		return name[:i]
	}

	return name
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
