package catalog

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unsafe"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Description holds best-effort attributes of a candidate disk. A nil
// field means the attribute could not be read; that alone never
// disqualifies a disk.
type Description struct {
	Model  *string
	Serial *string
	Size   *uint64 // bytes
}

// Describe collects model, serial and size for the disk behind a by-id
// link. lsblk is the primary source, smartctl fills in identity fields
// it missed and a BLKGETSIZE64 ioctl is the size fallback. Any lookup
// failure downgrades to a missing attribute.
func Describe(path string) Description {
	var d Description

	dev, err := filepath.EvalSymlinks(path)
	if err != nil {
		log.WithError(err).Debugf("cannot resolve %s", path)
		return d
	}
	log.Debugf("describing %s (%s)", path, dev)

	if out, err := exec.Command("lsblk", "-d", "-b", "-J", "-o",
		"NAME,SIZE,MODEL,SERIAL", dev).CombinedOutput(); err == nil {
		parseLsblkInfo(out, &d)
	} else {
		log.WithError(err).Debugf("lsblk failed for %s", dev)
	}

	if d.Model == nil || d.Serial == nil {
		// smartctl exits non-zero for plenty of healthy-but-odd devices,
		// so a failure here is only worth a debug line
		if out, err := exec.Command("smartctl", "-i", dev).CombinedOutput(); err == nil {
			parseSmartInfo(string(out), &d)
		} else {
			log.WithError(err).Debugf("smartctl failed for %s", dev)
		}
	}

	if d.Size == nil {
		if size, err := blockSize(dev); err == nil && size > 0 {
			d.Size = &size
		} else if err != nil {
			log.WithError(err).Debugf("BLKGETSIZE64 failed for %s", dev)
		}
	}

	return d
}

// parseLsblkInfo fills d from lsblk -d -b -J output. Size arrives as a
// bare number on current util-linux and as a quoted string on older
// releases; json.Number accepts both.
func parseLsblkInfo(out []byte, d *Description) {
	var result struct {
		Blockdevices []struct {
			Name   string      `json:"name"`
			Size   json.Number `json:"size"`
			Model  *string     `json:"model"`
			Serial *string     `json:"serial"`
		} `json:"blockdevices"`
	}

	if err := json.Unmarshal(out, &result); err != nil || len(result.Blockdevices) == 0 {
		return
	}

	bd := result.Blockdevices[0]
	d.Model = trimPtr(bd.Model)
	d.Serial = trimPtr(bd.Serial)
	if size, err := strconv.ParseUint(bd.Size.String(), 10, 64); err == nil && size > 0 {
		d.Size = &size
	}
}

// parseSmartInfo fills attributes still missing after lsblk from
// smartctl -i output. ATA reports "Device Model", NVMe "Model Number"
// and SCSI "Product".
func parseSmartInfo(output string, d *Description) {
	if d.Serial == nil {
		reSerial := regexp.MustCompile(`Serial [Nn]umber:\s+(\S+)`)
		if matches := reSerial.FindStringSubmatch(output); len(matches) > 1 {
			d.Serial = ptr(matches[1])
		}
	}

	if d.Model == nil {
		for _, pattern := range []string{`Device Model:\s+(.+)`, `Model Number:\s+(.+)`, `Product:\s+(.+)`} {
			re := regexp.MustCompile(pattern)
			if matches := re.FindStringSubmatch(output); len(matches) > 1 {
				d.Model = ptr(strings.TrimSpace(matches[1]))
				break
			}
		}
	}
}

// blockSize asks the kernel for the device size in bytes.
func blockSize(dev string) (uint64, error) {
	f, err := os.OpenFile(dev, os.O_RDONLY, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var size uint64
	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		f.Fd(),
		unix.BLKGETSIZE64,
		uintptr(unsafe.Pointer(&size)),
	)
	if errno != 0 {
		return 0, errno
	}
	return size, nil
}

func ptr(s string) *string {
	return &s
}

// trimPtr returns nil for empty or whitespace-only values
func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
