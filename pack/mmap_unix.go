// SPDX-License-Identifier: MIT

//go:build unix

package pack

import (
	"os"

	"golang.org/x/sys/unix"
)

// MappedFile is an open, memory-mapped pack file. Close unmaps it and
// releases the underlying file descriptor; after Close, the ArchivedPack
// returned alongside it must not be used.
type MappedFile struct {
	f      *os.File
	mapped []byte
}

// Close unmaps the file and closes its descriptor.
func (m *MappedFile) Close() error {
	var err error
	if m.mapped != nil {
		err = unix.Munmap(m.mapped)
		m.mapped = nil
	}
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// MapFile memory-maps path read-only and loads it as an ArchivedPack. The
// returned MappedFile must be closed once the archived pack is no longer
// needed; the ArchivedPack borrows the mapped bytes for its entire lifetime.
func MapFile(path string) (*ArchivedPack, *MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, int(fi.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}

	archived, err := Load(mapped)
	if err != nil {
		// The mapping starts on a page boundary, so this is not an alignment
		// failure; retry once on an aligned heap copy and report the original
		// error if that load fails too.
		copied, copyErr := LoadCopyAligned(mapped)
		if copyErr != nil {
			_ = unix.Munmap(mapped)
			_ = f.Close()
			return nil, nil, err
		}
		if uerr := unix.Munmap(mapped); uerr != nil {
			_ = f.Close()
			return nil, nil, uerr
		}
		return copied, &MappedFile{f: f, mapped: nil}, nil
	}

	return archived, &MappedFile{f: f, mapped: mapped}, nil
}
