// Copyright 2024 The QuantumEnvelope Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp reads the external input files consumed by the engine: the
// FCIDUMP integral file, the trial wavefunction, and the reference-energy
// file used by tests. Files ending in .gz or .bz2 are decompressed
// transparently.
package inp

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/klauspost/compress/gzip"
)

// open returns a line scanner over the (possibly compressed) file plus a
// close function
func open(path string) (*bufio.Scanner, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, chk.Err("cannot open %q: %v", path, err)
	}
	var r io.Reader = f
	closer := f.Close
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, chk.Err("cannot read gzip file %q: %v", path, err)
		}
		r = gz
		closer = func() error {
			gz.Close()
			return f.Close()
		}
	case strings.HasSuffix(path, ".bz2"):
		r = bzip2.NewReader(f)
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return s, closer, nil
}

// readAll returns the whole (possibly compressed) file as a string
func readAll(path string) (string, error) {
	s, done, err := open(path)
	if err != nil {
		return "", err
	}
	defer done()
	var b strings.Builder
	for s.Scan() {
		b.WriteString(s.Text())
		b.WriteByte('\n')
	}
	if err := s.Err(); err != nil {
		return "", chk.Err("cannot read %q: %v", path, err)
	}
	return b.String(), nil
}
