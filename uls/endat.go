package uls

import (
	"bufio"
	"bytes"
	"strings"
)

// Entity file (EN.dat) layout: pipe-delimited records, one per line. Only the fields needed here are named; see the
// FCC's "Public Access Database Definitions" for the full list.
const (
	enFieldRecordType = 0
	enFieldCallSign   = 4
	enFieldZip        = 18
)

// CallSignsByZip parses entity file content and returns the call signs registered in the given zip code.
//
// Only the first five digits of the zip code are compared. Call signs are upper-cased, de-duplicated, and returned
// in file order.
func CallSignsByZip(data []byte, zip string) []string {
	target := zip
	if len(target) > 5 {
		target = target[:5]
	}

	var (
		callSigns []string
		seen      = make(map[string]bool)
		sc        = bufio.NewScanner(bytes.NewReader(data))
	)

	// lines can be longer than bufio.Scanner's default 64 KiB limit.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "EN|") {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) <= enFieldZip {
			continue
		}

		call := strings.ToUpper(strings.TrimSpace(parts[enFieldCallSign]))
		zip5 := strings.TrimSpace(parts[enFieldZip])
		if len(zip5) > 5 {
			zip5 = zip5[:5]
		}

		if call != "" && zip5 == target && !seen[call] {
			seen[call] = true
			callSigns = append(callSigns, call)
		}
	}

	return callSigns
}
