package zipcode

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// operator is one output row.
type operator struct {
	CallSign string
	Views    int
}

func parseViews(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// writeCSV writes the operators to the named file sorted by profile views descending, replacing any existing file.
func writeCSV(name string, operators []operator) error {
	sort.SliceStable(operators, func(i, j int) bool {
		return operators[i].Views > operators[j].Views
	})

	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf(`create "%s" error: %w`, name, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{"Callsign", "Profile Views"})
	for _, op := range operators {
		_ = w.Write([]string{op.CallSign, strconv.Itoa(op.Views)})
	}

	w.Flush()
	if err = w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf(`write "%s" error: %w`, name, err)
	}

	return f.Close()
}
