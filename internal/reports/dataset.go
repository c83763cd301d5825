package reports

import "fmt"

// Dataset selects which AER report family an invocation processes.
type Dataset string

const (
	// DatasetST1 is the daily well licence report.
	DatasetST1 Dataset = "ST1"
	// DatasetST100 is the daily pipeline construction notice report.
	DatasetST100 Dataset = "ST100"
)

// ParseDataset validates a dataset code received at a trust boundary
// (invocation payload, CLI flag, HTTP request).
func ParseDataset(s string) (Dataset, error) {
	switch Dataset(s) {
	case DatasetST1:
		return DatasetST1, nil
	case DatasetST100:
		return DatasetST100, nil
	}
	return "", fmt.Errorf("unknown dataset %q, expected %q or %q", s, DatasetST1, DatasetST100)
}

func (d Dataset) Valid() bool {
	return d == DatasetST1 || d == DatasetST100
}

func (d Dataset) String() string {
	return string(d)
}
