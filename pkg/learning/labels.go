package learning

import (
	"fmt"
	"strings"
)

// Class indices. The trained model always uses FAKE=0, REAL=1; scoring maps
// predictions back through LabelForClass so the two directions cannot drift.
const (
	ClassFake = 0
	ClassReal = 1

	numClasses = 2
)

// Labels
const (
	LabelFake = "FAKE"
	LabelReal = "REAL"
)

// LabelForClass returns the label string for a class index.
func LabelForClass(class int) string {
	if class == ClassFake {
		return LabelFake
	}
	return LabelReal
}

// ClassForLabel parses a FAKE/REAL label, ignoring case and surrounding space.
func ClassForLabel(label string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case LabelFake:
		return ClassFake, nil
	case LabelReal:
		return ClassReal, nil
	default:
		return 0, fmt.Errorf("unknown label %q (expected FAKE or REAL)", label)
	}
}
