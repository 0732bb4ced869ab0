package runner

import (
	"bytes"
	"os"

	"github.com/mtrbatch/mtrbatch/model"
)

// Line mysql-test-run.pl prints when test cases failed but the tool itself
// ran to completion. Exit status 1 without this line means the tool
// crashed. The phrase is part of the tool's contract, do not reword it.
const testFailureMarker = "mysql-test-run: *** ERROR: there were failing test cases"

// classify maps an invocation's exit status to an outcome. Status 1 is
// ambiguous and is disambiguated by scanning the captured log for the
// failing-test-cases marker.
func classify(status int, logPath string) model.Outcome {
	switch status {
	case 0:
		return model.OutcomeSuccess
	case 1:
		data, err := os.ReadFile(logPath)
		if err == nil && bytes.Contains(data, []byte(testFailureMarker)) {
			return model.OutcomeTestFailure
		}
		return model.OutcomeFatal
	default:
		return model.OutcomeFatal
	}
}
