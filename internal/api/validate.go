package api

import (
	"fmt"
	"strings"

	"airassign/internal/model"
)

const maxRunIDLen = 128

func validateSolveRequest(req *model.SolveRequest) error {
	hasName := strings.TrimSpace(req.Dataset) != ""
	if hasName == (req.Inline != nil) {
		return fmt.Errorf("exactly one of dataset or inline is required")
	}
	if len(req.RunID) > maxRunIDLen {
		return fmt.Errorf("runId longer than %d characters", maxRunIDLen)
	}
	if strings.ContainsAny(req.RunID, "/ \t\r\n") {
		return fmt.Errorf("runId must not contain '/' or whitespace")
	}
	return nil
}
