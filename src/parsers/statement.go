package parsers

import (
	"bufio"
	"io"
	"strings"

	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/models"
)

// lineBatchSize bounds how many data lines are decoded per batch so
// very large exports do not accumulate unbounded intermediate state.
// Output is identical to single-pass processing.
const lineBatchSize = 100

// StatementResult carries the decoded candidates of one document plus
// the number of lines that could not be decoded.
type StatementResult struct {
	Candidates []models.RawTransactionCandidate
	Failed     int
}

// ParseStatement reads a bank export line by line with the decoder for
// its detected format. The first non-empty line is treated as the
// header and skipped. Decode failures are counted, never fatal.
func ParseStatement(r io.Reader, decoder LineDecoder) (*StatementResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	result := &StatementResult{}
	batch := make([]string, 0, lineBatchSize)
	headerSeen := false
	lineNo := 0

	flush := func() {
		for _, line := range batch {
			candidate, err := decoder.DecodeLine(SplitDelimitedLine(line))
			if err != nil {
				result.Failed++
				logger.L.Debug("Skipping unparseable statement line",
					"format", decoder.Format(), "error", err)
				continue
			}
			if candidate == nil {
				continue // format-specific skip rule
			}
			result.Candidates = append(result.Candidates, *candidate)
		}
		batch = batch[:0]
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		batch = append(batch, line)
		if len(batch) >= lineBatchSize {
			flush()
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	logger.L.Info("Statement parsed",
		"format", decoder.Format(),
		"lines", lineNo,
		"candidates", len(result.Candidates),
		"failed", result.Failed)
	return result, nil
}
