package tokencount

import (
	"fmt"
	"strconv"

	"github.com/Pranshu258/OpenPrequal/internal/obslog"
)

// UsageRecorder persists a per-request token accounting row, matching the
// original's tokens.csv (msg_id, agent_name, prompt_len, all_text_len,
// generate_text_len).
type UsageRecorder struct {
	csv *obslog.CSVLogger
}

// NewUsageRecorder opens path, creating the header row if the file is new.
func NewUsageRecorder(path string) (*UsageRecorder, error) {
	l, err := obslog.NewCSVLogger([]string{"msg_id", "agent_name", "prompt_len", "all_text_len", "generate_text_len"}, path)
	if err != nil {
		return nil, fmt.Errorf("tokencount: open usage log: %w", err)
	}
	return &UsageRecorder{csv: l}, nil
}

// Record appends one request's token accounting.
func (u *UsageRecorder) Record(msgID int64, agentName string, promptLen, allTextLen, generateTextLen int) error {
	return u.csv.Log([]string{
		strconv.FormatInt(msgID, 10),
		agentName,
		strconv.Itoa(promptLen),
		strconv.Itoa(allTextLen),
		strconv.Itoa(generateTextLen),
	})
}

// Close releases the underlying file.
func (u *UsageRecorder) Close() error { return u.csv.Close() }
