package pos

import "fmt"

// Status kode numerik yang disimpan backend untuk setiap status meja.
const (
	CodeAvailable   = 0
	CodeOccupied    = 1
	CodeReserved    = 2
	CodeCleaning    = 3
	CodeMaintenance = 4
)

var statusToCode = map[TableStatus]int{
	StatusAvailable:   CodeAvailable,
	StatusOccupied:    CodeOccupied,
	StatusReserved:    CodeReserved,
	StatusCleaning:    CodeCleaning,
	StatusMaintenance: CodeMaintenance,
}

var codeToStatus = map[int]TableStatus{
	CodeAvailable:   StatusAvailable,
	CodeOccupied:    StatusOccupied,
	CodeReserved:    StatusReserved,
	CodeCleaning:    StatusCleaning,
	CodeMaintenance: StatusMaintenance,
}

// StatusCode returns the wire code for status.
func StatusCode(status TableStatus) (int, error) {
	code, ok := statusToCode[status]
	if !ok {
		return 0, fmt.Errorf("encode status %q: %w", status, ErrInvalidStatus)
	}
	return code, nil
}

// StatusFromCode decodes a wire code. Unknown codes are an error, never a
// silent fallback to AVAILABLE.
func StatusFromCode(code int) (TableStatus, error) {
	status, ok := codeToStatus[code]
	if !ok {
		return "", fmt.Errorf("decode status code %d: %w", code, ErrInvalidStatus)
	}
	return status, nil
}
