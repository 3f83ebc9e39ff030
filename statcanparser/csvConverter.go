package statcanparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/giygas/statcan-api/logging"
	"github.com/giygas/statcan-api/statcanparser/entities"
)

// readDataset parses the cached CSV into a Dataset. The first record is the
// header; every following record must have the same number of fields.
func readDataset(csvPath string, language entities.Language) (*entities.Dataset, error) {
	csvFile, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrFilesystem, csvPath, err)
	}
	defer func() {
		if err := csvFile.Close(); err != nil {
			logging.Warn("Failed to close CSV file", "path", csvPath, "error", err)
		}
	}()

	reader := csv.NewReader(bufio.NewReader(csvFile))
	reader.Comma = language.Delimiter()

	header, err := reader.Read()
	if err != nil {
		// io.EOF here means an empty file, which is just as unusable as a
		// malformed one.
		return nil, fmt.Errorf("%w: reading header of %s: %w", ErrParse, csvPath, err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrParse, csvPath, err)
		}
		rows = append(rows, record)
	}

	return &entities.Dataset{Columns: header, Rows: rows}, nil
}
