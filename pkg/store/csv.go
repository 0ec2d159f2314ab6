package store

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	taskFields    = 2
	sessionFields = 4
)

// ReadTasks parses task records from r.
//
// Malformed records are collected in Result.Skipped. The returned error is
// non-nil only when r itself fails.
func ReadTasks(r io.Reader) (Result[TaskRecord], error) {
	var res Result[TaskRecord]

	err := readRecords(r, func(line int, fields []string) {
		rec, err := parseTask(fields)
		if err != nil {
			res.Skipped = append(res.Skipped, &RecordError{Line: line, Err: err})
			return
		}
		res.Records = append(res.Records, rec)
	}, func(e *RecordError) {
		res.Skipped = append(res.Skipped, e)
	})

	return res, err
}

// ReadSessions parses session records from r.
//
// Malformed records are collected in Result.Skipped. The returned error is
// non-nil only when r itself fails.
func ReadSessions(r io.Reader) (Result[SessionRecord], error) {
	var res Result[SessionRecord]

	err := readRecords(r, func(line int, fields []string) {
		rec, err := parseSession(fields)
		if err != nil {
			res.Skipped = append(res.Skipped, &RecordError{Line: line, Err: err})
			return
		}
		res.Records = append(res.Records, rec)
	}, func(e *RecordError) {
		res.Skipped = append(res.Skipped, e)
	})

	return res, err
}

// WriteTasks writes one line per task record.
func WriteTasks(w io.Writer, records []TaskRecord) error {
	cw := csv.NewWriter(w)
	for _, rec := range records {
		row := []string{
			rec.Name,
			formatSeconds(rec.Total),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write task %q: %w", rec.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSessions writes one line per session record.
func WriteSessions(w io.Writer, records []SessionRecord) error {
	cw := csv.NewWriter(w)
	for _, rec := range records {
		row := []string{
			rec.Name,
			strconv.FormatInt(rec.Start.Unix(), 10),
			strconv.FormatInt(rec.End.Unix(), 10),
			formatSeconds(rec.Duration),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write session for %q: %w", rec.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// readRecords splits r into lines and parses each one with its own
// csv.Reader, handing each record to onRecord and each unparseable line to
// onSkip. A stray quote can only damage the line it is on. Blank lines are
// ignored.
func readRecords(r io.Reader, onRecord func(line int, fields []string), onSkip func(*RecordError)) error {
	br := bufio.NewReader(r)

	for line := 1; ; line++ {
		text, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("failed to read records: %w", readErr)
		}

		text = strings.TrimRight(text, "\r\n")
		if text != "" {
			fields, err := parseLine(text)
			if err != nil {
				onSkip(&RecordError{
					Line: line,
					Err:  fmt.Errorf("%w: %v", ErrMalformedRecord, err),
				})
			} else {
				onRecord(line, fields)
			}
		}

		if readErr != nil {
			return nil
		}
	}
}

// parseLine parses a single line as one CSV record.
func parseLine(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	fields, err := cr.Read()
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return nil, pe.Err
		}
		return nil, err
	}
	return fields, nil
}

func parseTask(fields []string) (TaskRecord, error) {
	if len(fields) != taskFields {
		return TaskRecord{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), taskFields)
	}
	if fields[0] == "" {
		return TaskRecord{}, ErrEmptyName
	}

	total, err := parseSeconds(fields[1])
	if err != nil {
		return TaskRecord{}, fmt.Errorf("total duration: %w", err)
	}

	return TaskRecord{Name: fields[0], Total: total}, nil
}

func parseSession(fields []string) (SessionRecord, error) {
	if len(fields) != sessionFields {
		return SessionRecord{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), sessionFields)
	}
	if fields[0] == "" {
		return SessionRecord{}, ErrEmptyName
	}

	start, err := parseEpoch(fields[1])
	if err != nil {
		return SessionRecord{}, fmt.Errorf("start time: %w", err)
	}
	end, err := parseEpoch(fields[2])
	if err != nil {
		return SessionRecord{}, fmt.Errorf("end time: %w", err)
	}
	if end.Before(start) {
		return SessionRecord{}, ErrEndBeforeStart
	}
	d, err := parseSeconds(fields[3])
	if err != nil {
		return SessionRecord{}, fmt.Errorf("duration: %w", err)
	}

	return SessionRecord{
		Name:     fields[0],
		Start:    start,
		End:      end,
		Duration: d,
	}, nil
}

func parseInt(field string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, field)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeValue, n)
	}
	return n, nil
}

func parseSeconds(field string) (time.Duration, error) {
	n, err := parseInt(field)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func parseEpoch(field string) (time.Time, error) {
	n, err := parseInt(field)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(n, 0), nil
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}
