package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/gofrs/flock"

	"rentscrape/internal/domain"
)

// Sink receives the pipeline's output. BeginBuilding/Listing/EndBuilding are
// called per building in registry order; Flush is called once at the end of
// the run.
type Sink interface {
	BeginBuilding(name string) error
	Listing(l domain.Listing) error
	EndBuilding(buckets []SizeBucket) error
	Flush() error
}

// TextSink prints the human-readable report: a header per building, one line
// per listing, then per-size summary lines and a blank separator.
type TextSink struct {
	w io.Writer
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) BeginBuilding(name string) error {
	_, err := fmt.Fprintf(s.w, "# %s\n", name)
	return err
}

func (s *TextSink) Listing(l domain.Listing) error {
	_, err := fmt.Fprintf(s.w, "Unit %s: rent=%s size=%s beds=%d per_sq_ft=%s\n",
		l.Unit, ftoa(l.Rent), ftoa(l.Size), l.Beds, ftoa(l.PerSqFt()))
	return err
}

func (s *TextSink) EndBuilding(buckets []SizeBucket) error {
	for _, b := range buckets {
		if _, err := fmt.Fprintf(s.w, "Size %s: %s\n", ftoa(b.Size), ftoa(b.MeanPerSqFt)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.w)
	return err
}

func (s *TextSink) Flush() error { return nil }

var csvHeader = []string{"timestamp", "bldg", "unit", "rent", "size", "beds"}

// CSVSink writes one row per surviving listing across all buildings. The
// timestamp column is captured once per building, when that building's
// processing starts. No aggregate rows are written.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer    // nil when writing to stdout
	unlock func() error // nil when no file lock is held
	now    func() time.Time

	wroteHeader bool
	building    string
	ts          int64
}

func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w), now: time.Now}
}

// NewCSVFileSink appends to path, holding an exclusive file lock for the
// lifetime of the sink so overlapping cron invocations cannot interleave
// rows. The header is only written when the file is empty.
func NewCSVFileSink(path string) (*CSVSink, error) {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	s := NewCSVSink(f)
	s.closer = f
	s.unlock = lock.Unlock
	if st, err := f.Stat(); err == nil && st.Size() > 0 {
		s.wroteHeader = true
	}
	return s, nil
}

func (s *CSVSink) BeginBuilding(name string) error {
	s.building = name
	s.ts = s.now().Unix()
	return nil
}

func (s *CSVSink) Listing(l domain.Listing) error {
	if !s.wroteHeader {
		if err := s.w.Write(csvHeader); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	return s.w.Write([]string{
		strconv.FormatInt(s.ts, 10),
		s.building,
		l.Unit,
		ftoa(l.Rent),
		ftoa(l.Size),
		strconv.Itoa(l.Beds),
	})
}

func (s *CSVSink) EndBuilding([]SizeBucket) error { return nil }

func (s *CSVSink) Flush() error {
	s.w.Flush()
	err := s.w.Error()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	if s.unlock != nil {
		if uerr := s.unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// ftoa formats a float with the fewest digits that round-trip, so whole
// numbers print bare and ratios keep full precision.
func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
