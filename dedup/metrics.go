package dedup

import (
	"context"
	"fmt"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Metrics summarizes a deduplication run. A read pair counts as one
// record.
type Metrics struct {
	// RecordsExamined is the number of records read by the first pass.
	RecordsExamined int64
	// Inserted is the number of records whose fingerprint was new.
	Inserted int64
	// Replaced is the number of records that displaced a lower-quality
	// survivor.
	Replaced int64
	// Retained is the number of records dropped because the existing
	// survivor's quality was at least as high.
	Retained int64
	// Survivors is the number of distinct fingerprints.
	Survivors int64
	// RecordsWritten is the number of records written by the replay pass.
	RecordsWritten int64
	// OutputDigest is an order-independent checksum of the output text.
	OutputDigest uint64
}

func (m *Metrics) add(o Outcome) {
	m.RecordsExamined++
	switch o {
	case Inserted:
		m.Inserted++
	case Replaced:
		m.Replaced++
	case Retained:
		m.Retained++
	}
}

// Duplicates returns the number of records that were not kept.
func (m *Metrics) Duplicates() int64 {
	return m.Replaced + m.Retained
}

// PercentDuplication returns the percentage of examined records that were
// duplicates.
func (m *Metrics) PercentDuplication() float64 {
	if m.RecordsExamined == 0 {
		return 0
	}
	return 100 * float64(m.Duplicates()) / float64(m.RecordsExamined)
}

func (m *Metrics) String() string {
	return fmt.Sprintf("examined %d, inserted %d, replaced %d, retained %d, survivors %d, written %d, duplication %0.4f%%, digest %016x",
		m.RecordsExamined, m.Inserted, m.Replaced, m.Retained, m.Survivors,
		m.RecordsWritten, m.PercentDuplication(), m.OutputDigest)
}

func writeMetrics(ctx context.Context, path string, m *Metrics) (err error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "Couldn't create metrics file:", path)
	}
	defer func() {
		if err2 := f.Close(ctx); err == nil && err2 != nil {
			err = errors.E(err2, "close metrics file:", path)
		}
	}()
	w := tsv.NewWriter(f.Writer(ctx))
	w.WriteString("RECORDS_EXAMINED\tINSERTED\tREPLACED\tRETAINED\tSURVIVORS\t" +
		"RECORDS_WRITTEN\tPERCENT_DUPLICATION\tOUTPUT_DIGEST")
	if err = w.EndLine(); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	for _, v := range []int64{m.RecordsExamined, m.Inserted, m.Replaced, m.Retained, m.Survivors, m.RecordsWritten} {
		w.WriteString(strconv.FormatInt(v, 10))
	}
	w.WriteString(strconv.FormatFloat(m.PercentDuplication(), 'f', 6, 64))
	w.WriteString(fmt.Sprintf("%016x", m.OutputDigest))
	if err = w.EndLine(); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	return nil
}
