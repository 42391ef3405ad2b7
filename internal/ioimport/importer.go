// Package ioimport implements the lifecycle.Importer. It stages records
// in the content-addressed cache, aligns sequences without cached
// variants with a pool of workers, stores every sample in its own
// transaction and checks that stored variants restore the sequence.
package ioimport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvariants/internal/iocache"
	"github.com/gnames/gnvariants/internal/iofasta"
	"github.com/gnames/gnvariants/internal/iofs"
	"github.com/gnames/gnvariants/internal/iostore"
	"github.com/gnames/gnvariants/pkg/align"
	"github.com/gnames/gnvariants/pkg/config"
	"github.com/gnames/gnvariants/pkg/errcode"
	"github.com/gnames/gnvariants/pkg/lift"
	"github.com/gnames/gnvariants/pkg/property"
	"github.com/gnames/gnvariants/pkg/sample"
	"github.com/gnames/gnvariants/pkg/variant"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// LengthProperty is filled with the sequence length when it is declared
// and a sample does not provide it.
const LengthProperty = "LENGTH"

// Importer implements lifecycle.Importer.
type Importer struct {
	cfg     *config.Config
	schema  *property.Schema
	cache   *iocache.Cache
	store   *iostore.Store
	metrics *Metrics

	// Progress shows a progress bar on STDERR.
	Progress bool
}

// New creates an Importer. A nil schema accepts no properties, nil
// metrics are created unregistered.
func New(
	cfg *config.Config,
	sch *property.Schema,
	cache *iocache.Cache,
	store *iostore.Store,
	m *Metrics,
) *Importer {
	if sch == nil {
		sch, _ = property.NewSchema()
	}
	if m == nil {
		m = NewMetrics(nil)
	}
	return &Importer{cfg: cfg, schema: sch, cache: cache, store: store, metrics: m}
}

// Metrics returns counters of the importer.
func (imp *Importer) Metrics() *Metrics {
	return imp.metrics
}

// staged is a sample ready for profiling.
type staged struct {
	iocache.StagedSample
	values []property.Value
}

// task is a unique sequence with all samples that carry it.
type task struct {
	samples []staged
	cached  bool
}

type outcome struct {
	task
	vars []variant.Variant
	err  error
}

// ImportBatch stages, aligns, stores and checks records.
func (imp *Importer) ImportBatch(
	ctx context.Context,
	records []sample.Record,
	props map[string]map[string]string,
) (sample.Report, error) {
	if imp.cache == nil || imp.store == nil || imp.cfg == nil {
		return sample.Report{}, NotReadyError("cache, store or config")
	}
	start := time.Now()
	res := sample.Report{RunID: uuid.NewString()}
	slog.Info("Import started", "run_id", res.RunID, "records", len(records))

	tasks, err := imp.stageAll(ctx, records, props, &res)
	if err != nil {
		// samples marked before the error must not leak into the next batch
		imp.cache.Pending()
		return res, err
	}

	if err = imp.run(ctx, tasks, &res); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	imp.report(res)
	if len(records) > 0 && res.Inserted == 0 && res.Skipped == 0 {
		return res, AllFailedError(len(records))
	}
	return res, nil
}

// stageAll stages records and groups samples that need profiling by
// sequence, so every distinct sequence is aligned once.
func (imp *Importer) stageAll(
	ctx context.Context,
	records []sample.Record,
	props map[string]map[string]string,
	res *sample.Report,
) ([]task, error) {
	values := make(map[string][]property.Value)
	var tasks []task
	for _, rec := range records {
		st, vals, err := imp.stage(ctx, rec, props[rec.Name])
		if err != nil {
			if err = imp.fail(res, rec.Name, err); err != nil {
				return nil, err
			}
			continue
		}

		stored, ok, err := imp.store.SampleSeqhash(ctx, st.Name)
		if err != nil {
			return nil, err
		}
		if ok && stored == st.Seqhash {
			slog.Debug("Sample is already stored", "sample", st.Name)
			res.Skipped++
			imp.metrics.add(OutcomeSkipped)
			continue
		}

		if st.HasVar {
			tasks = append(tasks, task{
				samples: []staged{{StagedSample: st, values: vals}},
				cached:  true,
			})
			continue
		}
		values[st.Name] = vals
		imp.cache.MarkForProfiling(st)
	}

	groups := make(map[string]int)
	for _, st := range imp.cache.Pending() {
		key := st.Seqhash + "|" + strconv.Itoa(st.Source.ID)
		s := staged{StagedSample: st, values: values[st.Name]}
		if i, ok := groups[key]; ok {
			tasks[i].samples = append(tasks[i].samples, s)
			continue
		}
		groups[key] = len(tasks)
		tasks = append(tasks, task{samples: []staged{s}})
	}
	return tasks, nil
}

func (imp *Importer) stage(
	ctx context.Context,
	rec sample.Record,
	extra map[string]string,
) (iocache.StagedSample, []property.Value, error) {
	if rec.Err != nil {
		return iocache.StagedSample{}, nil, rec.Err
	}
	st, err := imp.cache.Stage(ctx, rec)
	if err != nil {
		return st, nil, err
	}

	raw := make(map[string]string, len(rec.Properties)+len(extra)+1)
	maps.Copy(raw, extra)
	maps.Copy(raw, rec.Properties)
	if p, ok := imp.schema.Get(LengthProperty); ok && !hasKey(raw, p.Name) {
		raw[p.Name] = strconv.Itoa(len(st.Sequence))
	}
	vals, err := imp.schema.ParseValues(raw)
	if err != nil {
		return st, nil, err
	}
	return st, vals, nil
}

func hasKey(m map[string]string, key string) bool {
	for k := range m {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}

// run aligns tasks with a pool of workers. A single collector stores
// results, so relational writes stay on one connection.
func (imp *Importer) run(ctx context.Context, tasks []task, res *sample.Report) error {
	if len(tasks) == 0 {
		return nil
	}
	jobs := max(imp.cfg.JobsNumber, 1)
	pool := align.NewPool(jobs, imp.cfg.Import.Band)
	defer pool.Close()

	var total int
	for _, t := range tasks {
		total += len(t.samples)
	}
	bar := newProgress(imp.Progress, total, "Importing ")
	defer bar.finish()

	chIn := make(chan task)
	chOut := make(chan outcome)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, t := range tasks {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- t:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for t := range chIn {
				out := outcome{task: t}
				if t.cached {
					out.vars, out.err = imp.cache.Variants(gCtx, t.samples[0].StagedSample)
				} else {
					out.vars, out.err = imp.profile(gCtx, pool, t.samples[0].StagedSample)
				}
				select {
				case <-gCtx.Done():
					return gCtx.Err()
				case chOut <- out:
				}
			}
			return nil
		})
	}

	go func() {
		wg.Wait()
		close(chOut)
	}()

	g.Go(func() error {
		for out := range chOut {
			for _, s := range out.samples {
				if err := imp.save(gCtx, s, out, res); err != nil {
					return err
				}
				bar.inc()
			}
		}
		return nil
	})

	return g.Wait()
}

// profile aligns a sequence to the source element of its molecule,
// decodes nucleotide variants, lifts them to amino acids and caches the
// artifacts.
func (imp *Importer) profile(
	ctx context.Context,
	pool align.Pool,
	st iocache.StagedSample,
) ([]variant.Variant, error) {
	ref := st.Source.Sequence
	es, err := pool.Align(st.Sequence, ref)
	if err != nil {
		return nil, err
	}
	imp.metrics.Alignments.Inc()

	nt, err := align.ExtractVariants(es, st.Sequence, ref, st.Source.ID)
	if err != nil {
		return nil, err
	}
	tbl, err := imp.cache.LiftTable(ctx, st.Molecule)
	if err != nil {
		return nil, err
	}
	vars := append(nt, lift.Lift(nt, tbl)...)

	if err = imp.cache.PutAlignment(ctx, st, es); err != nil {
		return nil, err
	}
	if err = imp.cache.PutVariants(ctx, st, vars); err != nil {
		return nil, err
	}
	return vars, nil
}

// save stores one sample and runs the consistency check. Only errors
// that stop the whole run are returned.
func (imp *Importer) save(
	ctx context.Context,
	s staged,
	out outcome,
	res *sample.Report,
) error {
	if out.err != nil {
		return imp.fail(res, s.Name, out.err)
	}

	smp := iostore.Sample{
		Name:       s.Name,
		Seqhash:    s.Seqhash,
		Length:     len(s.Sequence),
		ElementID:  s.Source.ID,
		RunID:      res.RunID,
		Variants:   out.vars,
		Properties: s.values,
	}
	if _, err := imp.store.Insert(ctx, smp); err != nil {
		return imp.fail(res, s.Name, err)
	}

	if imp.cfg.Import.Paranoid {
		if err := imp.check(ctx, s.StagedSample, res.RunID); err != nil {
			return imp.fail(res, s.Name, err)
		}
	}

	res.Inserted++
	imp.metrics.add(OutcomeInserted)
	if out.cached {
		res.Cached++
		imp.metrics.add(OutcomeCached)
	}
	return nil
}

// check restores the sequence from stored variants. On mismatch the
// sample and its alignment are removed and both sequences are written
// to the fail directory.
func (imp *Importer) check(ctx context.Context, st iocache.StagedSample, runID string) error {
	vars, err := imp.store.Variants(ctx, st.Seqhash, st.Source.ID)
	if err != nil {
		return err
	}
	restored, rerr := variant.Restore(st.Source.Sequence, vars)
	if rerr == nil && restored == st.Sequence {
		return nil
	}

	reason := "restored sequence differs"
	if rerr != nil {
		reason = rerr.Error()
	}
	slog.Error("Consistency check failed", "sample", st.Name, "reason", reason)

	if err = imp.store.RemoveFailed(ctx, st.Name, st.Seqhash, st.Source.ID); err != nil {
		return err
	}
	if err = imp.writeFailed(st, restored, runID); err != nil {
		slog.Error("Cannot save failed sample", "sample", st.Name, "error", err)
	}
	return ParanoidError(st.Name, reason)
}

func (imp *Importer) writeFailed(st iocache.StagedSample, restored, runID string) error {
	dir := filepath.Join(imp.cfg.FailDir(), runID)
	if err := iofs.TouchDir(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, FailFileName(st.Name))
	return iofasta.WriteFile(path,
		iofasta.Entry{Name: st.Name, Description: "original", Sequence: st.Sequence},
		iofasta.Entry{Name: st.Name, Description: "restored", Sequence: restored},
	)
}

// FailFileName converts a sample name into a file name.
func FailFileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
	return clean + ".fa"
}

// fail records a failed sample. Unresolvable references stop the run
// unless errors are ignored.
func (imp *Importer) fail(res *sample.Report, name string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	code := errcode.UnknownError
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		code = gnErr.Code
	}
	if !imp.cfg.Import.IgnoreErrors &&
		(code == errcode.MoleculeNotFoundError || code == errcode.ReferenceNotFoundError) {
		return err
	}

	slog.Warn("Sample is not imported",
		"sample", name,
		"class", errcode.ClassOf(code).String(),
		"error", err,
	)
	res.Failed = append(res.Failed, sample.Failed{
		Name:   name,
		Code:   code,
		Reason: err.Error(),
	})
	imp.metrics.add(OutcomeFailed)
	return nil
}

func (imp *Importer) report(res sample.Report) {
	slog.Info("Import finished",
		"run_id", res.RunID,
		"inserted", res.Inserted,
		"skipped", res.Skipped,
		"cached", res.Cached,
		"failed", len(res.Failed),
		"duration", gnfmt.TimeString(res.Duration.Seconds()),
	)
	msg := fmt.Sprintf(`Import complete
Inserted: %s, skipped: %s, from cache: %s, failed: %s.
Elapsed time: %s`,
		humanize.Comma(int64(res.Inserted)),
		humanize.Comma(int64(res.Skipped)),
		humanize.Comma(int64(res.Cached)),
		humanize.Comma(int64(len(res.Failed))),
		gnfmt.TimeString(res.Duration.Seconds()),
	)
	gn.Info(msg)
}
