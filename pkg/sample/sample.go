// Package sample keeps records of imported samples and import reports.
package sample

import (
	"time"

	"github.com/gnames/gn"
)

// Record is a named sequence to import.
type Record struct {
	Name string
	// Molecule is an accession or alias of the target molecule. Empty
	// means the default molecule of the reference.
	Molecule string
	Sequence string
	// Properties are raw property values by property name.
	Properties map[string]string
	// Err is set when the record could not be parsed. Such records are
	// reported as failed and do not stop the import of others.
	Err error
}

// Failed describes a sample that was not imported.
type Failed struct {
	Name   string
	Code   gn.ErrorCode
	Reason string
}

// Report summarizes an import run.
type Report struct {
	// RunID identifies the run, it is stored with every inserted sample.
	RunID string
	// Inserted are samples stored by this run.
	Inserted int
	// Skipped are samples that were already stored with the same sequence.
	Skipped int
	// Cached are inserted samples whose variants came from the cache.
	Cached int
	Failed []Failed
	Duration time.Duration
}
